package transport

import (
	"fmt"
	"sync"
	"time"

	c "github.com/d0ngw/stats/common"
	"github.com/d0ngw/stats/stats"
)

// Reporter periodically dumps the registry snapshot and hands it to the
// collector
type Reporter struct {
	c.BaseService
	// Registry to dump; the process wide registry is used when nil
	Registry *stats.Registry
	// Collector receiving the snapshots
	Collector Collector
	// IntervalSecond between two reports
	IntervalSecond int

	lock   sync.Mutex
	stopCh chan struct{}
	doneCh chan struct{}
}

// Init impls Service.Init
func (p *Reporter) Init() error {
	if c.HasNil(p.Collector) {
		return fmt.Errorf("Collector must be set")
	}
	if p.IntervalSecond <= 0 {
		return fmt.Errorf("IntervalSecond %d must be >0", p.IntervalSecond)
	}
	return nil
}

// Start impls Service.Start
func (p *Reporter) Start() bool {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.stopCh != nil {
		c.Warnf("reporter %s already started", p.Name())
		return false
	}
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	go p.run(p.stopCh, p.doneCh)
	return true
}

func (p *Reporter) run(stopCh, doneCh chan struct{}) {
	defer close(doneCh)
	ticker := time.NewTicker(time.Duration(p.IntervalSecond) * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := p.Report(); err != nil {
				c.Errorf("report statistics fail,err:%s", err)
			}
		case <-stopCh:
			return
		}
	}
}

// Report dumps a snapshot now and hands it to the collector
func (p *Reporter) Report() error {
	r := p.Registry
	if r == nil {
		r = stats.Current()
	}
	if r == nil {
		c.Debugf("no stats registry bound,skip report")
		return nil
	}
	return p.Collector.Collect(r.DumpStatistics())
}

// Stop impls Service.Stop
func (p *Reporter) Stop() bool {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.stopCh == nil {
		return true
	}
	close(p.stopCh)
	<-p.doneCh
	p.stopCh = nil
	p.doneCh = nil
	return true
}
