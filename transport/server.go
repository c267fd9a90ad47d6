package transport

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/netutil"

	c "github.com/d0ngw/stats/common"
	"github.com/d0ngw/stats/stats"
)

// statistics endpoint paths
const (
	PathStatistics = "/statistics"
	PathDefaults   = "/statistics/defaults"
)

// ServerConfig 统计查询服务的配置
type ServerConfig struct {
	Addr         string `yaml:"addr"`
	MaxConns     int    `yaml:"max_conns"`
	ReadTimeout  int    `yaml:"read_timeout"`
	WriteTimeout int    `yaml:"write_timeout"`
}

// Parse impls Configurer.Parse
func (p *ServerConfig) Parse() error {
	if p.Addr == "" {
		return fmt.Errorf("addr must not be empty")
	}
	return nil
}

type tcpKeepAliveListener struct {
	*net.TCPListener
}

// Accept接受连接
func (ln tcpKeepAliveListener) Accept() (c net.Conn, err error) {
	tc, err := ln.AcceptTCP()
	if err != nil {
		return nil, err
	}
	if err = tc.SetKeepAlive(true); err != nil {
		return
	}
	if err = tc.SetKeepAlivePeriod(3 * time.Minute); err != nil {
		return
	}
	return tc, nil
}

type graceHandler struct {
	handler   http.Handler
	waitGroup *sync.WaitGroup
}

func (p *graceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.waitGroup.Add(1)
	defer p.waitGroup.Done()

	p.handler.ServeHTTP(w, r)
}

// Server exposes the current snapshot and the schema defaults over HTTP
// for pull based collectors
type Server struct {
	c.BaseService
	Conf *ServerConfig
	// Registry to serve; the process wide registry is used when nil
	Registry *stats.Registry

	lock         sync.Mutex
	listener     net.Listener
	graceHandler *graceHandler
	server       *http.Server
}

// Init impls Service.Init
func (p *Server) Init() error {
	p.lock.Lock()
	defer p.lock.Unlock()

	if c.HasNil(p.Conf) {
		return fmt.Errorf("Conf must be set")
	}
	if err := p.Conf.Parse(); err != nil {
		return err
	}

	serveMux := http.NewServeMux()
	serveMux.HandleFunc(PathStatistics, func(w http.ResponseWriter, r *http.Request) {
		p.dump(w, func(reg *stats.Registry) stats.Data { return reg.DumpStatistics() })
	})
	serveMux.HandleFunc(PathDefaults, func(w http.ResponseWriter, r *http.Request) {
		p.dump(w, func(reg *stats.Registry) stats.Data { return reg.DumpDefaults() })
	})

	grace := &graceHandler{
		handler:   serveMux,
		waitGroup: &sync.WaitGroup{}}

	p.graceHandler = grace
	p.server = &http.Server{
		Addr:         p.Conf.Addr,
		ReadTimeout:  time.Duration(p.Conf.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(p.Conf.WriteTimeout) * time.Second,
		Handler:      grace}
	return nil
}

func (p *Server) dump(w http.ResponseWriter, dumpFunc func(reg *stats.Registry) stats.Data) {
	reg := p.Registry
	if reg == nil {
		reg = stats.Current()
	}
	if reg == nil {
		http.Error(w, "no stats registry bound", http.StatusServiceUnavailable)
		return
	}
	body, err := c.MarshalJSON(dumpFunc(reg))
	if err != nil {
		c.Errorf("encode statistics fail,err:%s", err)
		http.Error(w, "encode fail", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// Start impls Service.Start
func (p *Server) Start() bool {
	p.lock.Lock()
	defer p.lock.Unlock()

	c.Infof("Listen at %s", p.Conf.Addr)
	ln, err := net.Listen("tcp", p.Conf.Addr)
	if err != nil {
		c.Errorf("Listen at %s fail,error:%v", p.Conf.Addr, err)
		return false
	}

	tcpListener := tcpKeepAliveListener{ln.(*net.TCPListener)}
	if p.Conf.MaxConns > 0 {
		p.listener = netutil.LimitListener(tcpListener, p.Conf.MaxConns)
	} else {
		p.listener = tcpListener
	}

	p.graceHandler.waitGroup.Add(1)

	go func() {
		defer p.graceHandler.waitGroup.Done()
		err := p.server.Serve(p.listener)
		if err != nil {
			var errLevel = c.Error
			if strings.Contains(err.Error(), "use of closed network connection") {
				errLevel = c.Warn
			}
			c.Logf(errLevel, "server.Serve return with %v", err)
		}
	}()
	return true
}

// ListenAddr is the bound address, empty before Start
func (p *Server) ListenAddr() string {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.listener == nil {
		return ""
	}
	return p.listener.Addr().String()
}

// Stop impls Service.Stop
func (p *Server) Stop() bool {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.listener != nil {
		if err := p.listener.Close(); err != nil {
			c.Errorf("Close listener error:%v", err)
		}
	}

	//等待所有的服务
	c.Infof("Waiting shutdown")
	p.graceHandler.waitGroup.Wait()
	c.Infof("Finish shutdown")

	p.listener = nil
	p.graceHandler = nil
	p.server = nil
	return true
}
