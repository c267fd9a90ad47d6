package transport

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"time"

	c "github.com/d0ngw/stats/common"
	"github.com/d0ngw/stats/stats"
)

// Collector receives statistics snapshots
type Collector interface {
	// Collect a snapshot
	Collect(data stats.Data) error
}

const defaultCollectTimeoutSecond = 10

// HTTPCollectorConfig 收集服务的配置
type HTTPCollectorConfig struct {
	URL           string `yaml:"url"`
	Encoding      string `yaml:"encoding"`
	TimeoutSecond int    `yaml:"timeout_second"`
}

// Parse impls Configurer.Parse
func (p *HTTPCollectorConfig) Parse() error {
	if p.URL == "" {
		return fmt.Errorf("collector url must not be empty")
	}
	if _, err := EncoderFor(p.Encoding); err != nil {
		return err
	}
	return nil
}

// HTTPCollector posts encoded snapshots to a collector endpoint
type HTTPCollector struct {
	conf    *HTTPCollectorConfig
	encoder Encoder
	client  *http.Client
}

// NewHTTPCollector create HTTPCollector
func NewHTTPCollector(conf *HTTPCollectorConfig) (*HTTPCollector, error) {
	if c.HasNil(conf) {
		return nil, fmt.Errorf("conf must not be nil")
	}
	if err := conf.Parse(); err != nil {
		return nil, err
	}
	encoder, err := EncoderFor(conf.Encoding)
	if err != nil {
		return nil, err
	}
	timeout := conf.TimeoutSecond
	if timeout <= 0 {
		timeout = defaultCollectTimeoutSecond
	}
	return &HTTPCollector{
		conf:    conf,
		encoder: encoder,
		client:  &http.Client{Timeout: time.Duration(timeout) * time.Second},
	}, nil
}

// Collect impls Collector.Collect
func (p *HTTPCollector) Collect(data stats.Data) error {
	body, err := p.encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encode snapshot fail,err:%s", err)
	}
	resp, err := p.client.Post(p.conf.URL, p.encoder.ContentType(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(ioutil.Discard, resp.Body)
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("collector %s replied %s", p.conf.URL, resp.Status)
	}
	return nil
}
