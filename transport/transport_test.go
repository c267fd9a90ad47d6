package transport

import (
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	c "github.com/d0ngw/stats/common"
	"github.com/d0ngw/stats/schema"
	"github.com/d0ngw/stats/stats"
)

var testSpecYAML = []byte(`
module_name: Xfrout
statistics:
  - item_name: zones
    item_type: named_set
    named_set_item_spec:
      item_name: zonename
      item_type: map
      map_item_spec:
        - item_name: xfrreqdone
          item_type: integer
          item_default: 0
  - item_name: axfr_running
    item_type: integer
    item_default: 0
`)

func newTestRegistry(t *testing.T) *stats.Registry {
	spec, err := schema.FromYAML(testSpecYAML)
	assert.Nil(t, err)
	r, err := stats.NewRegistry(spec, nil)
	assert.Nil(t, err)
	return r
}

func TestHTTPCollector(t *testing.T) {
	var (
		lock    sync.Mutex
		gotType string
		gotBody []byte
	)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := ioutil.ReadAll(r.Body)
		lock.Lock()
		gotType = r.Header.Get("Content-Type")
		gotBody = body
		lock.Unlock()
	}))
	defer ts.Close()

	reg := newTestRegistry(t)
	assert.Nil(t, reg.Inc("xfrreqdone", "example.com."))

	for _, encoding := range []string{EncodingJSON, EncodingMsgpack} {
		collector, err := NewHTTPCollector(&HTTPCollectorConfig{URL: ts.URL, Encoding: encoding})
		assert.Nil(t, err)
		assert.Nil(t, collector.Collect(reg.DumpStatistics()))

		enc, err := EncoderFor(encoding)
		assert.Nil(t, err)
		lock.Lock()
		assert.Equal(t, enc.ContentType(), gotType)
		var decoded stats.Data
		assert.Nil(t, enc.Decode(gotBody, &decoded))
		lock.Unlock()
		assert.EqualValues(t, 1, dig(t, decoded, "zones", "example.com.", "xfrreqdone"))
	}
}

func TestHTTPCollectorErrors(t *testing.T) {
	_, err := NewHTTPCollector(nil)
	assert.NotNil(t, err)
	_, err = NewHTTPCollector(&HTTPCollectorConfig{})
	assert.NotNil(t, err)
	_, err = NewHTTPCollector(&HTTPCollectorConfig{URL: "http://127.0.0.1:1", Encoding: "xml"})
	assert.NotNil(t, err)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer ts.Close()

	collector, err := NewHTTPCollector(&HTTPCollectorConfig{URL: ts.URL})
	assert.Nil(t, err)
	assert.NotNil(t, collector.Collect(stats.Data{}))
}

type captureCollector struct {
	lock sync.Mutex
	got  []stats.Data
}

func (p *captureCollector) Collect(data stats.Data) error {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.got = append(p.got, data)
	return nil
}

func (p *captureCollector) count() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	return len(p.got)
}

func TestReporter(t *testing.T) {
	defer goleak.VerifyNone(t)

	reg := newTestRegistry(t)
	assert.Nil(t, reg.Inc("axfr_running", ""))

	collector := &captureCollector{}
	reporter := &Reporter{
		BaseService:    c.BaseService{SName: "test-reporter"},
		Registry:       reg,
		Collector:      collector,
		IntervalSecond: 1,
	}

	assert.True(t, c.ServiceInit(reporter))
	assert.True(t, c.ServiceStart(reporter))
	time.Sleep(1500 * time.Millisecond)
	assert.True(t, c.ServiceStop(reporter))

	assert.True(t, collector.count() >= 1)
	v, ok := collector.got[0].FindInt("axfr_running")
	assert.True(t, ok)
	assert.Equal(t, int64(1), v)
}

func TestReporterInit(t *testing.T) {
	reporter := &Reporter{IntervalSecond: 1}
	assert.NotNil(t, reporter.Init())

	reporter = &Reporter{Collector: &captureCollector{}}
	assert.NotNil(t, reporter.Init())

	// without a bound registry a report is a silent no-op
	reporter = &Reporter{Collector: &captureCollector{}, IntervalSecond: 1}
	assert.Nil(t, reporter.Init())
	assert.Nil(t, reporter.Report())
}

func TestServer(t *testing.T) {
	defer goleak.VerifyNone(t)

	reg := newTestRegistry(t)
	assert.Nil(t, reg.Inc("xfrreqdone", "example.com."))

	server := &Server{
		BaseService: c.BaseService{SName: "test-stats-server"},
		Conf:        &ServerConfig{Addr: "127.0.0.1:0", MaxConns: 10},
		Registry:    reg,
	}
	assert.True(t, c.ServiceInit(server))
	assert.True(t, c.ServiceStart(server))
	addr := server.ListenAddr()
	assert.NotEmpty(t, addr)

	transport := &http.Transport{DisableKeepAlives: true}
	client := &http.Client{Transport: transport}
	defer transport.CloseIdleConnections()

	get := func(path string) stats.Data {
		resp, err := client.Get("http://" + addr + path)
		assert.Nil(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
		body, err := ioutil.ReadAll(resp.Body)
		assert.Nil(t, err)
		var decoded stats.Data
		assert.Nil(t, c.UnmarshalJSON(body, &decoded))
		return decoded
	}

	dump := get(PathStatistics)
	assert.EqualValues(t, 1, dig(t, dump, "zones", "example.com.", "xfrreqdone"))

	defaults := get(PathDefaults)
	assert.EqualValues(t, 0, dig(t, defaults, "zones", "_SERVER_", "xfrreqdone"))

	assert.True(t, c.ServiceStop(server))
}

func TestServerInit(t *testing.T) {
	server := &Server{}
	assert.NotNil(t, server.Init())

	server = &Server{Conf: &ServerConfig{}}
	assert.NotNil(t, server.Init())
}
