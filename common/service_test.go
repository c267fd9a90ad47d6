package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type orderedService struct {
	BaseService
	started *[]string
}

func (p *orderedService) Start() bool {
	*p.started = append(*p.started, p.SName)
	return true
}

func TestServiceLifecycle(t *testing.T) {
	var started []string
	s := &orderedService{BaseService: BaseService{SName: "s1"}, started: &started}

	assert.Equal(t, NEW, s.State())
	assert.True(t, ServiceInit(s))
	assert.Equal(t, INITED, s.State())
	// a second init is skipped
	assert.True(t, ServiceInit(s))

	assert.True(t, ServiceStart(s))
	assert.Equal(t, RUNNING, s.State())
	assert.True(t, ServiceStop(s))
	assert.Equal(t, TERMINATED, s.State())

	// no transition out of TERMINATED
	assert.False(t, ServiceStart(s))
}

func TestServicesOrder(t *testing.T) {
	var started []string
	s1 := &orderedService{BaseService: BaseService{SName: "s1", Order: 2}, started: &started}
	s2 := &orderedService{BaseService: BaseService{SName: "s2", Order: 1}, started: &started}

	services := NewServices([]Service{s1, s2}, true)
	assert.True(t, services.Init())
	assert.True(t, services.Start())
	assert.Equal(t, []string{"s2", "s1"}, started)
	assert.True(t, services.Stop())
}

func TestIsValidServiceState(t *testing.T) {
	assert.True(t, IsValidServiceState(NEW, INITED))
	assert.True(t, IsValidServiceState(RUNNING, STOPPING))
	assert.False(t, IsValidServiceState(TERMINATED, STARTING))
	assert.False(t, IsValidServiceState(NEW, RUNNING))
}
