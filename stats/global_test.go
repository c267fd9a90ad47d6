package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func resetGlobal() {
	globalMu.Lock()
	defer globalMu.Unlock()
	global = nil
}

func TestGlobalBeforeInit(t *testing.T) {
	resetGlobal()
	defer resetGlobal()

	// collaborator modules may call counters before Init, nothing happens
	Inc("notifyoutv4", "example.com.")
	Dec("axfr_running")
	Clear()
	Enable()
	Disable()
	_, ok := Get("notifyoutv4", "example.com.")
	assert.False(t, ok)
	assert.Nil(t, DumpDefaults())
	assert.Nil(t, DumpStatistics())
	assert.Nil(t, Current())
}

func TestGlobalInit(t *testing.T) {
	resetGlobal()
	defer resetGlobal()

	r, err := Init(newTestSpec(t), nil)
	assert.Nil(t, err)
	assert.Equal(t, r, Current())

	// a second Init keeps the first registry
	r2, err := Init(newTestSpec(t), nil)
	assert.Nil(t, err)
	assert.Equal(t, r, r2)

	Inc("notifyoutv4", "example.com.")
	v, ok := Get("notifyoutv4", "example.com.")
	assert.True(t, ok)
	assert.Equal(t, int64(1), v)

	// unknown names at the package level are logged, not returned
	Inc("nosuch", "")
	_, ok = Get("nosuch", "")
	assert.False(t, ok)

	Disable()
	Inc("notifyoutv4", "example.com.")
	v, _ = Get("notifyoutv4", "example.com.")
	assert.Equal(t, int64(1), v)
	Enable()

	assert.NotNil(t, DumpDefaults())
	dump := DumpStatistics()
	v, ok = dump.FindInt("zones/example.com./notifyoutv4")
	assert.True(t, ok)
	assert.Equal(t, int64(1), v)

	Clear()
	assert.Equal(t, Data{}, DumpStatistics())
}
