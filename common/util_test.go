package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasNil(t *testing.T) {
	assert.True(t, HasNil(nil))
	assert.True(t, HasNil(1, nil))

	var p *int
	assert.True(t, HasNil(p))
	var m map[string]int
	assert.True(t, HasNil(m))
	var f func()
	assert.True(t, HasNil(f))

	assert.False(t, HasNil())
	assert.False(t, HasNil(1, "a", struct{}{}))
	i := 1
	assert.False(t, HasNil(&i))
}
