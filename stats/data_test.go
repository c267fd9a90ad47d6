package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDataClone(t *testing.T) {
	d := Data{
		"a": int64(1),
		"b": Data{"c": int64(2)},
	}
	clone := d.Clone()
	assert.Equal(t, d, clone)

	clone["b"].(Data)["c"] = int64(100)
	v, ok := d.FindInt("b/c")
	assert.True(t, ok)
	assert.Equal(t, int64(2), v)

	assert.Nil(t, Data(nil).Clone())
}

func TestDataFind(t *testing.T) {
	d := Data{
		"a": int64(1),
		"b": Data{"c": int64(2)},
	}

	v, ok := d.Find("b")
	assert.True(t, ok)
	assert.Equal(t, Data{"c": int64(2)}, v)

	n, ok := d.FindInt("a")
	assert.True(t, ok)
	assert.Equal(t, int64(1), n)

	_, ok = d.Find("a/b")
	assert.False(t, ok)
	_, ok = d.Find("nosuch")
	assert.False(t, ok)
	_, ok = d.FindInt("b")
	assert.False(t, ok)
}
