package common

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnmarshalUseNumber(t *testing.T) {
	var v map[string]interface{}
	err := UnmarshalUseNumber([]byte(`{"a":9223372036854775807,"b":{"c":1}}`), &v)
	assert.Nil(t, err)

	n, ok := v["a"].(json.Number)
	assert.True(t, ok)
	i, err := n.Int64()
	assert.Nil(t, err)
	assert.Equal(t, int64(9223372036854775807), i)

	b := v["b"].(map[string]interface{})
	assert.IsType(t, json.Number(""), b["c"])
}

func TestMarshalJSON(t *testing.T) {
	data, err := MarshalJSON(map[string]interface{}{"a": int64(1)})
	assert.Nil(t, err)
	assert.JSONEq(t, `{"a":1}`, string(data))

	var v map[string]interface{}
	err = UnmarshalJSON(data, &v)
	assert.Nil(t, err)
	assert.EqualValues(t, 1, v["a"])
}
