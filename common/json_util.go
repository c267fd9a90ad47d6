package common

import (
	"bytes"

	jsoniter "github.com/json-iterator/go"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// MarshalJSON 将v编码为JSON
func MarshalJSON(v interface{}) ([]byte, error) {
	return jsonAPI.Marshal(v)
}

// UnmarshalJSON 将JSON数据data解析到v
func UnmarshalJSON(data []byte, v interface{}) error {
	return jsonAPI.Unmarshal(data, v)
}

// UnmarshalUseNumber 使用UseNumber进行解析,避免int64被错误地转为float64
func UnmarshalUseNumber(data []byte, v interface{}) error {
	dec := jsonAPI.NewDecoder(bytes.NewBuffer(data))
	dec.UseNumber()
	return dec.Decode(v)
}
