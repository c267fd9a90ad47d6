package common

import (
	"reflect"
)

// HasNil 判断values中是否有nil值
func HasNil(values ...interface{}) bool {
	for _, value := range values {
		if value == nil {
			return true
		}
		val := reflect.ValueOf(value)
		switch val.Kind() {
		case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
			if val.IsNil() {
				return true
			}
		}
	}
	return false
}
