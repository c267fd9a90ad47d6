// Package stats supplies a schema driven statistics counter registry.
// A registry is built once from a schema, counters are materialized to
// their schema defaults on first use, and a consistent snapshot with the
// derived entire-server rollup can be dumped at any time for a collector.
package stats

import (
	"strings"
)

// Data is a nested statistics tree. Branch values are Data, leaf values
// are int64. Dumps return fresh trees which never alias registry state.
type Data map[string]interface{}

// Clone returns a deep copy of the tree
func (d Data) Clone() Data {
	if d == nil {
		return nil
	}
	out := make(Data, len(d))
	for k, v := range d {
		if sub, ok := v.(Data); ok {
			out[k] = sub.Clone()
		} else {
			out[k] = v
		}
	}
	return out
}

// Find resolves a `/` separated path inside the tree
func (d Data) Find(path string) (interface{}, bool) {
	segs := strings.Split(path, "/")
	var cur interface{} = d
	for _, seg := range segs {
		m, ok := cur.(Data)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// FindInt resolves path to an int64 leaf
func (d Data) FindInt(path string) (int64, bool) {
	v, ok := d.Find(path)
	if !ok {
		return 0, false
	}
	n, ok := v.(int64)
	return n, ok
}
