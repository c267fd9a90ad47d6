package stats

import (
	"github.com/d0ngw/stats/schema"
)

// DumpDefaults returns every schema item's declared default as a fresh
// tree. The result reflects the schema only, never live counter state,
// so it is the same whenever it is called.
func (p *Registry) DumpDefaults() Data {
	out := Data{}
	for _, it := range p.index.Spec().Items() {
		out[it.Name] = p.itemDefaults(it)
	}
	return out
}

func (p *Registry) itemDefaults(it *schema.Item) interface{} {
	switch it.Kind {
	case schema.Map:
		sub := Data{}
		for _, child := range it.Items {
			sub[child.Name] = p.itemDefaults(child)
		}
		return sub
	case schema.NamedSet:
		sub := Data{}
		for key, attrs := range it.SetDefault {
			ent := make(Data, len(attrs))
			for attr, v := range attrs {
				ent[attr] = v
			}
			sub[key] = ent
		}
		if len(sub) == 0 {
			// no pre-declared keys, the entire-server key carries the
			// template defaults as the reference shape
			ent := Data{}
			for _, t := range it.Template {
				ent[t.Name] = t.Default
			}
			sub[p.index.EntireServer()] = ent
		}
		return sub
	default:
		return it.Default
	}
}

// DumpStatistics computes a point-in-time snapshot of the current counter
// state, with the entire-server rollup derived per attribute. An untouched
// store dumps as an empty tree. The snapshot is fully materialized and
// never aliases the store.
func (p *Registry) DumpStatistics() Data {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

func (p *Registry) snapshotLocked() Data {
	if p.store.Empty() {
		return Data{}
	}
	out := Data{}
	named := Data{}
	out[p.index.NamedSetPrefix()] = named
	entire := p.index.EntireServer()
	for key, attrs := range p.store.named {
		if key == entire {
			continue
		}
		ent := make(Data, len(attrs))
		for attr, v := range attrs {
			ent[attr] = v
		}
		named[key] = ent
	}
	for _, attr := range p.index.ServerAttrs() {
		var sum int64
		for key, attrs := range p.store.named {
			if key == entire {
				continue
			}
			sum += attrs[attr]
		}
		// a zero sum attribute is left out of the rollup entirely
		if sum > 0 {
			ent, ok := named[entire].(Data)
			if !ok {
				ent = Data{}
				named[entire] = ent
			}
			ent[attr] = sum
		}
	}
	for _, name := range p.index.RunningNames() {
		if v, ok := p.store.running[name]; ok {
			out[name] = v
		}
	}
	if len(p.store.group) > 0 {
		cur := out
		for _, seg := range p.index.GroupSegments() {
			next := Data{}
			cur[seg] = next
			cur = next
		}
		for leaf, v := range p.store.group {
			cur[leaf] = v
		}
	}
	return out
}
