package stats

import (
	"fmt"

	"github.com/d0ngw/stats/schema"
)

// Store is the mutable counter state behind a registry. The state is a
// tagged tree with one branch per counter family, mirroring the schema,
// and is populated lazily: a counter holds no value until it is
// materialized to its schema default.
//
// Store does no locking of its own; the owning registry serializes every
// access under its single lock.
type Store struct {
	index *schema.Index

	named   map[string]map[string]int64
	running map[string]int64
	group   map[string]int64
}

// NewStore creates an empty store for the schema of index
func NewStore(index *schema.Index) (*Store, error) {
	if index == nil {
		return nil, fmt.Errorf("nil index")
	}
	s := &Store{index: index}
	s.reset()
	return s, nil
}

func (p *Store) reset() {
	p.named = map[string]map[string]int64{}
	p.running = map[string]int64{}
	p.group = map[string]int64{}
}

// Empty reports whether no counter has been materialized
func (p *Store) Empty() bool {
	return len(p.named) == 0 && len(p.running) == 0 && len(p.group) == 0
}

// EnsureNamed materializes the whole template for key if the key is
// absent. All template items appear at once with their defaults, a
// partially materialized key is never observable. Idempotent.
func (p *Store) EnsureNamed(key string) {
	if _, ok := p.named[key]; ok {
		return
	}
	defaults := p.index.TemplateDefaults()
	attrs := make(map[string]int64, len(defaults))
	for name, def := range defaults {
		attrs[name] = def
	}
	p.named[key] = attrs
}

// AddNamed adds delta to the counter item of key. The key must have been
// materialized by EnsureNamed first.
func (p *Store) AddNamed(key, item string, delta int64) {
	p.named[key][item] += delta
}

// GetNamed returns the counter item of key, without materializing it
func (p *Store) GetNamed(key, item string) (int64, bool) {
	attrs, ok := p.named[key]
	if !ok {
		return 0, false
	}
	v, ok := attrs[item]
	return v, ok
}

// EnsureRunning materializes the running gauge name to its default if it
// is absent. Idempotent.
func (p *Store) EnsureRunning(name string) error {
	if _, ok := p.running[name]; ok {
		return nil
	}
	def, err := p.index.RunningDefault(name)
	if err != nil {
		return err
	}
	p.running[name] = def
	return nil
}

// AddRunning adds delta to the running gauge name. An absent gauge is
// created holding just delta; decrementers rely on this and skip
// materialization on purpose.
func (p *Store) AddRunning(name string, delta int64) {
	p.running[name] += delta
}

// GetRunning returns the running gauge name, without materializing it
func (p *Store) GetRunning(name string) (int64, bool) {
	v, ok := p.running[name]
	return v, ok
}

// EnsureGroup materializes the grouped counter leaf to its default if it
// is absent. Idempotent.
func (p *Store) EnsureGroup(leaf string) error {
	if _, ok := p.group[leaf]; ok {
		return nil
	}
	def, err := p.index.GroupDefault(leaf)
	if err != nil {
		return err
	}
	p.group[leaf] = def
	return nil
}

// AddGroup adds delta to the grouped counter leaf
func (p *Store) AddGroup(leaf string, delta int64) {
	p.group[leaf] += delta
}

// GetGroup returns the grouped counter leaf, without materializing it
func (p *Store) GetGroup(leaf string) (int64, bool) {
	v, ok := p.group[leaf]
	return v, ok
}

// Clear discards all counter state, the store is empty afterwards.
// Subsequent operations re-materialize defaults transparently.
func (p *Store) Clear() {
	p.reset()
}
