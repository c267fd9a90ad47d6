package stats

import (
	"fmt"
	"sync"
	"sync/atomic"

	c "github.com/d0ngw/stats/common"
	"github.com/d0ngw/stats/schema"
)

type family int

const (
	famNamed family = iota
	famRunning
	famGroup
)

// op is one schema derived counter operation binding. Built once at
// registry construction, immutable afterwards.
type op struct {
	// item is the schema item the operation is bound to: the template
	// item name, the running gauge name or the group leaf name
	item   string
	fam    family
	canDec bool
}

// Registry holds the bound counter operations of one schema. All mutation
// runs under a single lock; increments and decrements are no-ops while
// the registry is disabled.
type Registry struct {
	mu       sync.Mutex
	disabled int32

	index *schema.Index
	store *Store
	ops   map[string]*op
}

// NewRegistry builds a registry with an empty store for spec. Operation
// names are the template item names, the running gauge names and the
// group leaves prefixed with the group name.
func NewRegistry(spec *schema.Spec, conf *schema.IndexConfig) (*Registry, error) {
	index, err := schema.NewIndex(spec, conf)
	if err != nil {
		return nil, err
	}
	store, err := NewStore(index)
	if err != nil {
		return nil, err
	}
	r := &Registry{
		index: index,
		store: store,
		ops:   map[string]*op{},
	}
	for _, item := range index.NamedItems() {
		if err := r.addOp(item, &op{item: item, fam: famNamed}); err != nil {
			return nil, err
		}
	}
	for _, name := range index.RunningNames() {
		if err := r.addOp(name, &op{item: name, fam: famRunning, canDec: true}); err != nil {
			return nil, err
		}
	}
	for _, leaf := range index.GroupLeaves() {
		name := index.GroupName() + "_" + leaf
		if err := r.addOp(name, &op{item: leaf, fam: famGroup}); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (p *Registry) addOp(name string, o *op) error {
	if _, ok := p.ops[name]; ok {
		return fmt.Errorf("duplicated counter name %s in module %s", name, p.index.Spec().Module())
	}
	p.ops[name] = o
	return nil
}

// Index is the schema index the registry was built from
func (p *Registry) Index() *schema.Index {
	return p.index
}

// Names lists the bound counter operation names
func (p *Registry) Names() []string {
	names := make([]string, 0, len(p.ops))
	for name := range p.ops {
		names = append(names, name)
	}
	return names
}

// Inc increments the counter name by one. Per-key counters take the
// dynamic key, keyless counters ignore it. A no-op while disabled.
func (p *Registry) Inc(name, key string) error {
	return p.IncBy(name, key, 1)
}

// IncBy increments the counter name by step, materializing it to its
// schema default first if it was never touched. For per-key counters the
// whole template of key is materialized in the same critical section.
func (p *Registry) IncBy(name, key string, step int64) error {
	if atomic.LoadInt32(&p.disabled) != 0 {
		return nil
	}
	o, ok := p.ops[name]
	if !ok {
		return fmt.Errorf("unknown counter %s", name)
	}
	switch o.fam {
	case famNamed:
		if key == "" {
			return fmt.Errorf("counter %s requires a key", name)
		}
		p.mu.Lock()
		defer p.mu.Unlock()
		p.store.EnsureNamed(key)
		p.store.AddNamed(key, o.item, step)
		return nil
	case famRunning:
		p.mu.Lock()
		defer p.mu.Unlock()
		if err := p.store.EnsureRunning(o.item); err != nil {
			return err
		}
		p.store.AddRunning(o.item, step)
		return nil
	default:
		p.mu.Lock()
		defer p.mu.Unlock()
		if err := p.store.EnsureGroup(o.item); err != nil {
			return err
		}
		p.store.AddGroup(o.item, step)
		return nil
	}
}

// Dec decrements the counter name by one. Only running gauges have a
// decrementer. Unlike Inc it does not materialize the gauge first, a
// decrement before any increment creates the value as a bare -1; that
// asymmetry is the documented contract of the running gauges. A no-op
// while disabled.
func (p *Registry) Dec(name string) error {
	if atomic.LoadInt32(&p.disabled) != 0 {
		return nil
	}
	o, ok := p.ops[name]
	if !ok {
		return fmt.Errorf("unknown counter %s", name)
	}
	if !o.canDec {
		return fmt.Errorf("counter %s has no decrementer", name)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.store.AddRunning(o.item, -1)
	return nil
}

// Get reads the counter name. A counter never touched reads as absent
// (ok false), not as zero; Get never materializes and ignores the
// disabled flag. The error reports unknown names only.
func (p *Registry) Get(name, key string) (value int64, ok bool, err error) {
	o, found := p.ops[name]
	if !found {
		return 0, false, fmt.Errorf("unknown counter %s", name)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	switch o.fam {
	case famNamed:
		if key == "" {
			return 0, false, fmt.Errorf("counter %s requires a key", name)
		}
		value, ok = p.store.GetNamed(key, o.item)
	case famRunning:
		value, ok = p.store.GetRunning(o.item)
	default:
		value, ok = p.store.GetGroup(o.item)
	}
	return value, ok, nil
}

// Incrementer returns the increment operation bound to name, suitable to
// hand to session or notify code as a counter handler. Keyless counters
// ignore the key argument.
func (p *Registry) Incrementer(name string) (func(key string), error) {
	if _, ok := p.ops[name]; !ok {
		return nil, fmt.Errorf("unknown counter %s", name)
	}
	return func(key string) {
		if err := p.Inc(name, key); err != nil {
			c.Errorf("inc %s fail,err:%s", name, err)
		}
	}, nil
}

// Decrementer returns the decrement operation bound to name
func (p *Registry) Decrementer(name string) (func(), error) {
	o, ok := p.ops[name]
	if !ok {
		return nil, fmt.Errorf("unknown counter %s", name)
	}
	if !o.canDec {
		return nil, fmt.Errorf("counter %s has no decrementer", name)
	}
	return func() {
		if err := p.Dec(name); err != nil {
			c.Errorf("dec %s fail,err:%s", name, err)
		}
	}, nil
}

// Clear discards all counter state
func (p *Registry) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.store.Clear()
}

// Disable turns increments and decrements into no-ops. Get and the dump
// operations keep working.
func (p *Registry) Disable() {
	p.mu.Lock()
	defer p.mu.Unlock()
	atomic.StoreInt32(&p.disabled, 1)
}

// Enable resumes counting
func (p *Registry) Enable() {
	p.mu.Lock()
	defer p.mu.Unlock()
	atomic.StoreInt32(&p.disabled, 0)
}

// Enabled reports whether counting is enabled
func (p *Registry) Enabled() bool {
	return atomic.LoadInt32(&p.disabled) == 0
}

var (
	globalMu sync.Mutex
	global   *Registry
)

// Init builds the process wide registry once. A second call returns the
// registry built first, a different schema on that call is ignored; this
// matches collaborators loading in arbitrary order.
func Init(spec *schema.Spec, conf *schema.IndexConfig) (*Registry, error) {
	globalMu.Lock()
	defer globalMu.Unlock()
	if global != nil {
		c.Warnf("stats registry of module %s already initialized,keep it", global.index.Spec().Module())
		return global, nil
	}
	r, err := NewRegistry(spec, conf)
	if err != nil {
		return nil, err
	}
	global = r
	return r, nil
}

// Current returns the process wide registry, nil before Init
func Current() *Registry {
	globalMu.Lock()
	defer globalMu.Unlock()
	return global
}

// Inc increments the counter name by one on the process wide registry.
// A safe no-op before Init so collaborator modules may call counters of
// a registry that is not built yet.
func Inc(name, key string) {
	r := Current()
	if r == nil {
		return
	}
	if err := r.Inc(name, key); err != nil {
		c.Errorf("inc %s fail,err:%s", name, err)
	}
}

// Dec decrements the counter name by one on the process wide registry.
// A safe no-op before Init.
func Dec(name string) {
	r := Current()
	if r == nil {
		return
	}
	if err := r.Dec(name); err != nil {
		c.Errorf("dec %s fail,err:%s", name, err)
	}
}

// Get reads the counter name on the process wide registry. Before Init
// every counter reads as absent.
func Get(name, key string) (int64, bool) {
	r := Current()
	if r == nil {
		return 0, false
	}
	v, ok, err := r.Get(name, key)
	if err != nil {
		c.Errorf("get %s fail,err:%s", name, err)
		return 0, false
	}
	return v, ok
}

// Clear discards all counter state of the process wide registry
func Clear() {
	if r := Current(); r != nil {
		r.Clear()
	}
}

// Enable resumes counting on the process wide registry
func Enable() {
	if r := Current(); r != nil {
		r.Enable()
	}
}

// Disable suspends counting on the process wide registry
func Disable() {
	if r := Current(); r != nil {
		r.Disable()
	}
}

// DumpDefaults dumps the schema defaults of the process wide registry,
// nil before Init
func DumpDefaults() Data {
	if r := Current(); r != nil {
		return r.DumpDefaults()
	}
	return nil
}

// DumpStatistics dumps the snapshot of the process wide registry, nil
// before Init
func DumpStatistics() Data {
	if r := Current(); r != nil {
		return r.DumpStatistics()
	}
	return nil
}
