package schema

import (
	"fmt"
	"sort"
	"strings"
)

// IndexConfig selects the counter families out of a schema
type IndexConfig struct {
	// NamedSetPrefix is the top level name of the per-key counter set
	NamedSetPrefix string `yaml:"named_set_prefix"`
	// EntireServer is the reserved key holding the server wide rollup
	EntireServer string `yaml:"entire_server"`
	// RunningMatch selects running gauges by substring of the item name
	RunningMatch string `yaml:"running_match"`
	// GroupPrefix is the path of the grouped counter map, may be empty
	GroupPrefix string `yaml:"group_prefix"`
	// GroupName prefixes the operation names of grouped counters
	GroupName string `yaml:"group_name"`
}

// DefaultIndexConfig returns the config for the per-zone counter layout
func DefaultIndexConfig() *IndexConfig {
	return &IndexConfig{
		NamedSetPrefix: "zones",
		EntireServer:   "_SERVER_",
		RunningMatch:   "xfr_running",
		GroupPrefix:    "socket/unixdomain",
		GroupName:      "unixsocket",
	}
}

func (p *IndexConfig) withDefaults() *IndexConfig {
	def := DefaultIndexConfig()
	if p == nil {
		return def
	}
	conf := *p
	if conf.NamedSetPrefix == "" {
		conf.NamedSetPrefix = def.NamedSetPrefix
	}
	if conf.EntireServer == "" {
		conf.EntireServer = def.EntireServer
	}
	if conf.RunningMatch == "" {
		conf.RunningMatch = def.RunningMatch
	}
	if conf.GroupName == "" {
		conf.GroupName = def.GroupName
	}
	return &conf
}

// Index classifies the items of a Spec into the three counter families and
// caches every default needed to materialize counters. Stateless after
// construction.
type Index struct {
	spec *Spec
	conf *IndexConfig

	namedItems       []string
	templateDefaults map[string]int64
	serverAttrs      []string

	runningNames    []string
	runningDefaults map[string]int64

	groupSegments []string
	groupLeaves   []string
	groupDefaults map[string]int64
}

// NewIndex builds an Index for spec. The named set prefix must exist in
// the schema; the group prefix is optional.
func NewIndex(spec *Spec, conf *IndexConfig) (*Index, error) {
	if spec == nil {
		return nil, fmt.Errorf("nil spec")
	}
	idx := &Index{
		spec:             spec,
		conf:             conf.withDefaults(),
		templateDefaults: map[string]int64{},
		runningDefaults:  map[string]int64{},
		groupDefaults:    map[string]int64{},
	}
	if err := idx.indexNamedSet(); err != nil {
		return nil, err
	}
	idx.indexRunning()
	if err := idx.indexGroup(); err != nil {
		return nil, err
	}
	return idx, nil
}

func (p *Index) indexNamedSet() error {
	it, err := p.spec.Find(p.conf.NamedSetPrefix)
	if err != nil {
		return err
	}
	if it.Kind != NamedSet {
		return fmt.Errorf("%s is a %s, not a named set", p.conf.NamedSetPrefix, it.Kind)
	}
	for _, t := range it.Template {
		p.namedItems = append(p.namedItems, t.Name)
		p.templateDefaults[t.Name] = t.Default
	}
	if attrs, ok := it.SetDefault[p.conf.EntireServer]; ok {
		for attr := range attrs {
			p.serverAttrs = append(p.serverAttrs, attr)
		}
		sort.Strings(p.serverAttrs)
	} else {
		p.serverAttrs = append(p.serverAttrs, p.namedItems...)
	}
	return nil
}

func (p *Index) indexRunning() {
	for _, name := range p.spec.NameList(false) {
		if !strings.Contains(name, p.conf.RunningMatch) {
			continue
		}
		it, err := p.spec.Find(name)
		if err != nil || it.Kind != Integer {
			continue
		}
		p.runningNames = append(p.runningNames, name)
		p.runningDefaults[name] = it.Default
	}
}

func (p *Index) indexGroup() error {
	if p.conf.GroupPrefix == "" {
		return nil
	}
	it, err := p.spec.Find(p.conf.GroupPrefix)
	if err != nil {
		// a schema without the group is fine, the family stays empty
		return nil
	}
	if it.Kind != Map {
		return fmt.Errorf("%s is a %s, not a map", p.conf.GroupPrefix, it.Kind)
	}
	p.groupSegments = strings.Split(p.conf.GroupPrefix, "/")
	var walk func(items []*Item) error
	walk = func(items []*Item) error {
		for _, child := range items {
			switch child.Kind {
			case Integer:
				if _, ok := p.groupDefaults[child.Name]; ok {
					return fmt.Errorf("duplicated group leaf %s under %s", child.Name, p.conf.GroupPrefix)
				}
				p.groupLeaves = append(p.groupLeaves, child.Name)
				p.groupDefaults[child.Name] = child.Default
			case Map:
				if err := walk(child.Items); err != nil {
					return err
				}
			}
		}
		return nil
	}
	return walk(it.Items)
}

// Spec is the indexed schema
func (p *Index) Spec() *Spec {
	return p.spec
}

// NamedSetPrefix is the name of the per-key counter set
func (p *Index) NamedSetPrefix() string {
	return p.conf.NamedSetPrefix
}

// EntireServer is the reserved server wide key
func (p *Index) EntireServer() string {
	return p.conf.EntireServer
}

// GroupName is the operation name prefix of the grouped counters
func (p *Index) GroupName() string {
	return p.conf.GroupName
}

// GroupSegments are the path segments of the group prefix, nil when the
// schema has no group
func (p *Index) GroupSegments() []string {
	return p.groupSegments
}

// NamedItems lists the per-key template item names
func (p *Index) NamedItems() []string {
	return p.namedItems
}

// TemplateDefaults maps each template item to its default. Read only.
func (p *Index) TemplateDefaults() map[string]int64 {
	return p.templateDefaults
}

// ServerAttrs lists the attributes of the entire-server rollup
func (p *Index) ServerAttrs() []string {
	return p.serverAttrs
}

// RunningNames lists the running gauge names
func (p *Index) RunningNames() []string {
	return p.runningNames
}

// RunningDefault returns the default of the running gauge name
func (p *Index) RunningDefault(name string) (int64, error) {
	v, ok := p.runningDefaults[name]
	if !ok {
		return 0, fmt.Errorf("no running counter %s:%w", name, ErrNotFound)
	}
	return v, nil
}

// GroupLeaves lists the grouped counter leaf names
func (p *Index) GroupLeaves() []string {
	return p.groupLeaves
}

// GroupDefault returns the default of the grouped counter leaf
func (p *Index) GroupDefault(leaf string) (int64, error) {
	v, ok := p.groupDefaults[leaf]
	if !ok {
		return 0, fmt.Errorf("no group counter %s:%w", leaf, ErrNotFound)
	}
	return v, nil
}

// Default returns the declared default of the integer item at path
func (p *Index) Default(path string) (int64, error) {
	return p.spec.Default(path)
}
