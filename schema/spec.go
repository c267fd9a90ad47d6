// Package schema supplies the statistics schema model. A schema enumerates
// the countable items of a module: plain integer counters, named-set
// templates which are instantiated once per dynamic key, and fixed nested
// maps of counters. The schema is immutable once built.
package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a path does not exist in the schema. A miss
// here is a schema mismatch of the caller, not a runtime condition.
var ErrNotFound = errors.New("schema item not found")

// Kind of a schema item
type Kind int

// Item kinds
const (
	// Integer is a single numeric counter with a default value
	Integer Kind = iota
	// Map is a fixed nested map of items
	Map
	// NamedSet is a template of items instantiated once per dynamic key
	NamedSet
)

var kindStrings = map[Kind]string{
	Integer:  "integer",
	Map:      "map",
	NamedSet: "named_set",
}

func (k Kind) String() string {
	if s, ok := kindStrings[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Item is one declared schema item
type Item struct {
	// Name of the item, unique within its scope
	Name string
	// Kind of the item
	Kind Kind
	// Default value, for Integer items
	Default int64
	// Items are the children of a Map item
	Items []*Item
	// Template lists the per-key items of a NamedSet
	Template []*Item
	// SetDefault holds the pre-declared keys of a NamedSet with their
	// per-item defaults, e.g. the entire-server key
	SetDefault map[string]map[string]int64
}

// Spec is the parsed statistics schema of one module
type Spec struct {
	module string
	items  []*Item
	byName map[string]*Item
}

// New builds a Spec from module name and items
func New(module string, items []*Item) (*Spec, error) {
	if module == "" {
		return nil, errors.New("empty module name")
	}
	if err := validateItems(module, items); err != nil {
		return nil, err
	}
	byName := make(map[string]*Item, len(items))
	for _, it := range items {
		byName[it.Name] = it
	}
	return &Spec{module: module, items: items, byName: byName}, nil
}

func validateItems(scope string, items []*Item) error {
	seen := map[string]bool{}
	for _, it := range items {
		if it == nil {
			return fmt.Errorf("nil item in %s", scope)
		}
		if it.Name == "" || strings.Contains(it.Name, "/") {
			return fmt.Errorf("invalid item name %q in %s", it.Name, scope)
		}
		if seen[it.Name] {
			return fmt.Errorf("duplicated item name %s in %s", it.Name, scope)
		}
		seen[it.Name] = true

		itemScope := scope + "/" + it.Name
		switch it.Kind {
		case Integer:
			if len(it.Items) > 0 || len(it.Template) > 0 {
				return fmt.Errorf("integer item %s must not have children", itemScope)
			}
		case Map:
			if err := validateItems(itemScope, it.Items); err != nil {
				return err
			}
		case NamedSet:
			if len(it.Template) == 0 {
				return fmt.Errorf("named set %s has an empty template", itemScope)
			}
			tmplNames := map[string]bool{}
			for _, t := range it.Template {
				if t == nil || t.Kind != Integer {
					return fmt.Errorf("named set %s template items must be integers", itemScope)
				}
				tmplNames[t.Name] = true
			}
			if err := validateItems(itemScope, it.Template); err != nil {
				return err
			}
			for key, attrs := range it.SetDefault {
				for attr := range attrs {
					if !tmplNames[attr] {
						return fmt.Errorf("default key %s of %s has unknown item %s", key, itemScope, attr)
					}
				}
			}
		default:
			return fmt.Errorf("unknown kind %v of %s", it.Kind, itemScope)
		}
	}
	return nil
}

// Module is the module name of the schema
func (s *Spec) Module() string {
	return s.module
}

// Items are the top level schema items
func (s *Spec) Items() []*Item {
	return s.items
}

// Find resolves a `/` separated path to its schema item. Inside a named
// set the path segment after the set name is taken as a dynamic key and
// resolves to the set's template. A missing path yields ErrNotFound.
func (s *Spec) Find(path string) (*Item, error) {
	if path == "" {
		return nil, fmt.Errorf("empty path:%w", ErrNotFound)
	}
	segs := strings.Split(path, "/")
	items := s.items
	var cur *Item
	for i := 0; i < len(segs); i++ {
		seg := segs[i]
		cur = nil
		for _, it := range items {
			if it.Name == seg {
				cur = it
				break
			}
		}
		if cur == nil {
			return nil, fmt.Errorf("no item at %s:%w", path, ErrNotFound)
		}
		if i == len(segs)-1 {
			break
		}
		switch cur.Kind {
		case Map:
			items = cur.Items
		case NamedSet:
			// the next segment is a dynamic key naming one template copy
			i++
			cur = &Item{Name: segs[i], Kind: Map, Items: cur.Template}
			items = cur.Items
		default:
			return nil, fmt.Errorf("no item at %s:%w", path, ErrNotFound)
		}
	}
	return cur, nil
}

// Default returns the declared default of the integer item at path
func (s *Spec) Default(path string) (int64, error) {
	it, err := s.Find(path)
	if err != nil {
		return 0, err
	}
	if it.Kind != Integer {
		return 0, fmt.Errorf("%s is a %s, not an integer:%w", path, it.Kind, ErrNotFound)
	}
	return it.Default, nil
}

// NameList lists the item names. Without recurse only the top level names
// are returned; with recurse every reachable path is listed, where named
// sets appear only by their set name since their keys are dynamic.
func (s *Spec) NameList(recurse bool) []string {
	var names []string
	if !recurse {
		for _, it := range s.items {
			names = append(names, it.Name)
		}
		return names
	}
	var walk func(prefix string, items []*Item)
	walk = func(prefix string, items []*Item) {
		for _, it := range items {
			name := it.Name
			if prefix != "" {
				name = prefix + "/" + it.Name
			}
			switch it.Kind {
			case Map:
				names = append(names, name)
				walk(name, it.Items)
			default:
				names = append(names, name)
			}
		}
	}
	walk("", s.items)
	return names
}
