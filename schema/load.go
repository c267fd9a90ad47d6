package schema

import (
	"encoding/json"
	"fmt"
	"io/ioutil"

	yaml "gopkg.in/yaml.v3"

	c "github.com/d0ngw/stats/common"
)

// spec document field names
const (
	fieldModuleSpec   = "module_spec"
	fieldModuleName   = "module_name"
	fieldStatistics   = "statistics"
	fieldItemName     = "item_name"
	fieldItemType     = "item_type"
	fieldItemDefault  = "item_default"
	fieldMapItemSpec  = "map_item_spec"
	fieldNamedSetItem = "named_set_item_spec"
)

// FromJSON parses a module spec document in JSON
func FromJSON(data []byte) (*Spec, error) {
	var doc map[string]interface{}
	if err := c.UnmarshalUseNumber(data, &doc); err != nil {
		return nil, fmt.Errorf("parse spec json fail,err:%s", err)
	}
	return fromDoc(doc)
}

// FromJSONFile parses the module spec file at path as JSON
func FromJSONFile(path string) (*Spec, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromJSON(data)
}

// FromYAML parses a module spec document in YAML
func FromYAML(data []byte) (*Spec, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse spec yaml fail,err:%s", err)
	}
	return fromDoc(doc)
}

// FromYAMLFile parses the module spec file at path as YAML
func FromYAMLFile(path string) (*Spec, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromYAML(data)
}

func fromDoc(doc map[string]interface{}) (*Spec, error) {
	if inner, ok := doc[fieldModuleSpec].(map[string]interface{}); ok {
		doc = inner
	}
	module, _ := doc[fieldModuleName].(string)
	rawItems, ok := doc[fieldStatistics].([]interface{})
	if !ok {
		return nil, fmt.Errorf("module %s has no statistics list", module)
	}
	items, err := buildItems(rawItems)
	if err != nil {
		return nil, err
	}
	return New(module, items)
}

func buildItems(raw []interface{}) ([]*Item, error) {
	items := make([]*Item, 0, len(raw))
	for _, r := range raw {
		m, ok := r.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("item spec must be a map,got %T", r)
		}
		item, err := buildItem(m)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func buildItem(m map[string]interface{}) (*Item, error) {
	name, _ := m[fieldItemName].(string)
	if name == "" {
		return nil, fmt.Errorf("item without %s", fieldItemName)
	}
	typ, _ := m[fieldItemType].(string)
	switch typ {
	case "integer":
		rawDefault, ok := m[fieldItemDefault]
		if !ok {
			return nil, fmt.Errorf("integer item %s has no %s", name, fieldItemDefault)
		}
		def, err := toInt64(rawDefault)
		if err != nil {
			return nil, fmt.Errorf("item %s:%s", name, err)
		}
		return &Item{Name: name, Kind: Integer, Default: def}, nil
	case "map":
		rawChildren, ok := m[fieldMapItemSpec].([]interface{})
		if !ok {
			return nil, fmt.Errorf("map item %s has no %s", name, fieldMapItemSpec)
		}
		children, err := buildItems(rawChildren)
		if err != nil {
			return nil, err
		}
		return &Item{Name: name, Kind: Map, Items: children}, nil
	case "named_set":
		tmpl, err := buildTemplate(name, m)
		if err != nil {
			return nil, err
		}
		setDefault, err := buildSetDefault(name, m)
		if err != nil {
			return nil, err
		}
		return &Item{Name: name, Kind: NamedSet, Template: tmpl, SetDefault: setDefault}, nil
	default:
		return nil, fmt.Errorf("item %s has unknown %s %q", name, fieldItemType, typ)
	}
}

func buildTemplate(name string, m map[string]interface{}) ([]*Item, error) {
	inner, ok := m[fieldNamedSetItem].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("named set %s has no %s", name, fieldNamedSetItem)
	}
	// the per-key template is the map item spec of the inner item
	rawTmpl, ok := inner[fieldMapItemSpec].([]interface{})
	if !ok {
		return nil, fmt.Errorf("named set %s template has no %s", name, fieldMapItemSpec)
	}
	return buildItems(rawTmpl)
}

func buildSetDefault(name string, m map[string]interface{}) (map[string]map[string]int64, error) {
	rawDefault, ok := m[fieldItemDefault]
	if !ok {
		return nil, nil
	}
	keys, ok := rawDefault.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("named set %s %s must be a map", name, fieldItemDefault)
	}
	setDefault := make(map[string]map[string]int64, len(keys))
	for key, rawAttrs := range keys {
		attrs, ok := rawAttrs.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("default key %s of %s must be a map", key, name)
		}
		vals := make(map[string]int64, len(attrs))
		for attr, rawVal := range attrs {
			v, err := toInt64(rawVal)
			if err != nil {
				return nil, fmt.Errorf("default %s/%s of %s:%s", key, attr, name, err)
			}
			vals[attr] = v
		}
		setDefault[key] = vals
	}
	return setDefault, nil
}

func toInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case uint64:
		return int64(n), nil
	case json.Number:
		return n.Int64()
	case float64:
		i := int64(n)
		if float64(i) != n {
			return 0, fmt.Errorf("value %v is not an integer", v)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("value %v(%T) is not an integer", v, v)
	}
}
