package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/d0ngw/stats/schema"
)

var testSpecYAML = []byte(`
module_name: Xfrout
statistics:
  - item_name: zones
    item_type: named_set
    item_default:
      _SERVER_:
        notifyoutv4: 0
        notifyoutv6: 0
        xfrrej: 0
        xfrreqdone: 0
    named_set_item_spec:
      item_name: zonename
      item_type: map
      map_item_spec:
        - item_name: notifyoutv4
          item_type: integer
          item_default: 0
        - item_name: notifyoutv6
          item_type: integer
          item_default: 0
        - item_name: xfrrej
          item_type: integer
          item_default: 0
        - item_name: xfrreqdone
          item_type: integer
          item_default: 0
  - item_name: ixfr_running
    item_type: integer
    item_default: 0
  - item_name: axfr_running
    item_type: integer
    item_default: 0
  - item_name: socket
    item_type: map
    map_item_spec:
      - item_name: unixdomain
        item_type: map
        map_item_spec:
          - item_name: open
            item_type: integer
            item_default: 0
          - item_name: accept
            item_type: integer
            item_default: 0
`)

func newTestSpec(t *testing.T) *schema.Spec {
	spec, err := schema.FromYAML(testSpecYAML)
	assert.Nil(t, err)
	return spec
}

func newTestRegistry(t *testing.T) *Registry {
	r, err := NewRegistry(newTestSpec(t), nil)
	assert.Nil(t, err)
	return r
}
