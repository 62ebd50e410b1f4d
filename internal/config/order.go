package config

import (
	"fmt"

	"github.com/kamusis/dexkit/internal/dexerr"
	"github.com/kamusis/dexkit/internal/joints"
	"gopkg.in/yaml.v3"
)

// Order is the requested joint convention. In YAML it is either a built-in
// name ("mano", "ho3d") or a mapping:
//
//	order:
//	  name: custom
//	  joints:
//	    thumb: [1, 2, 3, 4]
//	    ...
type Order struct {
	Name   string           `yaml:"name,omitempty"`
	Joints map[string][]int `yaml:"joints,omitempty"`
}

func (o *Order) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		o.Name = value.Value
		o.Joints = nil
		return nil
	case yaml.MappingNode:
		type plain Order
		var p plain
		if err := value.Decode(&p); err != nil {
			return err
		}
		*o = Order(p)
		return nil
	default:
		return fmt.Errorf("line %d: order must be a name or a mapping", value.Line)
	}
}

func (o Order) MarshalYAML() (any, error) {
	if len(o.Joints) == 0 {
		return o.Name, nil
	}
	type plain Order
	return plain(o), nil
}

// IsZero lets omitempty drop an unset order.
func (o Order) IsZero() bool { return o.Name == "" && len(o.Joints) == 0 }

// Convention resolves the order. An unset order yields nil, meaning the
// evaluator's native convention.
func (o Order) Convention() (*joints.Convention, error) {
	if len(o.Joints) > 0 {
		name := o.Name
		if name == "" {
			name = "custom"
		}
		return joints.NewConventionFromMap(name, o.Joints)
	}
	if o.Name == "" {
		return nil, nil
	}
	c, err := joints.Lookup(o.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", dexerr.ErrConfiguration, err)
	}
	return c, nil
}
