// Package joints defines hand-joint orderings and the permutations between them.
package joints

import (
	"fmt"
	"sort"
	"strings"
)

// Part is one anatomical sub-part of a hand skeleton and the joint indices
// it owns, ordered from the palm outwards.
type Part struct {
	Name   string
	Joints []int
}

// Label identifies a joint semantically: the part it belongs to and its
// position within that part.
type Label struct {
	Part     string
	Position int
}

func (l Label) String() string {
	return fmt.Sprintf("%s[%d]", l.Part, l.Position)
}

// Convention is a named, immutable skeletal layout whose indices partition
// 0..Size()-1.
type Convention struct {
	name    string
	parts   []Part
	labels  []Label       // index -> label
	byLabel map[Label]int // label -> index
}

// NewConvention validates parts and builds a convention. Part order is kept
// as given.
func NewConvention(name string, parts []Part) (*Convention, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidConvention)
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: %s has no parts", ErrInvalidConvention, name)
	}

	total := 0
	for _, p := range parts {
		total += len(p.Joints)
	}

	c := &Convention{
		name:    name,
		parts:   make([]Part, 0, len(parts)),
		labels:  make([]Label, total),
		byLabel: make(map[Label]int, total),
	}
	seenPart := make(map[string]bool, len(parts))
	assigned := make([]bool, total)

	for _, p := range parts {
		if p.Name == "" {
			return nil, fmt.Errorf("%w: %s has an unnamed part", ErrInvalidConvention, name)
		}
		if seenPart[p.Name] {
			return nil, fmt.Errorf("%w: %s lists part %q twice", ErrInvalidConvention, name, p.Name)
		}
		seenPart[p.Name] = true
		if len(p.Joints) == 0 {
			return nil, fmt.Errorf("%w: %s part %q has no joints", ErrInvalidConvention, name, p.Name)
		}
		for pos, idx := range p.Joints {
			if idx < 0 || idx >= total {
				return nil, fmt.Errorf("%w: %s part %q index %d outside 0..%d", ErrInvalidConvention, name, p.Name, idx, total-1)
			}
			if assigned[idx] {
				return nil, fmt.Errorf("%w: %s index %d assigned twice", ErrInvalidConvention, name, idx)
			}
			assigned[idx] = true
			l := Label{Part: p.Name, Position: pos}
			c.labels[idx] = l
			c.byLabel[l] = idx
		}
		c.parts = append(c.parts, Part{Name: p.Name, Joints: append([]int(nil), p.Joints...)})
	}
	// total indices, each in range and assigned at most once: no gaps possible.
	return c, nil
}

// NewConventionFromMap builds a convention from a part -> indices mapping,
// as found in configuration files. Parts are ordered by name.
func NewConventionFromMap(name string, layout map[string][]int) (*Convention, error) {
	names := make([]string, 0, len(layout))
	for k := range layout {
		names = append(names, k)
	}
	sort.Strings(names)
	parts := make([]Part, 0, len(names))
	for _, n := range names {
		parts = append(parts, Part{Name: n, Joints: layout[n]})
	}
	return NewConvention(name, parts)
}

// MustConvention is like NewConvention but panics on error. Use it only for
// literal tables compiled into the binary.
func MustConvention(name string, parts []Part) *Convention {
	c, err := NewConvention(name, parts)
	if err != nil {
		panic(err)
	}
	return c
}

// Name returns the convention name.
func (c *Convention) Name() string { return c.name }

// Size returns the number of joints N.
func (c *Convention) Size() int { return len(c.labels) }

// Parts returns a copy of the layout.
func (c *Convention) Parts() []Part {
	out := make([]Part, len(c.parts))
	for i, p := range c.parts {
		out[i] = Part{Name: p.Name, Joints: append([]int(nil), p.Joints...)}
	}
	return out
}

// Label returns the semantic label of joint idx.
func (c *Convention) Label(idx int) (Label, bool) {
	if idx < 0 || idx >= len(c.labels) {
		return Label{}, false
	}
	return c.labels[idx], true
}

// Index returns the joint index carrying label l.
func (c *Convention) Index(l Label) (int, bool) {
	idx, ok := c.byLabel[l]
	return idx, ok
}

func (c *Convention) String() string {
	return fmt.Sprintf("%s(N=%d)", c.name, c.Size())
}
