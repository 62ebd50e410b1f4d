// Package ycb maps DexYCB object ids to YCB object names.
package ycb

import (
	"fmt"
	"sort"

	"github.com/kamusis/dexkit/internal/dexerr"
)

// ErrUnknownObject indicates an id or name absent from the registry.
var ErrUnknownObject = fmt.Errorf("%w: ycb object", dexerr.ErrUnknownKey)

// Object is one registry entry.
type Object struct {
	ID   int
	Name string
}

// Registry is an immutable bidirectional id <-> name table.
type Registry struct {
	byID   map[int]string
	byName map[string]int
	ids    []int
}

// NewRegistry builds a registry. Ids and names must both be unique.
func NewRegistry(objects []Object) (*Registry, error) {
	r := &Registry{
		byID:   make(map[int]string, len(objects)),
		byName: make(map[string]int, len(objects)),
	}
	for _, o := range objects {
		if o.Name == "" {
			return nil, fmt.Errorf("%w: empty name for id %d", dexerr.ErrConfiguration, o.ID)
		}
		if _, dup := r.byID[o.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate ycb id %d", dexerr.ErrConfiguration, o.ID)
		}
		if _, dup := r.byName[o.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate ycb name %q", dexerr.ErrConfiguration, o.Name)
		}
		r.byID[o.ID] = o.Name
		r.byName[o.Name] = o.ID
		r.ids = append(r.ids, o.ID)
	}
	sort.Ints(r.ids)
	return r, nil
}

// IDToName returns the name registered for id.
func (r *Registry) IDToName(id int) (string, error) {
	name, ok := r.byID[id]
	if !ok {
		return "", fmt.Errorf("%w: id %d", ErrUnknownObject, id)
	}
	return name, nil
}

// NameToID returns the id registered for name.
func (r *Registry) NameToID(name string) (int, error) {
	id, ok := r.byName[name]
	if !ok {
		return 0, fmt.Errorf("%w: name %q", ErrUnknownObject, name)
	}
	return id, nil
}

// HasID reports whether id is registered.
func (r *Registry) HasID(id int) bool {
	_, ok := r.byID[id]
	return ok
}

// HasName reports whether name is registered.
func (r *Registry) HasName(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// IDs returns all ids in ascending order.
func (r *Registry) IDs() []int {
	return append([]int(nil), r.ids...)
}

// Objects returns all entries ordered by id.
func (r *Registry) Objects() []Object {
	out := make([]Object, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, Object{ID: id, Name: r.byID[id]})
	}
	return out
}

// Names returns all names ordered by id.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, r.byID[id])
	}
	return out
}

// Len returns the number of entries.
func (r *Registry) Len() int { return len(r.ids) }

func (r *Registry) String() string {
	return fmt.Sprintf("ycb.Registry(n=%d)", r.Len())
}
