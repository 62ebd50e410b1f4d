package ycb

import (
	"strconv"
	"strings"
)

// Search returns the objects matching every query token, ordered by id.
// A token matches when it is a substring of the name (with underscores read
// as spaces) or equals the object's id.
func (r *Registry) Search(query string) []Object {
	tokens := tokenize(query)
	if len(tokens) == 0 {
		return nil
	}

	var out []Object
	for _, o := range r.Objects() {
		blob := strings.ToLower(o.Name + " " + strings.ReplaceAll(o.Name, "_", " "))
		id := strconv.Itoa(o.ID)
		ok := true
		for _, tok := range tokens {
			if tok != id && !strings.Contains(blob, tok) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, o)
		}
	}
	return out
}

func tokenize(q string) []string {
	parts := strings.Fields(q)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.ToLower(p))
	}
	return out
}
