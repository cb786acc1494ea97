package domain

import (
	"maps"
	"slices"
)

// Bindings maps environment variable names to absolute artifact paths.
type Bindings map[string]string

// Environ renders the bindings as KEY=VALUE pairs sorted by key.
func (b Bindings) Environ() []string {
	keys := slices.Sorted(maps.Keys(b))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+b[k])
	}
	return out
}
