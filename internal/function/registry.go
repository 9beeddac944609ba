package function

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/weekfn/internal/transform"
	"github.com/roach88/weekfn/internal/types"
)

// Factory builds a function instance for the given settings.
type Factory func(Settings) Function

// Entry is one registered function.
type Entry struct {
	Name    string
	Family  Family
	Aliases []string
	Factory Factory
}

// Registry maps function names and aliases to factories.
// Lookups are case-insensitive. A Registry is not safe for concurrent
// registration; build it once and share it read-only.
type Registry struct {
	entries map[string]*Entry
	byKey   map[string]*Entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*Entry),
		byKey:   make(map[string]*Entry),
	}
}

// Register adds a function under its name and aliases.
func (r *Registry) Register(e Entry) error {
	if e.Factory == nil {
		return fmt.Errorf("register %s: nil factory", e.Name)
	}
	keys := append([]string{e.Name}, e.Aliases...)
	for _, k := range keys {
		if _, dup := r.byKey[strings.ToLower(k)]; dup {
			return fmt.Errorf("register %s: name %q already registered", e.Name, k)
		}
	}
	entry := e
	r.entries[e.Name] = &entry
	for _, k := range keys {
		r.byKey[strings.ToLower(k)] = &entry
	}
	return nil
}

// Lookup finds a registered function by name or alias.
func (r *Registry) Lookup(name string) (*Entry, bool) {
	e, ok := r.byKey[strings.ToLower(name)]
	return e, ok
}

// Build creates a new instance of the named function. The instance
// captures settings at this moment.
func (r *Registry) Build(name string, settings Settings) (Function, error) {
	e, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown function %q", name)
	}
	return e.Factory(settings), nil
}

// Entries returns registered functions sorted by name.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Default returns a registry holding the custom-week functions.
func Default() *Registry {
	r := NewRegistry()
	for _, e := range []Entry{
		{
			Name:    "toWeek",
			Family:  ScalarShape,
			Aliases: []string{"week"},
			Factory: func(s Settings) Function { return NewScalarShape(transform.ToWeek{}, types.UInt8{}, s) },
		},
		{
			Name:    "toYearWeek",
			Family:  ScalarShape,
			Aliases: []string{"yearweek"},
			Factory: func(s Settings) Function { return NewScalarShape(transform.ToYearWeek{}, types.UInt32{}, s) },
		},
		{
			Name:    "toStartOfWeek",
			Family:  IdentityShape,
			Factory: func(s Settings) Function { return NewIdentityShape(transform.ToStartOfWeek{}, s) },
		},
		{
			Name:    "toLastDayOfWeek",
			Family:  IdentityShape,
			Factory: func(s Settings) Function { return NewIdentityShape(transform.ToLastDayOfWeek{}, s) },
		},
	} {
		if err := r.Register(e); err != nil {
			panic(err)
		}
	}
	return r
}
