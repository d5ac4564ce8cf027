package graph

import (
	"fmt"
	"sort"
	"strconv"
)

// ID identifies a module for the lifetime of its path binding.
type ID int

// Path is a module path used as a lookup key. It is canonicalized before use.
type Path string

// Key looks up a module by ID or by Path.
type Key interface {
	fmt.Stringer
	isKey()
}

func (ID) isKey()   {}
func (Path) isKey() {}

// String returns the decimal form of the ID prefixed with '#'.
func (id ID) String() string { return "#" + strconv.Itoa(int(id)) }

// String returns the path as given.
func (p Path) String() string { return string(p) }

// Kind classifies a module as internal or external.
type Kind int

const (
	// KindInternal is a module with content that participates in both edge directions.
	KindInternal Kind = iota

	// KindExternal is a boundary module (third-party or runtime) with no outgoing edges.
	KindExternal
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindInternal:
		return "internal"
	case KindExternal:
		return "external"
	default:
		return "unknown"
	}
}

// Meta is caller-supplied metadata carried with a module.
type Meta struct {
	// Imports maps each import specifier to the module it resolved to.
	// Strict mode checks it against the structural dependency list.
	Imports map[string]Key

	// Raw is an opaque blob for the consumer, such as a manifest fragment.
	Raw any
}

// clone returns a shallow copy with its own Imports map.
func (m *Meta) clone() *Meta {
	if m == nil {
		return nil
	}
	c := &Meta{Raw: m.Raw}
	if m.Imports != nil {
		c.Imports = make(map[string]Key, len(m.Imports))
		for spec, key := range m.Imports {
			c.Imports[spec] = key
		}
	}
	return c
}

// Specifiers returns the import specifiers in sorted order.
func (m *Meta) Specifiers() []string {
	if m == nil {
		return nil
	}
	specs := make([]string, 0, len(m.Imports))
	for spec := range m.Imports {
		specs = append(specs, spec)
	}
	sort.Strings(specs)
	return specs
}

// mergeMeta merges src into dst, src winning on conflicting specifiers.
func mergeMeta(dst, src *Meta) *Meta {
	if dst == nil {
		return src.clone()
	}
	out := dst.clone()
	if src == nil {
		return out
	}
	if out.Imports == nil {
		out.Imports = make(map[string]Key, len(src.Imports))
	}
	for spec, key := range src.Imports {
		out.Imports[spec] = key
	}
	if src.Raw != nil {
		out.Raw = src.Raw
	}
	return out
}

// Dependency is one outgoing edge of a module.
type Dependency struct {
	ID     ID     `json:"id"`
	Source string `json:"source"`
}

// Module is a point-in-time view of a module in the graph.
// Changing it does not change the graph.
type Module struct {
	ID           ID           `json:"id"`
	Path         string       `json:"path"`
	Kind         Kind         `json:"-"`
	Dependencies []Dependency `json:"dependencies"`
	Dependents   []ID         `json:"dependents"`
	Meta         *Meta        `json:"-"`
}

// IsExternal reports whether the module is a boundary module.
func (m *Module) IsExternal() bool {
	return m.Kind == KindExternal
}

// String renders the module as path#id.
func (m *Module) String() string {
	return m.Path + m.ID.String()
}

// EdgeSpec names a neighbour and the import specifier of the edge to it.
type EdgeSpec struct {
	Key    Key
	Source string
}

// ModuleSpec describes the edges given to AddModule and UpdateModule.
type ModuleSpec struct {
	// Kind of the module. Only AddModule honours it.
	Kind Kind

	// Dependencies are the modules this module imports.
	Dependencies []EdgeSpec

	// Dependents are the modules importing this module, each with the
	// specifier it uses. On update, nil keeps the current dependents.
	Dependents []EdgeSpec

	// Meta replaces the module's metadata when non-nil.
	Meta *Meta
}

// Import is one entry of a record's import list.
type Import struct {
	Path              string `json:"path" yaml:"path" toml:"path"`
	External          bool   `json:"external,omitempty" yaml:"external,omitempty" toml:"external,omitempty"`
	OriginalSpecifier string `json:"original,omitempty" yaml:"original,omitempty" toml:"original,omitempty"`
}

// Record is a decoded manifest entry: a module path and what it imports.
type Record struct {
	ModulePath string   `json:"path" yaml:"path" toml:"path"`
	Imports    []Import `json:"imports,omitempty" yaml:"imports,omitempty" toml:"imports,omitempty"`
}

// Impact is a module reached by an inverse traversal and its distance from the start.
type Impact struct {
	Module   *Module `json:"module"`
	Distance int     `json:"distance"`
}
