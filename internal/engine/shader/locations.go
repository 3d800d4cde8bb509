package shader

import (
	"fmt"
	"sort"
)

// Unbound is the location of a symbol the linked program does not expose,
// either because it was never declared or because the compiler dropped it.
// Uploads to Unbound are silently ignored by GL.
const Unbound int32 = -1

// SymbolKind distinguishes vertex attributes from uniforms.
type SymbolKind int

const (
	Attribute SymbolKind = iota
	Uniform
)

func (k SymbolKind) String() string {
	if k == Uniform {
		return "uniform"
	}
	return "attribute"
}

// Symbols lists the names a caller wants resolved after linking.
type Symbols struct {
	Attributes []string `yaml:"attributes"`
	Uniforms   []string `yaml:"uniforms"`
}

// UnboundSymbol is a requested name that resolved to Unbound. It is a
// warning, not a failure.
type UnboundSymbol struct {
	Kind SymbolKind
	Name string
}

func (u UnboundSymbol) String() string {
	return fmt.Sprintf("%s %q is not active in the program", u.Kind, u.Name)
}

// LocationTable maps requested symbol names to resolved locations.
// It is filled once at build time and never modified afterwards.
type LocationTable struct {
	attributes map[string]int32
	uniforms   map[string]int32
}

func newLocationTable() LocationTable {
	return LocationTable{
		attributes: make(map[string]int32),
		uniforms:   make(map[string]int32),
	}
}

// Attrib returns the location of an attribute and whether it was requested.
func (t LocationTable) Attrib(name string) (int32, bool) {
	loc, ok := t.attributes[name]
	return loc, ok
}

// Uniform returns the location of a uniform and whether it was requested.
func (t LocationTable) Uniform(name string) (int32, bool) {
	loc, ok := t.uniforms[name]
	return loc, ok
}

// Len returns the number of resolved names.
func (t LocationTable) Len() int {
	return len(t.attributes) + len(t.uniforms)
}

// Attributes returns a copy of the attribute locations.
func (t LocationTable) Attributes() map[string]int32 {
	return copyLocations(t.attributes)
}

// Uniforms returns a copy of the uniform locations.
func (t LocationTable) Uniforms() map[string]int32 {
	return copyLocations(t.uniforms)
}

// Unbound lists every requested name that resolved to Unbound, attributes
// first, each group sorted by name.
func (t LocationTable) Unbound() []UnboundSymbol {
	var out []UnboundSymbol
	for _, name := range sortedNames(t.attributes) {
		if t.attributes[name] == Unbound {
			out = append(out, UnboundSymbol{Kind: Attribute, Name: name})
		}
	}
	for _, name := range sortedNames(t.uniforms) {
		if t.uniforms[name] == Unbound {
			out = append(out, UnboundSymbol{Kind: Uniform, Name: name})
		}
	}
	return out
}

func copyLocations(m map[string]int32) map[string]int32 {
	out := make(map[string]int32, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func sortedNames(m map[string]int32) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
