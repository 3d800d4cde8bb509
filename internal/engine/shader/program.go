package shader

import "fmt"

// Program is a linked GPU program together with the locations resolved for
// it at build time. The caller owns it and must call Release when done.
type Program struct {
	id        uint32
	dev       Device
	state     State
	locations LocationTable
}

// ID returns the device program object, or 0 once released.
func (p *Program) ID() uint32 {
	return p.id
}

// State returns how far the program got through the build.
func (p *Program) State() State {
	return p.state
}

// Ready reports whether the program is linked, resolved and not released.
func (p *Program) Ready() bool {
	return p != nil && p.id != 0 && p.state == StateReady
}

// Released reports whether Release has been called.
func (p *Program) Released() bool {
	return p.id == 0
}

// Locations returns the table resolved at build time.
func (p *Program) Locations() LocationTable {
	return p.locations
}

// Attrib returns the location of a requested attribute, or Unbound.
func (p *Program) Attrib(name string) int32 {
	if loc, ok := p.locations.Attrib(name); ok {
		return loc
	}
	return Unbound
}

// Uniform returns the location of a requested uniform, or Unbound.
func (p *Program) Uniform(name string) int32 {
	if loc, ok := p.locations.Uniform(name); ok {
		return loc
	}
	return Unbound
}

// MustUniform returns the location of a uniform the caller cannot do
// without. Panics if the uniform was not requested or is not active.
func (p *Program) MustUniform(name string) int32 {
	loc := p.Uniform(name)
	if loc == Unbound {
		panic(fmt.Sprintf("uniform %q not found in program %d", name, p.id))
	}
	return loc
}

// Release deletes the program object. Calling it more than once is safe.
func (p *Program) Release() {
	if p == nil || p.id == 0 {
		return
	}
	p.dev.DeleteProgram(p.id)
	p.id = 0
}
