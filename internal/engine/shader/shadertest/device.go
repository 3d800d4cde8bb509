// Package shadertest provides an in-memory shader.Device for tests.
//
// The fake compiler understands the global interface of GLSL stages
// (attribute, in, out, varying, uniform, layout locations) and rejects
// unbalanced brackets and malformed declarations. Linking checks that every
// fragment input the fragment stage reads is written by the vertex stage
// and assigns locations to active symbols in declaration order, so results
// are deterministic. Object lifetimes follow GL: a deleted shader that is
// still attached lives until it is detached or its program is deleted.
package shadertest

import (
	"github.com/AlexStampfl/3D-Square/internal/engine/shader"
)

type shaderObject struct {
	stage    shader.Stage
	source   string
	unit     *unit
	log      string
	deleted  bool
	attached map[uint32]bool
}

type programObject struct {
	shaders  []uint32
	linked   bool
	log      string
	attribs  map[string]int32
	uniforms map[string]int32
}

// Device is a fake graphics device. The zero value is not usable; call New.
type Device struct {
	next     uint32
	shaders  map[uint32]*shaderObject
	programs map[uint32]*programObject

	shadersCreated  int
	programsCreated int
	badDeletes      int

	// FailCreateShader makes CreateShader return 0.
	FailCreateShader bool
	// FailCreateProgram makes CreateProgram return 0.
	FailCreateProgram bool
}

var _ shader.Device = (*Device)(nil)

// New returns an empty fake device.
func New() *Device {
	return &Device{
		shaders:  make(map[uint32]*shaderObject),
		programs: make(map[uint32]*programObject),
	}
}

// LiveShaders returns the number of shader objects still allocated.
func (d *Device) LiveShaders() int {
	return len(d.shaders)
}

// LivePrograms returns the number of program objects still allocated.
func (d *Device) LivePrograms() int {
	return len(d.programs)
}

// ShadersCreated returns how many shader objects were ever allocated.
func (d *Device) ShadersCreated() int {
	return d.shadersCreated
}

// ProgramsCreated returns how many program objects were ever allocated.
func (d *Device) ProgramsCreated() int {
	return d.programsCreated
}

// BadDeletes counts deletes of unknown or already deleted objects.
func (d *Device) BadDeletes() int {
	return d.badDeletes
}

// AttachedShaders returns the shader objects attached to a program.
func (d *Device) AttachedShaders(program uint32) []uint32 {
	p, ok := d.programs[program]
	if !ok {
		return nil
	}
	return append([]uint32(nil), p.shaders...)
}

func (d *Device) alloc() uint32 {
	d.next++
	return d.next
}

func (d *Device) CreateShader(stage shader.Stage) uint32 {
	if d.FailCreateShader {
		return 0
	}
	id := d.alloc()
	d.shaders[id] = &shaderObject{stage: stage, attached: make(map[uint32]bool)}
	d.shadersCreated++
	return id
}

func (d *Device) ShaderSource(id uint32, source string) {
	if s, ok := d.shaders[id]; ok {
		s.source = source
	}
}

func (d *Device) CompileShader(id uint32) {
	s, ok := d.shaders[id]
	if !ok {
		return
	}
	s.unit, s.log = compile(s.stage, s.source)
}

func (d *Device) CompileStatus(id uint32) bool {
	s, ok := d.shaders[id]
	return ok && s.unit != nil
}

func (d *Device) ShaderInfoLog(id uint32) string {
	if s, ok := d.shaders[id]; ok {
		return s.log
	}
	return ""
}

func (d *Device) DeleteShader(id uint32) {
	s, ok := d.shaders[id]
	if !ok || s.deleted {
		d.badDeletes++
		return
	}
	s.deleted = true
	d.collectShader(id)
}

func (d *Device) collectShader(id uint32) {
	if s := d.shaders[id]; s.deleted && len(s.attached) == 0 {
		delete(d.shaders, id)
	}
}

func (d *Device) CreateProgram() uint32 {
	if d.FailCreateProgram {
		return 0
	}
	id := d.alloc()
	d.programs[id] = &programObject{}
	d.programsCreated++
	return id
}

func (d *Device) AttachShader(program, id uint32) {
	p, ok := d.programs[program]
	s, sok := d.shaders[id]
	if !ok || !sok || s.attached[program] {
		return
	}
	s.attached[program] = true
	p.shaders = append(p.shaders, id)
}

func (d *Device) DetachShader(program, id uint32) {
	p, ok := d.programs[program]
	s, sok := d.shaders[id]
	if !ok || !sok || !s.attached[program] {
		return
	}
	delete(s.attached, program)
	for i, sid := range p.shaders {
		if sid == id {
			p.shaders = append(p.shaders[:i], p.shaders[i+1:]...)
			break
		}
	}
	d.collectShader(id)
}

func (d *Device) LinkProgram(program uint32) {
	p, ok := d.programs[program]
	if !ok {
		return
	}
	p.linked, p.attribs, p.uniforms = false, nil, nil

	var vs, fs *unit
	for _, id := range p.shaders {
		s := d.shaders[id]
		if s.unit == nil {
			p.log = "ERROR: Linking with uncompiled shader\n"
			return
		}
		switch s.stage {
		case shader.Vertex:
			vs = s.unit
		case shader.Fragment:
			fs = s.unit
		}
	}
	if vs == nil || fs == nil {
		p.log = "ERROR: program requires a vertex and a fragment shader\n"
		return
	}

	attribs, uniforms, log := link(vs, fs)
	if log != "" {
		p.log = log
		return
	}
	p.linked, p.log, p.attribs, p.uniforms = true, "", attribs, uniforms
}

func (d *Device) LinkStatus(program uint32) bool {
	p, ok := d.programs[program]
	return ok && p.linked
}

func (d *Device) ProgramInfoLog(program uint32) string {
	if p, ok := d.programs[program]; ok {
		return p.log
	}
	return ""
}

func (d *Device) DeleteProgram(program uint32) {
	p, ok := d.programs[program]
	if !ok {
		d.badDeletes++
		return
	}
	for _, id := range append([]uint32(nil), p.shaders...) {
		d.DetachShader(program, id)
	}
	delete(d.programs, program)
}

func (d *Device) AttribLocation(program uint32, name string) int32 {
	p, ok := d.programs[program]
	if !ok || !p.linked {
		return -1
	}
	if loc, ok := p.attribs[name]; ok {
		return loc
	}
	return -1
}

func (d *Device) UniformLocation(program uint32, name string) int32 {
	p, ok := d.programs[program]
	if !ok || !p.linked {
		return -1
	}
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	return -1
}
