// Package gldevice implements shader.Device on top of OpenGL 4.1 core.
package gldevice

import (
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/AlexStampfl/3D-Square/internal/engine/shader"
)

// Device forwards to the current OpenGL context. gl.Init must have been
// called on the thread that owns the context.
type Device struct{}

var _ shader.Device = Device{}

// New returns a device bound to the current context.
func New() Device {
	return Device{}
}

func (Device) CreateShader(stage shader.Stage) uint32 {
	switch stage {
	case shader.Vertex:
		return gl.CreateShader(gl.VERTEX_SHADER)
	case shader.Fragment:
		return gl.CreateShader(gl.FRAGMENT_SHADER)
	default:
		return 0
	}
}

func (Device) ShaderSource(id uint32, source string) {
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(id, 1, csource, nil)
	free()
}

func (Device) CompileShader(id uint32) {
	gl.CompileShader(id)
}

func (Device) CompileStatus(id uint32) bool {
	var status int32
	gl.GetShaderiv(id, gl.COMPILE_STATUS, &status)
	return status != gl.FALSE
}

func (Device) ShaderInfoLog(id uint32) string {
	var logLen int32
	gl.GetShaderiv(id, gl.INFO_LOG_LENGTH, &logLen)
	if logLen <= 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(logLen+1))
	gl.GetShaderInfoLog(id, logLen, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (Device) DeleteShader(id uint32) {
	gl.DeleteShader(id)
}

func (Device) CreateProgram() uint32 {
	return gl.CreateProgram()
}

func (Device) AttachShader(program, id uint32) {
	gl.AttachShader(program, id)
}

func (Device) DetachShader(program, id uint32) {
	gl.DetachShader(program, id)
}

func (Device) LinkProgram(program uint32) {
	gl.LinkProgram(program)
}

func (Device) LinkStatus(program uint32) bool {
	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	return status != gl.FALSE
}

func (Device) ProgramInfoLog(program uint32) string {
	var logLen int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
	if logLen <= 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(logLen+1))
	gl.GetProgramInfoLog(program, logLen, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (Device) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

func (Device) AttribLocation(program uint32, name string) int32 {
	return gl.GetAttribLocation(program, gl.Str(name+"\x00"))
}

func (Device) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}
