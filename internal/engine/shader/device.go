package shader

// Device is the slice of a graphics context the builder needs to turn
// source text into a linked program. Object names follow GL conventions:
// zero is never a valid object and -1 is the location of an inactive symbol.
//
// Implementations are not required to be safe for concurrent use; callers
// invoke them from the thread that owns the context.
type Device interface {
	CreateShader(stage Stage) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	CompileStatus(shader uint32) bool
	ShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	DetachShader(program, shader uint32)
	LinkProgram(program uint32)
	LinkStatus(program uint32) bool
	ProgramInfoLog(program uint32) string
	DeleteProgram(program uint32)

	AttribLocation(program uint32, name string) int32
	UniformLocation(program uint32, name string) int32
}
