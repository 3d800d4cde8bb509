// Package renderer draws the square with a program from the shader builder.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/AlexStampfl/3D-Square/internal/engine/camera"
	"github.com/AlexStampfl/3D-Square/internal/engine/shader"
	"github.com/AlexStampfl/3D-Square/internal/engine/shader/gldevice"
	"github.com/AlexStampfl/3D-Square/internal/logger"
)

// Symbols the renderer feeds. They are always requested, whatever the
// configured symbol list says.
const (
	AttribPosition    = "aVertexPosition"
	UniformProjection = "uProjectionMatrix"
	UniformModelView  = "uModelViewMatrix"
	UniformColor      = "uSquareColor"
)

// Config holds renderer configuration.
type Config struct {
	Width       int
	Height      int
	SquareColor [4]float32
	ClearColor  [4]float32
	Camera      camera.FixedCamera
	Symbols     shader.Symbols
}

// Renderer owns the square's GPU objects and the program drawing it.
type Renderer struct {
	config  Config
	symbols shader.Symbols
	builder *shader.Builder
	program *shader.Program
	log     *zap.Logger

	squareVAO uint32
	squareVBO uint32
	boundAttr int32
}

// New creates a renderer and builds its first program from src.
// IMPORTANT: Must be called AFTER the OpenGL context is created!
func New(cfg Config, src shader.Source) (*Renderer, error) {
	r := &Renderer{
		config:    cfg,
		symbols:   WithRequired(cfg.Symbols),
		log:       logger.Named("renderer"),
		boundAttr: shader.Unbound,
	}

	info, err := gldevice.Init()
	if err != nil {
		return nil, err
	}
	r.log.Info("OpenGL initialized",
		zap.String("version", info.Version),
		zap.String("renderer", info.Renderer),
		zap.String("glsl", info.GLSL),
	)

	c := cfg.ClearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	r.builder = shader.NewBuilder(gldevice.New(), logger.Named("shader"))
	r.program, err = r.builder.Build(src, r.symbols)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}

	r.createSquare()
	r.useProgram()
	return r, nil
}

// WithRequired returns symbols extended with the names the renderer feeds,
// keeping the caller's order and dropping duplicates.
func WithRequired(s shader.Symbols) shader.Symbols {
	return shader.Symbols{
		Attributes: appendMissing(s.Attributes, AttribPosition),
		Uniforms:   appendMissing(s.Uniforms, UniformProjection, UniformModelView, UniformColor),
	}
}

func appendMissing(names []string, required ...string) []string {
	out := make([]string, 0, len(names)+len(required))
	seen := make(map[string]bool)
	for _, n := range append(append([]string(nil), names...), required...) {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// Program returns the program currently used for drawing.
func (r *Renderer) Program() *shader.Program {
	return r.program
}

// Rebuild builds a new program from src and switches to it. On failure the
// current program stays in use and the build error is returned.
func (r *Renderer) Rebuild(src shader.Source) error {
	p, err := r.builder.Build(src, r.symbols)
	if err != nil {
		return err
	}

	old := r.program
	oldID := old.ID()
	r.program = p
	r.useProgram()
	old.Release()

	r.log.Info("shader program replaced",
		zap.Uint32("old", oldID),
		zap.Uint32("new", p.ID()),
	)
	return nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	if r.squareVAO != 0 {
		gl.DeleteVertexArrays(1, &r.squareVAO)
	}
	if r.squareVBO != 0 {
		gl.DeleteBuffers(1, &r.squareVBO)
	}
	r.program.Release()
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Draw clears the frame and draws the square turned by angle radians.
func (r *Renderer) Draw(angle float32) {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.UseProgram(r.program.ID())

	proj := r.config.Camera.Projection(r.config.Width, r.config.Height)
	modelView := r.config.Camera.ModelView(angle)
	if loc := r.program.Uniform(UniformProjection); loc != shader.Unbound {
		gl.UniformMatrix4fv(loc, 1, false, proj.Ptr())
	}
	if loc := r.program.Uniform(UniformModelView); loc != shader.Unbound {
		gl.UniformMatrix4fv(loc, 1, false, modelView.Ptr())
	}

	gl.BindVertexArray(r.squareVAO)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	gl.BindVertexArray(0)
}

// useProgram points the square's vertex array at the program's position
// attribute and uploads the color, which only changes with the program.
func (r *Renderer) useProgram() {
	loc := r.program.Attrib(AttribPosition)

	gl.BindVertexArray(r.squareVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.squareVBO)
	if r.boundAttr != shader.Unbound && r.boundAttr != loc {
		gl.DisableVertexAttribArray(uint32(r.boundAttr))
	}
	if loc != shader.Unbound {
		gl.VertexAttribPointerWithOffset(uint32(loc), 2, gl.FLOAT, false, 2*4, 0)
		gl.EnableVertexAttribArray(uint32(loc))
	}
	r.boundAttr = loc
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	gl.UseProgram(r.program.ID())
	if cl := r.program.Uniform(UniformColor); cl != shader.Unbound {
		gl.Uniform4fv(cl, 1, &r.config.SquareColor[0])
	}
}

// ReadPixels reads the current back buffer as RGBA, bottom row first.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	if len(pixels) == 0 {
		return pixels, w, h
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}

// createSquare uploads the four corners of a 2x2 square as a triangle strip.
func (r *Renderer) createSquare() {
	positions := []float32{
		1.0, 1.0,
		-1.0, 1.0,
		1.0, -1.0,
		-1.0, -1.0,
	}

	gl.GenVertexArrays(1, &r.squareVAO)
	gl.GenBuffers(1, &r.squareVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.squareVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(positions)*4, unsafe.Pointer(&positions[0]), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	r.log.Debug("square created",
		zap.Uint32("vao", r.squareVAO),
		zap.Uint32("vbo", r.squareVBO),
	)
}
