// Package shader compiles GLSL stage pairs into linked programs and
// resolves their attribute and uniform locations.
//
// The builder talks to the GPU only through Device, owns every intermediate
// object it creates, and releases all of them on every failure path: a
// caller either gets a Ready program or an error and nothing to clean up.
package shader

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// CompiledShader is a compiled stage waiting to be linked. Link consumes it;
// a stage that is never linked must be released by its holder.
type CompiledShader struct {
	id    uint32
	stage Stage
	dev   Device
}

// Stage returns the stage kind the shader was compiled as.
func (c *CompiledShader) Stage() Stage {
	return c.stage
}

// Consumed reports whether the stage has been linked or released.
func (c *CompiledShader) Consumed() bool {
	return c.id == 0
}

// Release deletes the stage object. Safe on nil and on consumed stages.
func (c *CompiledShader) Release() {
	if c == nil || c.id == 0 {
		return
	}
	c.dev.DeleteShader(c.id)
	c.id = 0
}

// Builder turns shader source into programs. It keeps no state between
// calls, so one Builder can serve any number of builds on its device.
type Builder struct {
	dev Device
	log *zap.Logger
}

// NewBuilder creates a builder for the given device. A nil logger discards
// output.
func NewBuilder(dev Device, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{dev: dev, log: log}
}

// CompileStage compiles one stage. On failure the stage object has already
// been deleted and the error is a *CompileError carrying the compiler log.
func (b *Builder) CompileStage(source string, stage Stage) (*CompiledShader, error) {
	if stage != Vertex && stage != Fragment {
		return nil, fmt.Errorf("%w: cannot compile %s stage", ErrStageMismatch, stage)
	}
	if strings.TrimSpace(source) == "" {
		return nil, fmt.Errorf("%s shader: %w", stage, ErrEmptySource)
	}

	id := b.dev.CreateShader(stage)
	if id == 0 {
		return nil, &CompileError{Stage: stage, Log: "device could not allocate a shader object"}
	}
	b.dev.ShaderSource(id, source)
	b.dev.CompileShader(id)

	if !b.dev.CompileStatus(id) {
		log := b.dev.ShaderInfoLog(id)
		b.dev.DeleteShader(id)
		return nil, &CompileError{Stage: stage, Log: log}
	}

	b.log.Debug("shader compiled",
		zap.Stringer("stage", stage),
		zap.Uint32("shader", id),
	)
	return &CompiledShader{id: id, stage: stage, dev: b.dev}, nil
}

// Link links a vertex and a fragment stage. Both stages are consumed
// whatever the outcome; on failure the program object is deleted too and
// the error is a *LinkError carrying the linker log.
func (b *Builder) Link(vs, fs *CompiledShader) (*Program, error) {
	if err := checkStages(vs, fs); err != nil {
		vs.Release()
		fs.Release()
		return nil, err
	}

	program := b.dev.CreateProgram()
	if program == 0 {
		vs.Release()
		fs.Release()
		return nil, &LinkError{Log: "device could not allocate a program object"}
	}

	b.dev.AttachShader(program, vs.id)
	b.dev.AttachShader(program, fs.id)
	b.dev.LinkProgram(program)

	linked := b.dev.LinkStatus(program)
	var log string
	if !linked {
		log = b.dev.ProgramInfoLog(program)
	}

	// The program keeps no stage objects once linking has run.
	b.dev.DetachShader(program, vs.id)
	b.dev.DetachShader(program, fs.id)
	vs.Release()
	fs.Release()

	if !linked {
		b.dev.DeleteProgram(program)
		return nil, &LinkError{Log: log}
	}

	b.log.Debug("program linked", zap.Uint32("program", program))
	return &Program{
		id:        program,
		dev:       b.dev,
		state:     StateLinked,
		locations: newLocationTable(),
	}, nil
}

func checkStages(vs, fs *CompiledShader) error {
	if vs == nil || fs == nil {
		return fmt.Errorf("%w: both a vertex and a fragment stage are required", ErrStageMismatch)
	}
	if vs.Consumed() || fs.Consumed() {
		return ErrStageConsumed
	}
	if vs.stage != Vertex || fs.stage != Fragment {
		return fmt.Errorf("%w: got %s and %s, want vertex and fragment", ErrStageMismatch, vs.stage, fs.stage)
	}
	return nil
}

// ResolveLocations looks up every requested name in the program. Names the
// program does not expose map to Unbound and are logged as warnings.
//
// The first resolution of a freshly linked program becomes its location
// table and moves it to StateReady. Later calls only query.
func (b *Builder) ResolveLocations(p *Program, attributes, uniforms []string) (LocationTable, error) {
	if p == nil || p.Released() {
		return LocationTable{}, ErrProgramReleased
	}

	table := newLocationTable()
	for _, name := range attributes {
		if _, done := table.attributes[name]; done {
			continue
		}
		table.attributes[name] = normalize(b.dev.AttribLocation(p.id, name))
	}
	for _, name := range uniforms {
		if _, done := table.uniforms[name]; done {
			continue
		}
		table.uniforms[name] = normalize(b.dev.UniformLocation(p.id, name))
	}

	for _, u := range table.Unbound() {
		b.log.Warn("unbound shader symbol",
			zap.Stringer("kind", u.Kind),
			zap.String("name", u.Name),
			zap.Uint32("program", p.id),
		)
	}

	if p.state == StateLinked {
		p.state = StateValidated
		p.locations = table
		p.state = StateReady
	}
	return table, nil
}

// Any negative location from a driver means "not active".
func normalize(loc int32) int32 {
	if loc < 0 {
		return Unbound
	}
	return loc
}

// Build compiles, links and resolves in one step. It returns the first
// error encountered; no device object outlives a failed build.
func (b *Builder) Build(src Source, symbols Symbols) (*Program, error) {
	t := tracker{log: b.log}

	vs, err := b.CompileStage(src.Vertex, Vertex)
	if err != nil {
		return nil, t.fail(err)
	}
	t.to(StateVertexCompiled)

	fs, err := b.CompileStage(src.Fragment, Fragment)
	if err != nil {
		vs.Release()
		return nil, t.fail(err)
	}
	t.to(StateBothCompiled)

	program, err := b.Link(vs, fs)
	if err != nil {
		return nil, t.fail(err)
	}
	t.to(StateLinked)

	if _, err := b.ResolveLocations(program, symbols.Attributes, symbols.Uniforms); err != nil {
		program.Release()
		return nil, t.fail(err)
	}
	t.to(program.State())

	b.log.Info("shader program ready",
		zap.Uint32("program", program.ID()),
		zap.Int("symbols", program.Locations().Len()),
	)
	return program, nil
}

// tracker follows one build attempt through its states.
type tracker struct {
	log   *zap.Logger
	state State
}

func (t *tracker) to(s State) {
	t.log.Debug("build state",
		zap.Stringer("from", t.state),
		zap.Stringer("to", s),
	)
	t.state = s
}

func (t *tracker) fail(err error) error {
	t.log.Debug("build failed",
		zap.Stringer("at", t.state),
		zap.Error(err),
	)
	t.state = StateFailed
	return err
}
