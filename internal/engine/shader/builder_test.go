package shader_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/AlexStampfl/3D-Square/internal/assets"
	"github.com/AlexStampfl/3D-Square/internal/engine/shader"
	"github.com/AlexStampfl/3D-Square/internal/engine/shader/shadertest"
)

const squareVS = `
attribute vec4 aVertexPosition;

uniform mat4 uModelViewMatrix;
uniform mat4 uProjectionMatrix;

void main() {
  gl_Position = uProjectionMatrix * uModelViewMatrix * aVertexPosition;
}
`

const squareFS = `
precision mediump float;
uniform vec4 uSquareColor;

void main() {
  gl_FragColor = uSquareColor;
}
`

var squareSymbols = shader.Symbols{
	Attributes: []string{"aVertexPosition"},
	Uniforms:   []string{"uModelViewMatrix", "uProjectionMatrix", "uSquareColor"},
}

func newBuilder() (*shader.Builder, *shadertest.Device) {
	dev := shadertest.New()
	return shader.NewBuilder(dev, nil), dev
}

func TestBuildReady(t *testing.T) {
	b, dev := newBuilder()

	p, err := b.Build(shader.Source{Vertex: squareVS, Fragment: squareFS}, squareSymbols)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !p.Ready() || p.State() != shader.StateReady {
		t.Fatalf("expected ready program, got state %s", p.State())
	}

	table := p.Locations()
	if table.Len() != 4 {
		t.Errorf("expected 4 locations, got %d", table.Len())
	}
	for _, name := range squareSymbols.Attributes {
		loc, ok := table.Attrib(name)
		if !ok || (loc < 0 && loc != shader.Unbound) {
			t.Errorf("attribute %s: got %d (requested=%v)", name, loc, ok)
		}
	}
	for _, name := range squareSymbols.Uniforms {
		loc, ok := table.Uniform(name)
		if !ok || (loc < 0 && loc != shader.Unbound) {
			t.Errorf("uniform %s: got %d (requested=%v)", name, loc, ok)
		}
	}

	if n := dev.LiveShaders(); n != 0 {
		t.Errorf("program should own no stages, %d shader objects alive", n)
	}
	if attached := dev.AttachedShaders(p.ID()); len(attached) != 0 {
		t.Errorf("expected no attached stages, got %v", attached)
	}
	if n := dev.LivePrograms(); n != 1 {
		t.Errorf("expected 1 live program, got %d", n)
	}

	p.Release()
	p.Release()
	if n := dev.LivePrograms(); n != 0 {
		t.Errorf("expected no live programs after Release, got %d", n)
	}
	if n := dev.BadDeletes(); n != 0 {
		t.Errorf("expected no bad deletes, got %d", n)
	}
	if !p.Released() || p.Ready() {
		t.Error("released program should not report ready")
	}
}

func TestCompileStageSyntaxError(t *testing.T) {
	tests := []struct {
		name   string
		stage  shader.Stage
		source string
	}{
		{
			name:   "unclosed body",
			stage:  shader.Vertex,
			source: "attribute vec4 aPos;\nvoid main() {\n  gl_Position = aPos;\n",
		},
		{
			name:   "missing semicolon between declarations",
			stage:  shader.Vertex,
			source: "uniform mat4 uA\nuniform mat4 uB;\nvoid main() { gl_Position = uA * uB[0]; }",
		},
		{
			name:   "stray parenthesis",
			stage:  shader.Fragment,
			source: "uniform vec4 uColor;\nvoid main() { gl_FragColor = uColor); }",
		},
		{
			name:   "attribute in fragment stage",
			stage:  shader.Fragment,
			source: "attribute vec4 aPos;\nvoid main() { gl_FragColor = aPos; }",
		},
		{
			name:   "trailing garbage",
			stage:  shader.Fragment,
			source: "void main() { gl_FragColor = vec4(1.0); }\nuniform vec4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, dev := newBuilder()

			cs, err := b.CompileStage(tt.source, tt.stage)
			if err == nil {
				cs.Release()
				t.Fatal("expected compile error, got nil")
			}

			var ce *shader.CompileError
			if !errors.As(err, &ce) {
				t.Fatalf("expected *CompileError, got %T: %v", err, err)
			}
			if ce.Stage != tt.stage {
				t.Errorf("expected stage %s, got %s", tt.stage, ce.Stage)
			}
			if !strings.Contains(ce.Log, "ERROR") {
				t.Errorf("expected compiler log to be attached, got %q", ce.Log)
			}
			if dev.ShadersCreated() != 1 {
				t.Errorf("expected 1 shader object created, got %d", dev.ShadersCreated())
			}
			if n := dev.LiveShaders(); n != 0 {
				t.Errorf("expected no live shader objects, got %d", n)
			}
		})
	}
}

func TestBuildFragmentErrorReleasesVertex(t *testing.T) {
	b, dev := newBuilder()

	_, err := b.Build(shader.Source{Vertex: squareVS, Fragment: "void main() {"}, squareSymbols)

	var ce *shader.CompileError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *CompileError, got %v", err)
	}
	if ce.Stage != shader.Fragment {
		t.Errorf("expected fragment stage, got %s", ce.Stage)
	}
	if !strings.Contains(err.Error(), "fragment shader") {
		t.Errorf("error should name the stage: %v", err)
	}
	if dev.LiveShaders() != 0 || dev.LivePrograms() != 0 {
		t.Errorf("leaked objects: %d shaders, %d programs", dev.LiveShaders(), dev.LivePrograms())
	}
	if dev.ProgramsCreated() != 0 {
		t.Errorf("no program should be created before both stages compile")
	}
}

func TestLinkErrorReleasesStages(t *testing.T) {
	b, dev := newBuilder()

	vs, err := b.CompileStage(squareVS, shader.Vertex)
	if err != nil {
		t.Fatalf("vertex: %v", err)
	}
	fs, err := b.CompileStage(`
precision mediump float;
varying lowp vec4 vColor;

void main() {
  gl_FragColor = vColor;
}
`, shader.Fragment)
	if err != nil {
		t.Fatalf("fragment: %v", err)
	}

	p, err := b.Link(vs, fs)
	if err == nil {
		p.Release()
		t.Fatal("expected link error, got nil")
	}

	var le *shader.LinkError
	if !errors.As(err, &le) {
		t.Fatalf("expected *LinkError, got %T: %v", err, err)
	}
	if !strings.Contains(le.Log, "vColor") {
		t.Errorf("expected linker log to name vColor, got %q", le.Log)
	}
	if !vs.Consumed() || !fs.Consumed() {
		t.Error("both stages should be consumed by Link")
	}
	if dev.LiveShaders() != 0 || dev.LivePrograms() != 0 {
		t.Errorf("leaked objects: %d shaders, %d programs", dev.LiveShaders(), dev.LivePrograms())
	}
	if n := dev.BadDeletes(); n != 0 {
		t.Errorf("expected no bad deletes, got %d", n)
	}
}

func TestLinkArgumentErrors(t *testing.T) {
	t.Run("swapped stages", func(t *testing.T) {
		b, dev := newBuilder()
		vs, _ := b.CompileStage(squareVS, shader.Vertex)
		fs, _ := b.CompileStage(squareFS, shader.Fragment)

		_, err := b.Link(fs, vs)
		if !errors.Is(err, shader.ErrStageMismatch) {
			t.Fatalf("expected ErrStageMismatch, got %v", err)
		}
		if dev.LiveShaders() != 0 {
			t.Errorf("expected stages to be released, %d alive", dev.LiveShaders())
		}
	})

	t.Run("missing stage", func(t *testing.T) {
		b, dev := newBuilder()
		vs, _ := b.CompileStage(squareVS, shader.Vertex)

		_, err := b.Link(vs, nil)
		if !errors.Is(err, shader.ErrStageMismatch) {
			t.Fatalf("expected ErrStageMismatch, got %v", err)
		}
		if dev.LiveShaders() != 0 {
			t.Errorf("expected vertex stage to be released, %d alive", dev.LiveShaders())
		}
	})

	t.Run("consumed stage", func(t *testing.T) {
		b, dev := newBuilder()
		vs, _ := b.CompileStage(squareVS, shader.Vertex)
		fs, _ := b.CompileStage(squareFS, shader.Fragment)
		vs.Release()

		_, err := b.Link(vs, fs)
		if !errors.Is(err, shader.ErrStageConsumed) {
			t.Fatalf("expected ErrStageConsumed, got %v", err)
		}
		if dev.LiveShaders() != 0 || dev.BadDeletes() != 0 {
			t.Errorf("live=%d bad deletes=%d", dev.LiveShaders(), dev.BadDeletes())
		}
	})
}

func TestCompileStageEmptySource(t *testing.T) {
	b, dev := newBuilder()

	_, err := b.CompileStage("  \n\t", shader.Vertex)
	if !errors.Is(err, shader.ErrEmptySource) {
		t.Fatalf("expected ErrEmptySource, got %v", err)
	}
	if dev.ShadersCreated() != 0 {
		t.Error("empty source should not allocate a shader object")
	}
}

func TestDeviceAllocationFailure(t *testing.T) {
	t.Run("shader", func(t *testing.T) {
		b, dev := newBuilder()
		dev.FailCreateShader = true

		_, err := b.Build(shader.Source{Vertex: squareVS, Fragment: squareFS}, squareSymbols)
		var ce *shader.CompileError
		if !errors.As(err, &ce) || ce.Stage != shader.Vertex {
			t.Fatalf("expected vertex *CompileError, got %v", err)
		}
	})

	t.Run("program", func(t *testing.T) {
		b, dev := newBuilder()
		dev.FailCreateProgram = true

		_, err := b.Build(shader.Source{Vertex: squareVS, Fragment: squareFS}, squareSymbols)
		var le *shader.LinkError
		if !errors.As(err, &le) {
			t.Fatalf("expected *LinkError, got %v", err)
		}
		if dev.LiveShaders() != 0 {
			t.Errorf("expected stages to be released, %d alive", dev.LiveShaders())
		}
	})
}

func TestUnknownUniformIsUnbound(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	dev := shadertest.New()
	b := shader.NewBuilder(dev, zap.New(core))
	src := shader.Source{Vertex: squareVS, Fragment: squareFS}

	base, err := b.Build(src, squareSymbols)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer base.Release()

	withMissing := squareSymbols
	withMissing.Uniforms = append([]string{"uMissing"}, squareSymbols.Uniforms...)
	p, err := b.Build(src, withMissing)
	if err != nil {
		t.Fatalf("Build with unknown uniform: %v", err)
	}
	defer p.Release()

	if loc := p.Uniform("uMissing"); loc != shader.Unbound {
		t.Errorf("expected Unbound for uMissing, got %d", loc)
	}
	for _, name := range squareSymbols.Uniforms {
		if got, want := p.Uniform(name), base.Uniform(name); got != want {
			t.Errorf("uniform %s: got %d, want %d", name, got, want)
		}
	}

	unbound := p.Locations().Unbound()
	if len(unbound) != 1 || unbound[0].Name != "uMissing" || unbound[0].Kind != shader.Uniform {
		t.Errorf("unexpected unbound list: %v", unbound)
	}
	if n := logs.FilterMessage("unbound shader symbol").Len(); n != 1 {
		t.Errorf("expected 1 unbound warning, got %d", n)
	}
}

func TestUnusedDeclarationIsUnbound(t *testing.T) {
	b, _ := newBuilder()

	fs := `
precision mediump float;
uniform vec4 uSquareColor;
uniform float uUnused;

void main() {
  gl_FragColor = uSquareColor;
}
`
	p, err := b.Build(shader.Source{Vertex: squareVS, Fragment: fs}, shader.Symbols{
		Attributes: []string{"aVertexPosition", "aVertexColor"},
		Uniforms:   []string{"uSquareColor", "uUnused"},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer p.Release()

	if loc := p.Uniform("uUnused"); loc != shader.Unbound {
		t.Errorf("expected declared-but-unused uniform to be Unbound, got %d", loc)
	}
	if loc := p.Attrib("aVertexColor"); loc != shader.Unbound {
		t.Errorf("expected undeclared attribute to be Unbound, got %d", loc)
	}
	if loc := p.Uniform("uSquareColor"); loc < 0 {
		t.Errorf("expected uSquareColor to be bound, got %d", loc)
	}
}

func TestBuildDeterministic(t *testing.T) {
	b, _ := newBuilder()
	src := shader.Source{Vertex: squareVS, Fragment: squareFS}

	first, err := b.Build(src, squareSymbols)
	if err != nil {
		t.Fatalf("first build: %v", err)
	}
	defer first.Release()
	second, err := b.Build(src, squareSymbols)
	if err != nil {
		t.Fatalf("second build: %v", err)
	}
	defer second.Release()

	if first.ID() == second.ID() {
		t.Error("expected distinct program objects")
	}
	if !reflect.DeepEqual(first.Locations().Attributes(), second.Locations().Attributes()) {
		t.Errorf("attributes differ: %v vs %v", first.Locations().Attributes(), second.Locations().Attributes())
	}
	if !reflect.DeepEqual(first.Locations().Uniforms(), second.Locations().Uniforms()) {
		t.Errorf("uniforms differ: %v vs %v", first.Locations().Uniforms(), second.Locations().Uniforms())
	}
}

func TestBuildSquareShaders(t *testing.T) {
	b, dev := newBuilder()

	p, err := b.Build(assets.DefaultSource(), assets.DefaultSymbols())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer p.Release()

	if !p.Ready() {
		t.Fatalf("expected ready program, got %s", p.State())
	}
	table := p.Locations()
	if table.Len() != 4 {
		t.Fatalf("expected 4 entries, got %d", table.Len())
	}
	if loc := p.Attrib("aVertexPosition"); loc < 0 {
		t.Errorf("aVertexPosition unbound")
	}
	for _, name := range []string{"uModelViewMatrix", "uProjectionMatrix", "uSquareColor"} {
		if loc := p.Uniform(name); loc < 0 {
			t.Errorf("%s unbound", name)
		}
	}
	if len(table.Unbound()) != 0 {
		t.Errorf("expected no unbound symbols, got %v", table.Unbound())
	}
	if dev.LiveShaders() != 0 {
		t.Errorf("expected no live stages, got %d", dev.LiveShaders())
	}
}

func TestResolveLocations(t *testing.T) {
	b, _ := newBuilder()
	vs, _ := b.CompileStage(squareVS, shader.Vertex)
	fs, _ := b.CompileStage(squareFS, shader.Fragment)
	p, err := b.Link(vs, fs)
	if err != nil {
		t.Fatalf("Link: %v", err)
	}
	if p.State() != shader.StateLinked {
		t.Fatalf("expected linked state, got %s", p.State())
	}

	table, err := b.ResolveLocations(p, []string{"aVertexPosition", "aVertexPosition"}, []string{"uSquareColor"})
	if err != nil {
		t.Fatalf("ResolveLocations: %v", err)
	}
	if table.Len() != 2 {
		t.Errorf("duplicate names should resolve once, got %d entries", table.Len())
	}
	if !p.Ready() {
		t.Errorf("expected ready after first resolution, got %s", p.State())
	}

	// Later queries leave the build-time table alone.
	if _, err := b.ResolveLocations(p, nil, []string{"uProjectionMatrix"}); err != nil {
		t.Fatalf("second ResolveLocations: %v", err)
	}
	if _, ok := p.Locations().Uniform("uProjectionMatrix"); ok {
		t.Error("build-time table should not change after a later query")
	}

	p.Release()
	if _, err := b.ResolveLocations(p, nil, []string{"uSquareColor"}); !errors.Is(err, shader.ErrProgramReleased) {
		t.Errorf("expected ErrProgramReleased, got %v", err)
	}
	if _, err := b.ResolveLocations(nil, nil, nil); !errors.Is(err, shader.ErrProgramReleased) {
		t.Errorf("expected ErrProgramReleased for nil program, got %v", err)
	}
}

func TestMustUniform(t *testing.T) {
	b, _ := newBuilder()
	p, err := b.Build(shader.Source{Vertex: squareVS, Fragment: squareFS}, squareSymbols)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer p.Release()

	if loc := p.MustUniform("uSquareColor"); loc < 0 {
		t.Errorf("expected bound location, got %d", loc)
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic for missing uniform")
		}
	}()
	p.MustUniform("uNope")
}
