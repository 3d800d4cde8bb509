package shadertest

import (
	"strings"
	"testing"

	"github.com/AlexStampfl/3D-Square/internal/engine/shader"
)

func compileOK(t *testing.T, d *Device, stage shader.Stage, src string) uint32 {
	t.Helper()
	id := d.CreateShader(stage)
	d.ShaderSource(id, src)
	d.CompileShader(id)
	if !d.CompileStatus(id) {
		t.Fatalf("%s compile failed: %s", stage, d.ShaderInfoLog(id))
	}
	return id
}

func linkPair(t *testing.T, d *Device, vsSrc, fsSrc string) uint32 {
	t.Helper()
	vs := compileOK(t, d, shader.Vertex, vsSrc)
	fs := compileOK(t, d, shader.Fragment, fsSrc)
	p := d.CreateProgram()
	d.AttachShader(p, vs)
	d.AttachShader(p, fs)
	d.LinkProgram(p)
	return p
}

func TestCompileErrorLineNumbers(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "comment lines count",
			src:  "// header\n/* block\n comment */\nuniform mat4 1bad;\nvoid main() {}",
			want: "0:4:",
		},
		{
			name: "unclosed brace reports opening line",
			src:  "#version 410 core\n\nvoid main() {\n",
			want: "0:3: '{'",
		},
		{
			name: "redefinition",
			src:  "uniform vec4 uA;\nuniform vec4 uA;\nvoid main() {}",
			want: "0:2: 'uA' : redefinition",
		},
		{
			name: "bad precision",
			src:  "precision float;\nvoid main() {}",
			want: "'precision' : syntax error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New()
			id := d.CreateShader(shader.Vertex)
			d.ShaderSource(id, tt.src)
			d.CompileShader(id)
			if d.CompileStatus(id) {
				t.Fatal("expected compile failure")
			}
			if log := d.ShaderInfoLog(id); !strings.Contains(log, tt.want) {
				t.Errorf("log %q does not contain %q", log, tt.want)
			}
		})
	}
}

func TestLinkAssignsLocations(t *testing.T) {
	d := New()
	p := linkPair(t, d, `
#version 410 core
layout (location = 0) in vec3 aPos;
in vec3 aColor;
in vec2 aUnused;
out vec3 vColor;
uniform mat4 uMVP;
void main() {
    gl_Position = uMVP * vec4(aPos, 1.0);
    vColor = aColor;
}
`, `
#version 410 core
in vec3 vColor;
uniform mat4 uMVP;
uniform float uAlpha;
out vec4 FragColor;
void main() {
    FragColor = vec4(vColor, uAlpha);
}
`)
	if !d.LinkStatus(p) {
		t.Fatalf("link failed: %s", d.ProgramInfoLog(p))
	}

	want := map[string]int32{"aPos": 0, "aColor": 1, "aUnused": -1}
	for name, loc := range want {
		if got := d.AttribLocation(p, name); got != loc {
			t.Errorf("attribute %s: got %d, want %d", name, got, loc)
		}
	}
	if got := d.UniformLocation(p, "uMVP"); got != 0 {
		t.Errorf("uMVP: got %d, want 0", got)
	}
	if got := d.UniformLocation(p, "uAlpha"); got != 1 {
		t.Errorf("uAlpha: got %d, want 1", got)
	}
}

func TestLinkErrors(t *testing.T) {
	tests := []struct {
		name string
		vs   string
		fs   string
		want string
	}{
		{
			name: "varying type mismatch",
			vs:   "varying vec3 vC;\nvoid main() { vC = vec3(1.0); }",
			fs:   "varying vec4 vC;\nvoid main() { gl_FragColor = vC; }",
			want: "Type mismatch",
		},
		{
			name: "uniform type mismatch",
			vs:   "uniform vec4 uC;\nvoid main() { gl_Position = uC; }",
			fs:   "uniform vec3 uC;\nvoid main() { gl_FragColor = vec4(uC, 1.0); }",
			want: "differs between stages",
		},
		{
			name: "missing main",
			vs:   "void helper() {}",
			fs:   "void main() {}",
			want: "Missing entry point",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New()
			p := linkPair(t, d, tt.vs, tt.fs)
			if d.LinkStatus(p) {
				t.Fatal("expected link failure")
			}
			if log := d.ProgramInfoLog(p); !strings.Contains(log, tt.want) {
				t.Errorf("log %q does not contain %q", log, tt.want)
			}
			if d.AttribLocation(p, "anything") != -1 {
				t.Error("unlinked program should expose no locations")
			}
		})
	}
}

func TestDeleteAttachedShaderIsDeferred(t *testing.T) {
	d := New()
	p := linkPair(t, d, "void main() {}", "void main() {}")
	shaders := d.AttachedShaders(p)
	if len(shaders) != 2 {
		t.Fatalf("expected 2 attached shaders, got %d", len(shaders))
	}

	for _, id := range shaders {
		d.DeleteShader(id)
	}
	if d.LiveShaders() != 2 {
		t.Errorf("attached shaders should outlive DeleteShader, live=%d", d.LiveShaders())
	}

	d.DeleteProgram(p)
	if d.LiveShaders() != 0 || d.LivePrograms() != 0 {
		t.Errorf("expected everything freed, shaders=%d programs=%d", d.LiveShaders(), d.LivePrograms())
	}

	d.DeleteProgram(p)
	d.DeleteShader(shaders[0])
	if d.BadDeletes() != 2 {
		t.Errorf("expected 2 bad deletes, got %d", d.BadDeletes())
	}
}
