package shadertest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/AlexStampfl/3D-Square/internal/engine/shader"
)

var (
	identRe    = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	layoutRe   = regexp.MustCompile(`^layout\s*\(\s*location\s*=\s*(\d+)\s*\)\s*`)
	mainRe     = regexp.MustCompile(`\bvoid\s+main\s*\(`)
	precisions = map[string]bool{"lowp": true, "mediump": true, "highp": true}
)

// decl is one global interface declaration.
type decl struct {
	typ      string
	name     string
	location int32
}

// unit is what the fake compiler keeps of a compiled stage: its interface
// and the code that can reference it.
type unit struct {
	inputs   []decl
	outputs  []decl
	uniforms []decl
	code     string
	hasMain  bool
}

// uses reports whether code outside the declarations mentions name.
func (u *unit) uses(name string) bool {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`).MatchString(u.code)
}

func findDecl(decls []decl, name string) (decl, bool) {
	for _, d := range decls {
		if d.name == name {
			return d, true
		}
	}
	return decl{}, false
}

// compile parses just enough GLSL to catch structural syntax errors and
// collect the global interface of the stage. The returned string is the
// info log, empty on success.
func compile(stage shader.Stage, source string) (*unit, string) {
	src := stripComments(source)
	if line, ch, ok := checkBalance(src); !ok {
		return nil, fmt.Sprintf("ERROR: 0:%d: '%c' : syntax error\n", line, ch)
	}

	u := &unit{}
	var code strings.Builder
	depth := 0
	start := 0
	for i := 0; i < len(src); i++ {
		switch src[i] {
		case '{':
			if depth == 0 {
				header := src[start:i]
				if mainRe.MatchString(header) {
					u.hasMain = true
				}
				code.WriteString(header)
				start = i
			}
			depth++
		case '}':
			depth--
			if depth == 0 {
				code.WriteString(src[start : i+1])
				code.WriteByte('\n')
				start = i + 1
			}
		case ';':
			if depth != 0 {
				continue
			}
			stmt := src[start:i]
			line := 1 + strings.Count(src[:start], "\n") + leadingNewlines(stmt)
			if log := u.declare(stage, strings.TrimSpace(stmt), line, &code); log != "" {
				return nil, log
			}
			start = i + 1
		}
	}
	if rest := strings.TrimSpace(src[start:]); rest != "" {
		line := 1 + strings.Count(src[:start], "\n") + leadingNewlines(src[start:])
		return nil, fmt.Sprintf("ERROR: 0:%d: '%s' : syntax error: unexpected end of file\n", line, firstToken(rest))
	}

	u.code = code.String()
	return u, ""
}

// declare records a top-level statement. Non-interface statements are kept
// as code so their references count as uses.
func (u *unit) declare(stage shader.Stage, stmt string, line int, code *strings.Builder) string {
	if stmt == "" {
		return ""
	}

	location := int32(-1)
	if m := layoutRe.FindStringSubmatch(stmt); m != nil {
		n, _ := strconv.Atoi(m[1])
		location = int32(n)
		stmt = stmt[len(m[0]):]
	}

	fields := strings.Fields(stmt)
	if len(fields) == 0 {
		return fmt.Sprintf("ERROR: 0:%d: 'layout' : syntax error\n", line)
	}
	qualifier := fields[0]
	var target *[]decl
	switch qualifier {
	case "attribute":
		if stage != shader.Vertex {
			return fmt.Sprintf("ERROR: 0:%d: 'attribute' : supported in vertex shaders only\n", line)
		}
		target = &u.inputs
	case "in":
		target = &u.inputs
	case "out":
		target = &u.outputs
	case "varying":
		if stage == shader.Vertex {
			target = &u.outputs
		} else {
			target = &u.inputs
		}
	case "uniform":
		target = &u.uniforms
	case "precision":
		if len(fields) != 3 || !precisions[fields[1]] {
			return fmt.Sprintf("ERROR: 0:%d: 'precision' : syntax error\n", line)
		}
		return ""
	default:
		code.WriteString(stmt)
		code.WriteString(";\n")
		return ""
	}

	rest := fields[1:]
	if len(rest) > 0 && precisions[rest[0]] {
		rest = rest[1:]
	}
	if len(rest) < 2 {
		return fmt.Sprintf("ERROR: 0:%d: '%s' : syntax error\n", line, qualifier)
	}
	typ := rest[0]
	if !identRe.MatchString(typ) {
		return fmt.Sprintf("ERROR: 0:%d: '%s' : syntax error\n", line, typ)
	}
	for _, name := range strings.Split(strings.Join(rest[1:], " "), ",") {
		name = strings.TrimSpace(name)
		if i := strings.IndexByte(name, '['); i > 0 {
			name = strings.TrimSpace(name[:i])
		}
		if !identRe.MatchString(name) {
			return fmt.Sprintf("ERROR: 0:%d: '%s' : syntax error\n", line, firstToken(name))
		}
		if _, dup := findDecl(*target, name); dup {
			return fmt.Sprintf("ERROR: 0:%d: '%s' : redefinition\n", line, name)
		}
		*target = append(*target, decl{typ: typ, name: name, location: location})
	}
	return ""
}

// link checks the interface between the stages and assigns locations to
// every active attribute and uniform. The returned string is the info
// log, empty on success.
func link(vs, fs *unit) (attribs, uniforms map[string]int32, log string) {
	if !vs.hasMain {
		return nil, nil, "ERROR: Missing entry point: vertex shader has no 'main'\n"
	}
	if !fs.hasMain {
		return nil, nil, "ERROR: Missing entry point: fragment shader has no 'main'\n"
	}

	for _, in := range fs.inputs {
		if !fs.uses(in.name) {
			continue
		}
		out, ok := findDecl(vs.outputs, in.name)
		if !ok {
			return nil, nil, fmt.Sprintf("ERROR: Input of fragment shader '%s' not written by vertex shader\n", in.name)
		}
		if out.typ != in.typ {
			return nil, nil, fmt.Sprintf("ERROR: Type mismatch for varying '%s': %s vs %s\n", in.name, out.typ, in.typ)
		}
	}
	for _, vu := range vs.uniforms {
		if fu, ok := findDecl(fs.uniforms, vu.name); ok && fu.typ != vu.typ {
			return nil, nil, fmt.Sprintf("ERROR: Uniform '%s' differs between stages: %s vs %s\n", vu.name, vu.typ, fu.typ)
		}
	}

	attribs = make(map[string]int32)
	taken := make(map[int32]bool)
	var pending []string
	for _, in := range vs.inputs {
		if !vs.uses(in.name) {
			continue
		}
		if in.location >= 0 {
			attribs[in.name] = in.location
			taken[in.location] = true
			continue
		}
		pending = append(pending, in.name)
	}
	next := int32(0)
	for _, name := range pending {
		for taken[next] {
			next++
		}
		attribs[name] = next
		taken[next] = true
	}

	uniforms = make(map[string]int32)
	for _, stage := range []*unit{vs, fs} {
		for _, d := range stage.uniforms {
			if _, seen := uniforms[d.name]; seen || !stage.uses(d.name) {
				continue
			}
			uniforms[d.name] = int32(len(uniforms))
		}
	}
	return attribs, uniforms, ""
}

// stripComments blanks comments and preprocessor lines, keeping newlines
// so line numbers in logs still match the input.
func stripComments(src string) string {
	var b strings.Builder
	b.Grow(len(src))
	lineStart := true
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			for i < len(src) && src[i] != '\n' {
				i++
			}
			if i < len(src) {
				b.WriteByte('\n')
			}
			lineStart = true
			continue
		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			i += 2
			for i < len(src) && !(src[i] == '*' && i+1 < len(src) && src[i+1] == '/') {
				if src[i] == '\n' {
					b.WriteByte('\n')
				}
				i++
			}
			i++
			b.WriteByte(' ')
			continue
		case c == '#' && lineStart:
			for i < len(src) && src[i] != '\n' {
				i++
			}
			if i < len(src) {
				b.WriteByte('\n')
			}
			continue
		}
		if c == '\n' {
			lineStart = true
		} else if c != ' ' && c != '\t' && c != '\r' {
			lineStart = false
		}
		b.WriteByte(c)
	}
	return b.String()
}

// checkBalance reports the line and character of the first unbalanced
// bracket.
func checkBalance(src string) (int, byte, bool) {
	pairs := map[byte]byte{'}': '{', ')': '(', ']': '['}
	type open struct {
		ch   byte
		line int
	}
	var stack []open
	line := 1
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch c {
		case '\n':
			line++
		case '{', '(', '[':
			stack = append(stack, open{c, line})
		case '}', ')', ']':
			if len(stack) == 0 || stack[len(stack)-1].ch != pairs[c] {
				return line, c, false
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) > 0 {
		top := stack[len(stack)-1]
		return top.line, top.ch, false
	}
	return 0, 0, true
}

func leadingNewlines(s string) int {
	n := 0
	for _, c := range s {
		switch c {
		case '\n':
			n++
		case ' ', '\t', '\r':
		default:
			return n
		}
	}
	return n
}

func firstToken(s string) string {
	if f := strings.Fields(s); len(f) > 0 {
		return f[0]
	}
	return s
}
