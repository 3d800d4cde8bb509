package assets

import (
	_ "embed"

	"github.com/AlexStampfl/3D-Square/internal/engine/shader"
)

// SquareVertexShader positions the square with the projection and
// model-view matrices.
//
//go:embed shaders/square.vert
var SquareVertexShader string

// SquareFragmentShader fills the square with a single uniform color.
//
//go:embed shaders/square.frag
var SquareFragmentShader string

// DefaultSource returns the built-in square shaders.
func DefaultSource() shader.Source {
	return shader.Source{
		Vertex:   SquareVertexShader,
		Fragment: SquareFragmentShader,
	}
}

// DefaultSymbols returns the names the square shaders expose.
func DefaultSymbols() shader.Symbols {
	return shader.Symbols{
		Attributes: []string{"aVertexPosition"},
		Uniforms:   []string{"uProjectionMatrix", "uModelViewMatrix", "uSquareColor"},
	}
}
