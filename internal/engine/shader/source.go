package shader

import (
	"fmt"
	"os"
	"strings"
)

// Source is the text of a vertex and fragment stage pair.
type Source struct {
	Vertex   string
	Fragment string
}

// LoadSource reads a stage pair from disk.
func LoadSource(vertexPath, fragmentPath string) (Source, error) {
	vs, err := os.ReadFile(vertexPath)
	if err != nil {
		return Source{}, fmt.Errorf("reading vertex shader: %w", err)
	}
	fs, err := os.ReadFile(fragmentPath)
	if err != nil {
		return Source{}, fmt.Errorf("reading fragment shader: %w", err)
	}
	return Source{Vertex: string(vs), Fragment: string(fs)}, nil
}

// Text returns the source for the given stage.
func (s Source) Text(stage Stage) string {
	if stage == Fragment {
		return s.Fragment
	}
	return s.Vertex
}

// Validate reports which stage, if any, has no text.
func (s Source) Validate() error {
	for _, stage := range []Stage{Vertex, Fragment} {
		if strings.TrimSpace(s.Text(stage)) == "" {
			return fmt.Errorf("%s shader: %w", stage, ErrEmptySource)
		}
	}
	return nil
}
