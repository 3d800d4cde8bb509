// Package window creates a window with an OpenGL 4.1 core context using
// SDL2 or GLFW.
package window

import (
	"fmt"
	"runtime"

	"github.com/AlexStampfl/3D-Square/internal/engine/input"
)

func init() {
	// OpenGL calls must be made from the main thread
	runtime.LockOSThread()
}

// Backends.
const (
	BackendSDL  = "sdl"
	BackendGLFW = "glfw"
)

// Config holds window configuration.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
	Backend    string
	// Hidden creates the context without showing the window.
	Hidden bool
}

// Window is a window owning the current GL context.
type Window interface {
	// Poll queues pending window-system events.
	Poll(q *input.Queue)
	SwapBuffers()
	GetSize() (int, int)
	SetTitle(title string)
	Close()
}

// New creates a window with the configured backend. The GL context is
// current on the calling thread when New returns.
func New(cfg Config) (Window, error) {
	switch cfg.Backend {
	case BackendSDL, "":
		w, err := newSDL(cfg)
		if err != nil {
			return nil, err
		}
		return w, nil
	case BackendGLFW:
		w, err := newGLFW(cfg)
		if err != nil {
			return nil, err
		}
		return w, nil
	default:
		return nil, fmt.Errorf("unknown window backend %q", cfg.Backend)
	}
}
