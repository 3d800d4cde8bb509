// Package config handles demo configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Config holds all settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Shader   ShaderConfig   `yaml:"shader"`
	Scene    SceneConfig    `yaml:"scene"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// Window backends.
const (
	BackendSDL  = "sdl"
	BackendGLFW = "glfw"
)

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
	Backend    string `yaml:"backend"`
	// ScreenshotDir receives PNGs saved with the P key.
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// ShaderConfig selects the shader pair and the symbols to resolve.
// Empty paths use the built-in square shaders.
type ShaderConfig struct {
	VertexPath   string   `yaml:"vertex_path"`
	FragmentPath string   `yaml:"fragment_path"`
	Attributes   []string `yaml:"attributes"`
	Uniforms     []string `yaml:"uniforms"`
	Watch        bool     `yaml:"watch"`
}

// SceneConfig holds what gets drawn.
type SceneConfig struct {
	SquareColor   [4]float32 `yaml:"square_color"`
	ClearColor    [4]float32 `yaml:"clear_color"`
	Animate       bool       `yaml:"animate"`
	RotationSpeed float32    `yaml:"rotation_speed"` // radians per second
	FieldOfView   float32    `yaml:"field_of_view"`  // degrees
	Distance      float32    `yaml:"distance"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Title:         "Square",
			Width:         640,
			Height:        480,
			Fullscreen:    false,
			VSync:         true,
			Backend:       BackendSDL,
			ScreenshotDir: "screenshots",
		},
		Shader: ShaderConfig{
			Attributes: []string{"aVertexPosition"},
			Uniforms:   []string{"uProjectionMatrix", "uModelViewMatrix", "uSquareColor"},
		},
		Scene: SceneConfig{
			SquareColor:   [4]float32{1, 1, 1, 1},
			ClearColor:    [4]float32{0, 0, 0, 1},
			Animate:       true,
			RotationSpeed: 1.0,
			FieldOfView:   45,
			Distance:      6,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports settings the demo cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		errs = append(errs, fmt.Errorf("graphics: invalid size %dx%d", c.Graphics.Width, c.Graphics.Height))
	}
	switch c.Graphics.Backend {
	case BackendSDL, BackendGLFW:
	default:
		errs = append(errs, fmt.Errorf("graphics: unknown backend %q", c.Graphics.Backend))
	}
	if len(c.Shader.Attributes) == 0 {
		errs = append(errs, errors.New("shader: at least one attribute is required"))
	}
	if !validColor(c.Scene.SquareColor) {
		errs = append(errs, fmt.Errorf("scene: square_color %v outside [0,1]", c.Scene.SquareColor))
	}
	if !validColor(c.Scene.ClearColor) {
		errs = append(errs, fmt.Errorf("scene: clear_color %v outside [0,1]", c.Scene.ClearColor))
	}
	if c.Scene.FieldOfView <= 0 || c.Scene.FieldOfView >= 180 {
		errs = append(errs, fmt.Errorf("scene: field_of_view %v must be in (0,180)", c.Scene.FieldOfView))
	}
	return errors.Join(errs...)
}

func validColor(c [4]float32) bool {
	for _, v := range c {
		if v < 0 || v > 1 {
			return false
		}
	}
	return true
}
