package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagBackend    = flag.String("backend", "", "Window backend (sdl or glfw)")
	flagVertex     = flag.String("vertex", "", "Path to vertex shader")
	flagFragment   = flag.String("fragment", "", "Path to fragment shader")
	flagWatch      = flag.Bool("watch", false, "Rebuild shaders when their files change")
	flagStatic     = flag.Bool("static", false, "Draw a single still frame instead of rotating")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagBackend != "" {
		cfg.Graphics.Backend = *flagBackend
	}
	if *flagVertex != "" {
		cfg.Shader.VertexPath = *flagVertex
	}
	if *flagFragment != "" {
		cfg.Shader.FragmentPath = *flagFragment
	}
	if *flagWatch {
		cfg.Shader.Watch = true
	}
	if *flagStatic {
		cfg.Scene.Animate = false
	}
}
