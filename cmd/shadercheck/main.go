// shadercheck compiles and links a shader pair on the local driver and
// prints the resolved locations as YAML.
package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/AlexStampfl/3D-Square/internal/assets"
	"github.com/AlexStampfl/3D-Square/internal/config"
	"github.com/AlexStampfl/3D-Square/internal/engine/shader"
	"github.com/AlexStampfl/3D-Square/internal/engine/shader/gldevice"
	"github.com/AlexStampfl/3D-Square/internal/engine/window"
	"github.com/AlexStampfl/3D-Square/internal/logger"
)

type report struct {
	Driver     driver           `yaml:"driver"`
	Vertex     string           `yaml:"vertex"`
	Fragment   string           `yaml:"fragment"`
	Attributes map[string]int32 `yaml:"attributes"`
	Uniforms   map[string]int32 `yaml:"uniforms"`
	Unbound    []string         `yaml:"unbound,omitempty"`
}

type driver struct {
	Version  string `yaml:"version"`
	Renderer string `yaml:"renderer"`
	GLSL     string `yaml:"glsl"`
}

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Stdout carries the report, so logs only go to a file.
	logger.UseNop()
	if cfg.Logging.LogFile != "" {
		fileCfg := logger.DefaultFileConfig(cfg.Logging.LogFile)
		if err := logger.InitWithFileConfig(cfg.Logging.Level, fileCfg, false); err != nil {
			fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
			os.Exit(1)
		}
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "shadercheck: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	src, err := assets.NewManager(cfg.Shader.VertexPath, cfg.Shader.FragmentPath).Source()
	if err != nil {
		return err
	}

	win, err := window.New(window.Config{
		Title:   "shadercheck",
		Width:   64,
		Height:  64,
		Backend: cfg.Graphics.Backend,
		Hidden:  true,
	})
	if err != nil {
		return err
	}
	defer win.Close()

	info, err := gldevice.Init()
	if err != nil {
		return err
	}

	b := shader.NewBuilder(gldevice.New(), logger.Named("shader"))
	prog, err := b.Build(src, shader.Symbols{
		Attributes: cfg.Shader.Attributes,
		Uniforms:   cfg.Shader.Uniforms,
	})
	if err != nil {
		return describe(err)
	}
	defer prog.Release()

	table := prog.Locations()
	r := report{
		Driver:     driver{Version: info.Version, Renderer: info.Renderer, GLSL: info.GLSL},
		Vertex:     sourceName(cfg.Shader.VertexPath),
		Fragment:   sourceName(cfg.Shader.FragmentPath),
		Attributes: table.Attributes(),
		Uniforms:   table.Uniforms(),
	}
	for _, u := range table.Unbound() {
		r.Unbound = append(r.Unbound, u.String())
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return enc.Close()
}

// describe prefixes driver diagnostics with the step that produced them.
func describe(err error) error {
	var ce *shader.CompileError
	var le *shader.LinkError
	switch {
	case errors.As(err, &ce):
		return fmt.Errorf("%s stage does not compile:\n%s", ce.Stage, ce.Log)
	case errors.As(err, &le):
		return fmt.Errorf("program does not link:\n%s", le.Log)
	default:
		return err
	}
}

func sourceName(path string) string {
	if path == "" {
		return "(embedded)"
	}
	return path
}
