// Package app runs the square demo: window, renderer, input and shader
// hot reload tied together in one loop on the GL thread.
package app

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/AlexStampfl/3D-Square/internal/assets"
	"github.com/AlexStampfl/3D-Square/internal/config"
	"github.com/AlexStampfl/3D-Square/internal/engine/camera"
	"github.com/AlexStampfl/3D-Square/internal/engine/debug"
	"github.com/AlexStampfl/3D-Square/internal/engine/input"
	"github.com/AlexStampfl/3D-Square/internal/engine/renderer"
	"github.com/AlexStampfl/3D-Square/internal/engine/scene"
	"github.com/AlexStampfl/3D-Square/internal/engine/shader"
	"github.com/AlexStampfl/3D-Square/internal/engine/window"
	"github.com/AlexStampfl/3D-Square/internal/logger"
)

// App is the demo instance.
type App struct {
	cfg      *config.Config
	running  bool
	window   window.Window
	renderer *renderer.Renderer
	queue    *input.Queue
	assets   *assets.Manager
	watcher  *assets.Watcher
	spinner  *scene.Spinner
	shots    *debug.Screenshots
	wantShot bool
	log      *zap.Logger
}

// New creates the window, builds the shaders and prepares the loop.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		cfg:     cfg,
		queue:   input.NewQueue(),
		assets:  assets.NewManager(cfg.Shader.VertexPath, cfg.Shader.FragmentPath),
		spinner: scene.NewSpinner(cfg.Scene.RotationSpeed, cfg.Scene.Animate),
		shots:   debug.NewScreenshots(cfg.Graphics.ScreenshotDir, "square"),
		log:     logger.Named("app"),
	}

	src, err := a.assets.Source()
	if err != nil {
		return nil, fmt.Errorf("loading shaders: %w", err)
	}

	// Create window (this also creates the OpenGL context)
	a.window, err = window.New(window.Config{
		Title:      cfg.Graphics.Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		Backend:    cfg.Graphics.Backend,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	width, height := a.window.GetSize()
	a.renderer, err = renderer.New(renderer.Config{
		Width:       width,
		Height:      height,
		SquareColor: cfg.Scene.SquareColor,
		ClearColor:  cfg.Scene.ClearColor,
		Camera: camera.FixedCamera{
			FieldOfView: cfg.Scene.FieldOfView,
			Distance:    cfg.Scene.Distance,
		},
		Symbols: shader.Symbols{
			Attributes: cfg.Shader.Attributes,
			Uniforms:   cfg.Shader.Uniforms,
		},
	}, src)
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	if cfg.Shader.Watch {
		if paths := a.assets.Paths(); len(paths) > 0 {
			a.watcher, err = assets.NewWatcher(paths, logger.Named("watch"))
			if err != nil {
				// Hot reload is a convenience; run without it.
				a.log.Warn("shader watch disabled", zap.Error(err))
			}
		} else {
			a.log.Warn("shader watch requested but shaders are embedded")
		}
	}

	a.log.Info("demo initialized",
		zap.Bool("animate", cfg.Scene.Animate),
		zap.Bool("watch", a.watcher != nil),
	)
	return a, nil
}

// Run starts the main loop and returns when the window is closed.
func (a *App) Run() error {
	a.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	a.log.Info("starting main loop")

	for a.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		a.window.Poll(a.queue)
		a.handleEvents(a.queue.Drain())
		if !a.running || a.queue.QuitRequested() {
			break
		}

		if a.watcher != nil {
			if changed := a.watcher.Pending(); len(changed) > 0 {
				a.reload(changed...)
			}
		}

		a.spinner.Advance(dt)
		a.renderer.Draw(a.spinner.Angle())
		if a.wantShot {
			a.screenshot()
			a.wantShot = false
		}
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps",
				zap.Int("count", frameCount),
				zap.Float64("dt_ms", dt*1000),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (a *App) handleEvents(events []input.Event) {
	for _, event := range events {
		switch event.Type {
		case input.EventQuit:
			a.running = false
		case input.EventWindowResize:
			a.renderer.Resize(event.Width, event.Height)
		case input.EventKeyDown:
			switch event.Key {
			case input.KeyEscape:
				a.running = false
			case input.KeySpace:
				a.spinner.Toggle()
				a.log.Debug("animation toggled", zap.Bool("animate", a.spinner.Animate))
			case input.KeyR:
				a.reload(a.assets.Paths()...)
			case input.KeyP:
				a.wantShot = true
			}
		}
	}
}

// screenshot saves the frame just drawn. Call before SwapBuffers.
func (a *App) screenshot() {
	pixels, w, h := a.renderer.ReadPixels()
	name, err := a.shots.Save(pixels, w, h)
	if err != nil {
		a.log.Error("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("file", name))
}

// reload re-reads the shader files and swaps in a new program. A broken
// edit keeps the previous program on screen.
func (a *App) reload(paths ...string) {
	for _, p := range paths {
		a.assets.Invalidate(p)
	}

	src, err := a.assets.Source()
	if err != nil {
		a.log.Error("shader reload failed", zap.Error(err))
		return
	}
	if err := a.renderer.Rebuild(src); err != nil {
		a.log.Error("shader rebuild failed, keeping previous program", BuildErrorFields(err)...)
		return
	}
	a.log.Info("shaders reloaded", zap.Strings("paths", paths))
}

// BuildErrorFields turns a build error into log fields, pulling out the
// stage and the driver's diagnostic log when present.
func BuildErrorFields(err error) []zap.Field {
	var ce *shader.CompileError
	var le *shader.LinkError
	switch {
	case errors.As(err, &ce):
		return []zap.Field{
			zap.String("step", "compile"),
			zap.Stringer("stage", ce.Stage),
			zap.String("log", ce.Log),
		}
	case errors.As(err, &le):
		return []zap.Field{
			zap.String("step", "link"),
			zap.String("log", le.Log),
		}
	default:
		return []zap.Field{zap.Error(err)}
	}
}

// Close cleans up resources.
func (a *App) Close() {
	a.log.Info("closing demo")

	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			a.log.Warn("closing watcher", zap.Error(err))
		}
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
	a.assets.Close()
}
