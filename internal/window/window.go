// Package window hosts the backdrop in a GLFW window with an OpenGL 3.3
// core context. Everything here must run on the main OS thread.
package window

import (
	"fmt"
	"log"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/inertia-app/backdrop/internal/backdrop"
	"github.com/inertia-app/backdrop/internal/clock"
	"github.com/inertia-app/backdrop/internal/glsurface"
)

// Options controls window creation.
type Options struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
	Samples    int
	Debug      bool
}

// Window is a backdrop.Host backed by GLFW.
type Window struct {
	win    *glfw.Window
	dev    *glsurface.Device
	devErr error
	hud    *glsurface.HUD
	timers *clock.Queue
	debug  bool

	frame    func()
	onResize []func(int, int)
	onMove   []func(float64, float64)
	onClick  []func(float64, float64)
	overlay  func() []string

	fps        float64
	frameCount int
	fpsSince   time.Time
}

// Open initializes GLFW and creates the window. A missing OpenGL driver is
// not an error here: Context reports it and the renderer stays inert.
func Open(opts Options) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("initializing GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	if opts.Samples > 0 {
		glfw.WindowHint(glfw.Samples, opts.Samples)
	}

	var (
		win *glfw.Window
		err error
	)
	monitor, width, height := placement(opts, glfw.GetPrimaryMonitor())
	win, err = glfw.CreateWindow(width, height, opts.Title, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("creating window: %w", err)
	}
	win.MakeContextCurrent()
	if opts.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	w := &Window{
		win:      win,
		timers:   clock.NewQueue(nil),
		debug:    opts.Debug,
		fpsSince: time.Now(),
	}

	w.dev, w.devErr = glsurface.New(opts.Debug)
	if w.devErr == nil && opts.Debug {
		if w.hud, err = glsurface.NewHUD(w.dev); err != nil {
			log.Printf("WARNING: debug overlay disabled: %v", err)
		}
	}

	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		for _, fn := range w.onResize {
			fn(width, height)
		}
	})
	win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		for _, fn := range w.onMove {
			fn(x, y)
		}
	})
	win.SetMouseButtonCallback(func(gw *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if button != glfw.MouseButtonLeft || action != glfw.Press {
			return
		}
		x, y := gw.GetCursorPos()
		for _, fn := range w.onClick {
			fn(x, y)
		}
	})
	win.SetKeyCallback(func(gw *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			gw.SetShouldClose(true)
		}
	})

	return w, nil
}

// placement picks the monitor and size for a new window. Fullscreen without
// a usable primary monitor falls back to a window of the configured size.
func placement(opts Options, primary *glfw.Monitor) (*glfw.Monitor, int, int) {
	if !opts.Fullscreen {
		return nil, opts.Width, opts.Height
	}
	if primary == nil {
		log.Printf("WARNING: no primary monitor, opening a %dx%d window instead", opts.Width, opts.Height)
		return nil, opts.Width, opts.Height
	}
	mode := primary.GetVideoMode()
	if mode == nil {
		log.Printf("WARNING: primary monitor has no video mode, opening a %dx%d window instead", opts.Width, opts.Height)
		return nil, opts.Width, opts.Height
	}
	return primary, mode.Width, mode.Height
}

func (w *Window) Context() (backdrop.Device, error) {
	if w.devErr != nil {
		return nil, fmt.Errorf("%w: %v", backdrop.ErrNoContext, w.devErr)
	}
	return w.dev, nil
}

func (w *Window) ViewportSize() (int, int) { return w.win.GetFramebufferSize() }

// Bounds is in screen coordinates, which is what cursor callbacks report.
func (w *Window) Bounds() backdrop.Rect {
	width, height := w.win.GetSize()
	return backdrop.Rect{Width: float64(width), Height: float64(height)}
}

func (w *Window) OnResize(fn func(int, int))          { w.onResize = append(w.onResize, fn) }
func (w *Window) OnPointerMove(fn func(x, y float64)) { w.onMove = append(w.onMove, fn) }
func (w *Window) OnClick(fn func(x, y float64))       { w.onClick = append(w.onClick, fn) }
func (w *Window) RequestFrame(fn func())              { w.frame = fn }

func (w *Window) AfterFunc(d time.Duration, fn func()) { w.timers.AfterFunc(d, fn) }

// SetOverlay sets the provider of debug HUD lines. The window adds its own
// FPS and viewport lines in front of them.
func (w *Window) SetOverlay(fn func() []string) { w.overlay = fn }

// Run processes frames until the window is closed.
func (w *Window) Run() {
	for !w.win.ShouldClose() {
		w.timers.Run()

		if fn := w.frame; fn != nil {
			w.frame = nil
			fn()
		}
		w.countFrame()
		w.drawOverlay()

		w.win.SwapBuffers()
		glfw.PollEvents()
		if w.frame == nil && w.dev == nil {
			// nothing renders; avoid spinning
			glfw.WaitEventsTimeout(0.1)
		}
	}
}

// Close destroys the window and terminates GLFW.
func (w *Window) Close() {
	if w.hud != nil {
		w.hud.Release()
	}
	if w.dev != nil {
		w.dev.Release()
	}
	w.win.Destroy()
	glfw.Terminate()
}

func (w *Window) countFrame() {
	w.frameCount++
	now := time.Now()
	if d := now.Sub(w.fpsSince); d >= time.Second {
		w.fps = float64(w.frameCount) / d.Seconds()
		w.frameCount = 0
		w.fpsSince = now
	}
}

func (w *Window) drawOverlay() {
	if w.hud == nil {
		return
	}
	fbWidth, fbHeight := w.win.GetFramebufferSize()
	width, height := w.win.GetSize()
	lines := []string{
		fmt.Sprintf("FPS: %.1f", w.fps),
		fmt.Sprintf("Window: %dx%d, Framebuffer: %dx%d", width, height, fbWidth, fbHeight),
	}
	if w.overlay != nil {
		lines = append(lines, w.overlay()...)
	}
	w.hud.Render(lines, fbWidth, fbHeight)
}
