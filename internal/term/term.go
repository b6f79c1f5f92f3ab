// Package term hosts the backdrop in a truecolor terminal. Each cell shows
// two stacked pixels using an upper half block, so a W×H terminal gives a
// W×2H drawable.
package term

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/inertia-app/backdrop/internal/backdrop"
	"github.com/inertia-app/backdrop/internal/clock"
	"github.com/inertia-app/backdrop/internal/softsurface"
)

const halfBlock = '▀'

// DefaultFPS is used when no positive frame rate is configured.
const DefaultFPS = 30

// Terminal is a backdrop.Host drawing into a tcell screen.
type Terminal struct {
	screen tcell.Screen
	dev    *softsurface.Device
	timers *clock.Queue
	fps    int

	frame    func()
	onResize []func(int, int)
	onMove   []func(float64, float64)
	onClick  []func(float64, float64)

	buttons tcell.ButtonMask
}

// Open initializes the real terminal.
func Open(fps int) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("opening terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("initializing terminal: %w", err)
	}
	return New(screen, fps), nil
}

// New wraps an initialized screen.
func New(screen tcell.Screen, fps int) *Terminal {
	if fps <= 0 {
		fps = DefaultFPS
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()
	screen.Clear()

	cols, rows := screen.Size()
	return &Terminal{
		screen: screen,
		dev:    softsurface.New(cols, rows*2),
		timers: clock.NewQueue(nil),
		fps:    fps,
	}
}

func (t *Terminal) Context() (backdrop.Device, error) { return t.dev, nil }

func (t *Terminal) ViewportSize() (int, int) {
	cols, rows := t.screen.Size()
	return cols, rows * 2
}

// Bounds is measured in cells; mouse events report cell positions.
func (t *Terminal) Bounds() backdrop.Rect {
	cols, rows := t.screen.Size()
	return backdrop.Rect{Width: float64(cols), Height: float64(rows)}
}

func (t *Terminal) OnResize(fn func(int, int))          { t.onResize = append(t.onResize, fn) }
func (t *Terminal) OnPointerMove(fn func(x, y float64)) { t.onMove = append(t.onMove, fn) }
func (t *Terminal) OnClick(fn func(x, y float64))       { t.onClick = append(t.onClick, fn) }
func (t *Terminal) RequestFrame(fn func())              { t.frame = fn }

func (t *Terminal) AfterFunc(d time.Duration, fn func()) { t.timers.AfterFunc(d, fn) }

// Run renders at the configured rate until the user quits.
func (t *Terminal) Run() {
	ticker := time.NewTicker(time.Second / time.Duration(t.fps))
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-done:
				return
			}
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !t.handleEvent(ev) {
				return
			}
		case <-ticker.C:
			t.Step()
		}
	}
}

// Step fires due timers, runs the pending frame and shows it.
func (t *Terminal) Step() {
	t.timers.Run()
	fn := t.frame
	if fn == nil {
		return
	}
	t.frame = nil
	fn()
	t.blit()
	t.screen.Show()
}

// Close restores the terminal.
func (t *Terminal) Close() {
	t.dev.Close()
	t.screen.Fini()
}

// handleEvent returns false when the user asked to quit.
func (t *Terminal) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return false
		}

	case *tcell.EventMouse:
		cx, cy := ev.Position()
		// cell centre
		x, y := float64(cx)+0.5, float64(cy)+0.5
		for _, fn := range t.onMove {
			fn(x, y)
		}
		buttons := ev.Buttons()
		if buttons&tcell.Button1 != 0 && t.buttons&tcell.Button1 == 0 {
			for _, fn := range t.onClick {
				fn(x, y)
			}
		}
		t.buttons = buttons

	case *tcell.EventResize:
		t.screen.Sync()
		w, h := t.ViewportSize()
		for _, fn := range t.onResize {
			fn(w, h)
		}
	}
	return true
}

func (t *Terminal) blit() {
	cols, rows := t.screen.Size()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			top := t.dev.Pixel(x, y*2)
			bottom := t.dev.Pixel(x, y*2+1)
			style := tcell.StyleDefault.
				Foreground(rgb(top.R, top.G, top.B)).
				Background(rgb(bottom.R, bottom.G, bottom.B))
			t.screen.SetContent(x, y, halfBlock, nil, style)
		}
	}
}

func rgb(r, g, b float64) tcell.Color {
	return tcell.NewRGBColor(channel(r), channel(g), channel(b))
}

func channel(v float64) int32 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return int32(v*255 + 0.5)
}
