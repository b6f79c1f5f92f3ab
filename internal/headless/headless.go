// Package headless is a backdrop host without a window system. Time is
// virtual and frames run only when the caller steps the host, which makes
// it suitable for offscreen snapshots and tests.
package headless

import (
	"fmt"
	"time"

	"github.com/inertia-app/backdrop/internal/backdrop"
	"github.com/inertia-app/backdrop/internal/clock"
)

// FrameInterval is the virtual time between two frames.
const FrameInterval = time.Second / 60

// Host drives a backdrop.Renderer by hand.
type Host struct {
	dev           backdrop.Device
	width, height int
	scale         float64
	now           time.Time
	timers        *clock.Queue

	frame    func()
	onResize []func(int, int)
	onMove   []func(float64, float64)
	onClick  []func(float64, float64)
}

// New creates a host whose drawable is width×height device pixels.
// A nil device makes Context fail with backdrop.ErrNoContext.
func New(dev backdrop.Device, width, height int) *Host {
	h := &Host{
		dev:    dev,
		width:  width,
		height: height,
		scale:  1,
		now:    time.Unix(0, 0),
	}
	h.timers = clock.NewQueue(func() time.Time { return h.now })
	return h
}

// SetScale sets the ratio of device pixels to pointer units, like a
// window's content scale.
func (h *Host) SetScale(scale float64) {
	if scale > 0 {
		h.scale = scale
	}
}

func (h *Host) Context() (backdrop.Device, error) {
	if h.dev == nil {
		return nil, fmt.Errorf("headless: %w", backdrop.ErrNoContext)
	}
	return h.dev, nil
}

func (h *Host) ViewportSize() (int, int) { return h.width, h.height }

func (h *Host) Bounds() backdrop.Rect {
	return backdrop.Rect{Width: float64(h.width) / h.scale, Height: float64(h.height) / h.scale}
}

func (h *Host) OnResize(fn func(int, int))          { h.onResize = append(h.onResize, fn) }
func (h *Host) OnPointerMove(fn func(x, y float64)) { h.onMove = append(h.onMove, fn) }
func (h *Host) OnClick(fn func(x, y float64))       { h.onClick = append(h.onClick, fn) }
func (h *Host) RequestFrame(fn func())              { h.frame = fn }

func (h *Host) AfterFunc(d time.Duration, fn func()) { h.timers.AfterFunc(d, fn) }

// Pending reports how many timers are waiting.
func (h *Host) Pending() int { return h.timers.Pending() }

// Advance moves the virtual clock and fires the timers that became due.
func (h *Host) Advance(d time.Duration) {
	h.now = h.now.Add(d)
	h.timers.Run()
}

// Step advances one frame interval, fires due timers and runs the pending
// frame callback. It returns false when nothing requested a frame.
func (h *Host) Step() bool {
	h.Advance(FrameInterval)
	fn := h.frame
	if fn == nil {
		return false
	}
	h.frame = nil
	fn()
	return true
}

// Run steps n frames and returns how many actually ran.
func (h *Host) Run(n int) int {
	ran := 0
	for i := 0; i < n; i++ {
		if h.Step() {
			ran++
		}
	}
	return ran
}

// Resize changes the drawable size and notifies listeners.
func (h *Host) Resize(width, height int) {
	h.width, h.height = width, height
	for _, fn := range h.onResize {
		fn(width, height)
	}
}

// Move delivers a pointer move in pointer units.
func (h *Host) Move(x, y float64) {
	for _, fn := range h.onMove {
		fn(x, y)
	}
}

// Click delivers a primary button press in pointer units.
func (h *Host) Click(x, y float64) {
	for _, fn := range h.onClick {
		fn(x, y)
	}
}
