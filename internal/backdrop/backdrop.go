// Package backdrop renders the animated background: a dark gradient with
// fading ripple highlights and a glow that follows the pointer.
//
// A Renderer never talks to a window system directly. It is driven by a Host,
// which supplies the rendering Device, input notifications, timers and the
// frame-synchronized callback. Every callback a Host delivers must arrive on
// the same goroutine; the Renderer holds no locks.
package backdrop

import (
	"errors"
	"time"

	"github.com/inertia-app/backdrop/internal/puddle"
)

// Renderer tuning. Time advances by a fixed step per frame regardless of the
// real frame interval.
const (
	TimeStep         = 0.016
	DecayRate        = 0.005
	ClickIntensity   = 0.5
	AmbientIntensity = 0.3
	AmbientMin       = 8 * time.Second
	AmbientMax       = 18 * time.Second
	ResizeSettle     = 100 * time.Millisecond
	QuadVertices     = 6
)

// ClearColor is written to the drawable before each draw.
var ClearColor = Color{R: 0.1, G: 0.2, B: 0.4, A: 1}

// Quad is the full-screen geometry: two clip-space triangles.
var Quad = [QuadVertices * 2]float32{
	-1, -1,
	1, -1,
	-1, 1,
	-1, 1,
	1, -1,
	1, 1,
}

// ErrNoContext is returned by hosts that cannot create an accelerated
// rendering context.
var ErrNoContext = errors.New("no rendering context available")

// Color is a linear RGBA colour with components in [0, 1].
type Color struct {
	R, G, B, A float32
}

// Rect is the on-screen area of the drawable in the units pointer events use.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Stage identifies a shader stage.
type Stage int

const (
	VertexStage Stage = iota
	FragmentStage
)

func (s Stage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	}
	return "unknown"
}

// Handle names a device-side shader or program object. Zero is never valid.
type Handle uint32

// Uniforms is the per-frame parameter block uploaded to the program.
type Uniforms struct {
	Resolution [2]float32
	Time       float32
	Mouse      [2]float32
	Puddles    [puddle.Capacity * 3]float32
}

// Device is the rendering backend a Host hands out.
type Device interface {
	// Viewport sets the drawable size in device pixels.
	Viewport(width, height int)
	// CompileShader returns the info log inside the error on failure.
	CompileShader(stage Stage, source string) (Handle, error)
	LinkProgram(vertex, fragment Handle) (Handle, error)
	DeleteShader(h Handle)
	DeleteProgram(h Handle)
	// UploadQuad stores the static vertex buffer (x, y pairs) used by Draw.
	UploadQuad(vertices []float32) error
	Clear(c Color)
	// Draw binds program, uploads u and draws count vertices of the quad.
	Draw(program Handle, u *Uniforms, count int)
}

// Host is the environment a Renderer runs in.
type Host interface {
	// Context returns the rendering device, or an error wrapping
	// ErrNoContext when none can be created.
	Context() (Device, error)
	// ViewportSize is the current drawable size in device pixels.
	ViewportSize() (width, height int)
	// Bounds is the drawable's on-screen rectangle in pointer coordinates.
	Bounds() Rect
	OnResize(fn func(width, height int))
	OnPointerMove(fn func(x, y float64))
	OnClick(fn func(x, y float64))
	// RequestFrame runs fn once, at the next frame boundary.
	RequestFrame(fn func())
	// AfterFunc runs fn once after d, on the render goroutine.
	AfterFunc(d time.Duration, fn func())
}
