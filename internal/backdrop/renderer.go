package backdrop

import (
	"fmt"
	"log"
	"math/rand/v2"
	"time"

	"github.com/inertia-app/backdrop/internal/puddle"
	"github.com/inertia-app/backdrop/internal/shaders"
)

// Renderer owns the shader program and the interaction state.
type Renderer struct {
	host Host
	dev  Device

	vertexSrc   string
	fragmentSrc string
	program     Handle

	width, height int
	elapsed       float64
	frames        uint64
	pointer       [2]float32
	pool          puddle.Pool

	rng      *rand.Rand
	ambient  bool
	debug    bool
	onSplash []func(puddle.Effect, Source)
}

// New sets up a renderer on host and starts its frame loop.
//
// When the host has no rendering context a warning is logged and the returned
// renderer stays inert. When the program fails to build, the failure is
// logged and the loop keeps advancing state without drawing.
func New(host Host, opts ...Option) *Renderer {
	r := &Renderer{
		host:        host,
		vertexSrc:   shaders.Vertex,
		fragmentSrc: shaders.Fragment,
		pointer:     [2]float32{0.5, 0.5},
		ambient:     true,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.rng == nil {
		r.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	dev, err := host.Context()
	if err == nil && dev == nil {
		err = ErrNoContext
	}
	if err != nil {
		log.Printf("WARNING: background disabled: %v", err)
		return r
	}
	r.dev = dev

	r.Resize(host.ViewportSize())
	// Window managers often report the final size a moment after mapping.
	host.AfterFunc(ResizeSettle, func() {
		r.Resize(host.ViewportSize())
	})

	if err := r.setup(); err != nil {
		log.Printf("WARNING: %v", err)
	}

	host.OnResize(r.Resize)
	host.OnPointerMove(r.PointerMove)
	host.OnClick(r.Click)

	if r.ambient {
		r.scheduleAmbient()
	}
	host.RequestFrame(r.loop)
	return r
}

func (r *Renderer) setup() error {
	vs, err := r.dev.CompileShader(VertexStage, r.vertexSrc)
	if err != nil {
		return fmt.Errorf("compiling vertex shader: %w", err)
	}
	fs, err := r.dev.CompileShader(FragmentStage, r.fragmentSrc)
	if err != nil {
		r.dev.DeleteShader(vs)
		return fmt.Errorf("compiling fragment shader: %w", err)
	}

	program, err := r.dev.LinkProgram(vs, fs)
	r.dev.DeleteShader(vs)
	r.dev.DeleteShader(fs)
	if err != nil {
		if program != 0 {
			r.dev.DeleteProgram(program)
		}
		return fmt.Errorf("linking program: %w", err)
	}

	if err := r.dev.UploadQuad(Quad[:]); err != nil {
		r.dev.DeleteProgram(program)
		return fmt.Errorf("uploading quad: %w", err)
	}
	r.program = program

	if r.debug {
		log.Printf("Program %d ready, viewport %dx%d", program, r.width, r.height)
	}
	return nil
}

func (r *Renderer) loop() {
	r.Frame()
	r.host.RequestFrame(r.loop)
}

// Frame advances the state by one step and draws it.
// Hosts normally reach it through RequestFrame.
func (r *Renderer) Frame() {
	r.elapsed += TimeStep
	r.frames++
	r.pool.Decay(DecayRate)

	if r.dev == nil {
		return
	}
	r.dev.Clear(ClearColor)
	if r.program == 0 {
		return
	}
	u := r.Uniforms()
	r.dev.Draw(r.program, &u, QuadVertices)
}

// Resize updates the drawable and the resolution uniform.
func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.width, r.height = width, height
	if r.dev != nil {
		r.dev.Viewport(width, height)
	}
}

// PointerMove records the pointer position given in host coordinates.
func (r *Renderer) PointerMove(x, y float64) {
	if nx, ny, ok := r.normalize(x, y); ok {
		r.pointer = [2]float32{nx, ny}
	}
}

// Click adds a ripple where the user clicked.
func (r *Renderer) Click(x, y float64) {
	if nx, ny, ok := r.normalize(x, y); ok {
		r.addEffect(nx, ny, ClickIntensity, SourceClick)
	}
}

// AddEffect adds a ripple at a normalized position.
func (r *Renderer) AddEffect(x, y, intensity float32) {
	r.addEffect(x, y, intensity, SourceManual)
}

func (r *Renderer) addEffect(x, y, intensity float32, src Source) {
	slot := r.pool.Add(clamp01(x), clamp01(y), intensity, float32(r.elapsed))
	e := r.pool.At(slot)
	for _, fn := range r.onSplash {
		fn(e, src)
	}
}

// normalize maps host coordinates into [0,1]² with Y pointing up.
func (r *Renderer) normalize(x, y float64) (float32, float32, bool) {
	b := r.host.Bounds()
	if b.Width <= 0 || b.Height <= 0 {
		return 0, 0, false
	}
	nx := (x - b.X) / b.Width
	ny := 1 - (y-b.Y)/b.Height
	return clamp01(float32(nx)), clamp01(float32(ny)), true
}

func (r *Renderer) scheduleAmbient() {
	span := int64(AmbientMax - AmbientMin)
	d := AmbientMin + time.Duration(r.rng.Int64N(span))
	r.host.AfterFunc(d, func() {
		r.addEffect(r.rng.Float32(), r.rng.Float32(), AmbientIntensity, SourceAmbient)
		r.scheduleAmbient()
	})
}

// Uniforms returns the parameter block for the current state.
func (r *Renderer) Uniforms() Uniforms {
	u := Uniforms{
		Resolution: [2]float32{float32(r.width), float32(r.height)},
		Time:       float32(r.elapsed),
		Mouse:      r.pointer,
	}
	r.pool.Flatten(&u.Puddles)
	return u
}

// Elapsed returns the renderer time in seconds.
func (r *Renderer) Elapsed() float64 { return r.elapsed }

// Frames returns how many frames have run.
func (r *Renderer) Frames() uint64 { return r.frames }

// Pointer returns the normalized pointer position.
func (r *Renderer) Pointer() (x, y float32) { return r.pointer[0], r.pointer[1] }

// Effects returns a copy of the effect slots in order.
func (r *Renderer) Effects() []puddle.Effect { return r.pool.Snapshot() }

// ActiveEffects returns the number of visible ripples.
func (r *Renderer) ActiveEffects() int { return r.pool.ActiveCount() }

// Ready reports whether the program built and frames are being drawn.
func (r *Renderer) Ready() bool { return r.program != 0 }

// Inert reports whether the host had no rendering context.
func (r *Renderer) Inert() bool { return r.dev == nil }

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
