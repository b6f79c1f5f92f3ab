package backdrop_test

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/inertia-app/backdrop/internal/backdrop"
	"github.com/inertia-app/backdrop/internal/headless"
	"github.com/inertia-app/backdrop/internal/puddle"
)

// fakeDevice records the calls a Renderer makes
type fakeDevice struct {
	next      backdrop.Handle
	failStage map[backdrop.Stage]bool
	failLink  bool

	viewports [][2]int
	deleted   []backdrop.Handle
	quad      []float32
	clears    int
	draws     int
	last      backdrop.Uniforms
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{failStage: map[backdrop.Stage]bool{}}
}

func (d *fakeDevice) Viewport(w, h int) { d.viewports = append(d.viewports, [2]int{w, h}) }

func (d *fakeDevice) CompileShader(stage backdrop.Stage, source string) (backdrop.Handle, error) {
	if d.failStage[stage] {
		return 0, errors.New("0:1(1): error: syntax error")
	}
	d.next++
	return d.next, nil
}

func (d *fakeDevice) LinkProgram(vs, fs backdrop.Handle) (backdrop.Handle, error) {
	d.next++
	if d.failLink {
		return d.next, errors.New("link error")
	}
	return d.next, nil
}

func (d *fakeDevice) DeleteShader(h backdrop.Handle)  { d.deleted = append(d.deleted, h) }
func (d *fakeDevice) DeleteProgram(h backdrop.Handle) { d.deleted = append(d.deleted, h) }

func (d *fakeDevice) UploadQuad(v []float32) error {
	d.quad = append([]float32(nil), v...)
	return nil
}

func (d *fakeDevice) Clear(backdrop.Color) { d.clears++ }

func (d *fakeDevice) Draw(program backdrop.Handle, u *backdrop.Uniforms, count int) {
	if count != backdrop.QuadVertices {
		panic("unexpected vertex count")
	}
	d.draws++
	d.last = *u
}

func newRenderer(t *testing.T, w, h int, opts ...backdrop.Option) (*backdrop.Renderer, *headless.Host, *fakeDevice) {
	t.Helper()
	dev := newFakeDevice()
	host := headless.New(dev, w, h)
	opts = append([]backdrop.Option{backdrop.WithAmbient(false)}, opts...)
	return backdrop.New(host, opts...), host, dev
}

// TestTimeAdvancesPerFrame checks 100 frames move time by 1.6s with no effects
func TestTimeAdvancesPerFrame(t *testing.T) {
	r, host, dev := newRenderer(t, 800, 600)
	if !r.Ready() {
		t.Fatal("Renderer not ready")
	}

	if ran := host.Run(100); ran != 100 {
		t.Fatalf("Expected 100 frames, ran %d", ran)
	}
	if math.Abs(r.Elapsed()-1.6) > 1e-9 {
		t.Errorf("Expected elapsed 1.6, got %v", r.Elapsed())
	}
	if dev.draws != 100 || dev.clears != 100 {
		t.Errorf("Expected 100 clears and draws, got %d and %d", dev.clears, dev.draws)
	}
	for i, v := range dev.last.Puddles {
		if v != 0 {
			t.Fatalf("Puddle component %d = %v, want 0", i, v)
		}
	}
	if math.Abs(float64(dev.last.Time)-1.6) > 1e-5 {
		t.Errorf("Expected time uniform 1.6, got %v", dev.last.Time)
	}
}

// TestClickCreatesFadingEffect checks a center click fades out in 100 frames
func TestClickCreatesFadingEffect(t *testing.T) {
	r, host, _ := newRenderer(t, 800, 600)
	host.Run(10)

	host.Click(400, 300)
	effects := r.Effects()
	if len(effects) != 1 {
		t.Fatalf("Expected 1 effect, got %d", len(effects))
	}
	e := effects[0]
	if e.X != 0.5 || e.Y != 0.5 || e.Intensity != backdrop.ClickIntensity {
		t.Errorf("Unexpected effect %+v", e)
	}
	if math.Abs(float64(e.Born)-r.Elapsed()) > 1e-6 {
		t.Errorf("Expected Born %v, got %v", r.Elapsed(), e.Born)
	}

	host.Run(99)
	if r.ActiveEffects() != 1 {
		t.Errorf("Effect expired too early")
	}
	host.Run(1)
	if got := r.Effects()[0].Intensity; got != 0 {
		t.Errorf("Expected intensity 0 after 100 frames, got %v", got)
	}
}

// TestEleventhClickEvictsFirst verifies FIFO eviction through the click path
func TestEleventhClickEvictsFirst(t *testing.T) {
	r, host, _ := newRenderer(t, 1000, 1000)
	for i := 0; i < puddle.Capacity+1; i++ {
		host.Click(float64(i*50), 500)
	}

	effects := r.Effects()
	if len(effects) != puddle.Capacity {
		t.Fatalf("Expected %d effects, got %d", puddle.Capacity, len(effects))
	}
	for _, e := range effects {
		if e.X == 0 {
			t.Errorf("First click still present: %+v", e)
		}
	}
	if got := effects[puddle.Capacity-1].X; got != 0.5 {
		t.Errorf("Expected newest effect at x=0.5, got %v", got)
	}
}

// TestEvictionAfterExpiredClick checks a click that reused a free slot is not
// the next one evicted
func TestEvictionAfterExpiredClick(t *testing.T) {
	r, host, _ := newRenderer(t, 1000, 1000)
	xOf := func(k int) float32 { return float32(float64(k*50) / 1000) }

	host.Click(50, 500)
	host.Run(50)
	for k := 2; k <= puddle.Capacity; k++ {
		host.Click(float64(k*50), 500)
	}
	host.Run(50)
	if got := r.ActiveEffects(); got != puddle.Capacity-1 {
		t.Fatalf("Expected the first click to expire, %d still active", got)
	}

	host.Click(11*50, 500)
	if got := r.Effects()[0].X; got != xOf(11) {
		t.Fatalf("Expected click 11 in the freed slot 0, got x=%v", got)
	}
	host.Click(12*50, 500)

	present := map[float32]bool{}
	for _, e := range r.Effects() {
		present[e.X] = true
	}
	if present[xOf(2)] {
		t.Errorf("Oldest active click survived eviction")
	}
	for k := 3; k <= 12; k++ {
		if !present[xOf(k)] {
			t.Errorf("Click %d was evicted", k)
		}
	}
}

// TestClickClampedToSurface verifies clicks outside the bounds land on the edge
func TestClickClampedToSurface(t *testing.T) {
	tests := []struct {
		name   string
		x, y   float64
		wx, wy float32
	}{
		{"left of surface", -120, 300, 0, 0.5},
		{"below surface", 400, 700, 0.5, 0},
		{"above and right", 5000, -5000, 1, 1},
	}

	for _, tt := range tests {
		r, host, _ := newRenderer(t, 800, 600)
		host.Click(tt.x, tt.y)
		effects := r.Effects()
		if len(effects) != 1 {
			t.Fatalf("%s: expected 1 effect, got %d", tt.name, len(effects))
		}
		e := effects[0]
		if e.X < 0 || e.X > 1 || e.Y < 0 || e.Y > 1 {
			t.Errorf("%s: effect (%v, %v) outside the unit square", tt.name, e.X, e.Y)
		}
		if e.X != tt.wx || e.Y != tt.wy {
			t.Errorf("%s: effect (%v, %v), want (%v, %v)", tt.name, e.X, e.Y, tt.wx, tt.wy)
		}
	}
}

func TestResizeUpdatesResolution(t *testing.T) {
	r, host, dev := newRenderer(t, 800, 600)
	host.Step()
	if dev.last.Resolution != [2]float32{800, 600} {
		t.Fatalf("Expected 800x600, got %v", dev.last.Resolution)
	}

	host.Resize(1920, 1080)
	host.Step()
	if dev.last.Resolution != [2]float32{1920, 1080} {
		t.Errorf("Expected 1920x1080, got %v", dev.last.Resolution)
	}
	if got := dev.viewports[len(dev.viewports)-1]; got != [2]int{1920, 1080} {
		t.Errorf("Expected device viewport 1920x1080, got %v", got)
	}
	if u := r.Uniforms(); u.Resolution != [2]float32{1920, 1080} {
		t.Errorf("Uniforms out of date: %v", u.Resolution)
	}
}

// TestResizeSettles verifies the viewport is read again after the settle delay
func TestResizeSettles(t *testing.T) {
	_, host, dev := newRenderer(t, 800, 600)
	if len(dev.viewports) != 1 {
		t.Fatalf("Expected 1 viewport call during setup, got %d", len(dev.viewports))
	}
	host.Advance(backdrop.ResizeSettle)
	if len(dev.viewports) != 2 {
		t.Errorf("Expected a second viewport call, got %d", len(dev.viewports))
	}
}

func TestPointerNormalization(t *testing.T) {
	tests := []struct {
		name   string
		x, y   float64
		wx, wy float32
	}{
		{"center", 400, 300, 0.5, 0.5},
		{"top left", 0, 0, 0, 1},
		{"upper quarter", 400, 150, 0.5, 0.75},
		{"outside left and below", -50, 900, 0, 0},
		{"outside right and above", 1200, -10, 1, 1},
	}

	r, host, _ := newRenderer(t, 800, 600)
	if x, y := r.Pointer(); x != 0.5 || y != 0.5 {
		t.Fatalf("Expected initial pointer (0.5, 0.5), got (%v, %v)", x, y)
	}
	for _, tt := range tests {
		host.Move(tt.x, tt.y)
		x, y := r.Pointer()
		if x != tt.wx || y != tt.wy {
			t.Errorf("%s: pointer (%v, %v), want (%v, %v)", tt.name, x, y, tt.wx, tt.wy)
		}
	}
}

// TestPointerUsesBoundsNotPixels checks HiDPI scaling does not skew positions
func TestPointerUsesBoundsNotPixels(t *testing.T) {
	dev := newFakeDevice()
	host := headless.New(dev, 1600, 1200)
	host.SetScale(2)
	r := backdrop.New(host, backdrop.WithAmbient(false))

	host.Move(400, 300)
	if x, y := r.Pointer(); x != 0.5 || y != 0.5 {
		t.Errorf("Expected (0.5, 0.5), got (%v, %v)", x, y)
	}
}

// TestInertWithoutContext verifies a missing context never starts the loop
func TestInertWithoutContext(t *testing.T) {
	host := headless.New(nil, 800, 600)
	r := backdrop.New(host)

	if !r.Inert() || r.Ready() {
		t.Fatalf("Expected inert renderer")
	}
	if host.Step() {
		t.Error("Inert renderer requested a frame")
	}
	if host.Pending() != 0 {
		t.Errorf("Inert renderer scheduled %d timers", host.Pending())
	}
	host.Click(10, 10)
	if len(r.Effects()) != 0 {
		t.Error("Inert renderer accepted input")
	}
}

// TestCompileFailureSkipsDraws verifies state advances while nothing is drawn
func TestCompileFailureSkipsDraws(t *testing.T) {
	dev := newFakeDevice()
	dev.failStage[backdrop.FragmentStage] = true
	host := headless.New(dev, 800, 600)
	r := backdrop.New(host, backdrop.WithAmbient(false))

	if r.Ready() {
		t.Fatal("Expected renderer without a program")
	}
	if len(dev.deleted) != 1 || dev.deleted[0] != 1 {
		t.Errorf("Expected the vertex shader to be released, deleted %v", dev.deleted)
	}

	host.Click(400, 300)
	host.Run(10)
	if dev.draws != 0 {
		t.Errorf("Expected no draws, got %d", dev.draws)
	}
	if math.Abs(r.Elapsed()-0.16) > 1e-9 {
		t.Errorf("Expected elapsed 0.16, got %v", r.Elapsed())
	}
	if got := r.Effects()[0].Intensity; math.Abs(float64(got)-0.45) > 1e-5 {
		t.Errorf("Expected decayed intensity 0.45, got %v", got)
	}
}

func TestLinkFailureReleasesProgram(t *testing.T) {
	dev := newFakeDevice()
	dev.failLink = true
	r := backdrop.New(headless.New(dev, 800, 600), backdrop.WithAmbient(false))

	if r.Ready() {
		t.Fatal("Expected renderer without a program")
	}
	// two shaders and the program
	if len(dev.deleted) != 3 {
		t.Errorf("Expected 3 released objects, got %v", dev.deleted)
	}
	if dev.quad != nil {
		t.Error("Quad uploaded despite link failure")
	}
}

// TestAmbientEffects checks ambient ripples arrive within the interval and renew
func TestAmbientEffects(t *testing.T) {
	var sources []backdrop.Source
	dev := newFakeDevice()
	host := headless.New(dev, 800, 600)
	r := backdrop.New(host,
		backdrop.WithRand(rand.New(rand.NewPCG(1, 2))),
		backdrop.WithSplash(func(e puddle.Effect, src backdrop.Source) {
			sources = append(sources, src)
		}),
	)

	host.Advance(backdrop.AmbientMin - 1)
	if len(r.Effects()) != 0 {
		t.Fatal("Ambient effect fired before the minimum interval")
	}

	host.Advance(backdrop.AmbientMax - backdrop.AmbientMin + 1)
	effects := r.Effects()
	if len(effects) != 1 {
		t.Fatalf("Expected 1 ambient effect, got %d", len(effects))
	}
	if effects[0].Intensity != backdrop.AmbientIntensity {
		t.Errorf("Expected intensity %v, got %v", backdrop.AmbientIntensity, effects[0].Intensity)
	}

	host.Advance(backdrop.AmbientMax)
	if got := len(r.Effects()); got != 2 {
		t.Errorf("Expected the ambient timer to renew, got %d effects", got)
	}
	for _, src := range sources {
		if src != backdrop.SourceAmbient {
			t.Errorf("Unexpected source %v", src)
		}
	}
}

func TestUniformsFlattenEffects(t *testing.T) {
	r, host, dev := newRenderer(t, 800, 600)
	r.AddEffect(0.25, 0.75, 0.8)
	host.Step()

	got := dev.last.Puddles
	if got[0] != 0.25 || got[1] != 0.75 || math.Abs(float64(got[2])-0.795) > 1e-6 {
		t.Errorf("Unexpected first slot %v", got[:3])
	}
	if got[3] != 0 || got[5] != 0 {
		t.Errorf("Expected zero fill, got %v", got[3:6])
	}
	if dev.last.Mouse != [2]float32{0.5, 0.5} {
		t.Errorf("Expected default mouse, got %v", dev.last.Mouse)
	}
}

func TestQuadUploaded(t *testing.T) {
	_, _, dev := newRenderer(t, 800, 600)
	if len(dev.quad) != backdrop.QuadVertices*2 {
		t.Errorf("Expected %d floats, got %d", backdrop.QuadVertices*2, len(dev.quad))
	}
}
