package softsurface

import (
	"bytes"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/inertia-app/backdrop/internal/backdrop"
	"github.com/inertia-app/backdrop/internal/headless"
)

func TestCompileRejectsMissingUniforms(t *testing.T) {
	d := New(4, 4)
	defer d.Close()

	if _, err := d.CompileShader(backdrop.FragmentStage, "void main() {}"); err == nil {
		t.Error("Expected an error for a fragment shader without uniforms")
	}
	if _, err := d.CompileShader(backdrop.VertexStage, "void main() { gl_Position = vec4(0.0); }"); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestLinkRequiresBothStages(t *testing.T) {
	d := New(4, 4)
	defer d.Close()

	vs, _ := d.CompileShader(backdrop.VertexStage, "void main() { gl_Position = vec4(0.0); }")
	if _, err := d.LinkProgram(vs, vs); err == nil {
		t.Error("Expected link to fail without a fragment shader")
	}
}

func TestClear(t *testing.T) {
	d := New(2, 2)
	defer d.Close()

	d.Clear(backdrop.ClearColor)
	p := d.Pixel(1, 1)
	if p.B < 0.39 || p.B > 0.41 || p.A != 1 {
		t.Errorf("Unexpected clear colour %+v", p)
	}
}

// TestRendererDrawsGradient runs the real program through the renderer
func TestRendererDrawsGradient(t *testing.T) {
	d := New(64, 48)
	defer d.Close()
	host := headless.New(d, 64, 48)
	r := backdrop.New(host, backdrop.WithAmbient(false))
	if !r.Ready() {
		t.Fatal("Renderer failed to build the program")
	}

	host.Step()
	if d.Draws() != 1 {
		t.Fatalf("Expected 1 draw, got %d", d.Draws())
	}

	top := d.Pixel(2, 0)
	bottom := d.Pixel(2, 47)
	if top.B <= bottom.B {
		t.Errorf("Expected the top row brighter: top %+v, bottom %+v", top, bottom)
	}
	// the clear colour is fully overwritten
	if top.B > 0.3 {
		t.Errorf("Clear colour left on screen: %+v", top)
	}
}

func TestResizeFollowsViewport(t *testing.T) {
	d := New(8, 8)
	defer d.Close()
	host := headless.New(d, 8, 8)
	backdrop.New(host, backdrop.WithAmbient(false))

	host.Resize(20, 10)
	host.Step()
	if w, h := d.Size(); w != 20 || h != 10 {
		t.Errorf("Expected 20x10, got %dx%d", w, h)
	}
}

func TestPNGOutput(t *testing.T) {
	d := New(16, 8)
	defer d.Close()
	host := headless.New(d, 16, 8)
	backdrop.New(host, backdrop.WithAmbient(false))
	host.Step()

	var buf bytes.Buffer
	if err := d.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 8 {
		t.Errorf("Unexpected bounds %v", b)
	}

	path := filepath.Join(t.TempDir(), "frame.png")
	if err := d.SavePNG(path); err != nil {
		t.Errorf("SavePNG: %v", err)
	}
}
