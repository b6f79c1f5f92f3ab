// Package softsurface is a CPU rendering device backed by a gg drawing
// context. It runs the background program through package shade, one pixel
// at a time.
package softsurface

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/gogpu/gg"

	"github.com/inertia-app/backdrop/internal/backdrop"
	"github.com/inertia-app/backdrop/internal/shade"
	"github.com/inertia-app/backdrop/internal/shaders"
)

type object struct {
	stage   backdrop.Stage
	program bool
}

// Device implements backdrop.Device on a gg.Context.
type Device struct {
	dc      *gg.Context
	next    backdrop.Handle
	objects map[backdrop.Handle]object
	quad    int
	draws   int
}

// New creates a device with a width×height pixel buffer.
func New(width, height int) *Device {
	return &Device{
		dc:      gg.NewContext(max(width, 1), max(height, 1)),
		objects: make(map[backdrop.Handle]object),
	}
}

func (d *Device) Viewport(width, height int) {
	if err := d.dc.Resize(width, height); err != nil {
		log.Printf("WARNING: software surface: %v", err)
	}
}

// CompileShader checks that source declares what the CPU program needs.
// The GLSL itself is not executed.
func (d *Device) CompileShader(stage backdrop.Stage, source string) (backdrop.Handle, error) {
	var missing []string
	if !strings.Contains(source, "void main") {
		missing = append(missing, "main")
	}
	switch stage {
	case backdrop.VertexStage:
		if !strings.Contains(source, "gl_Position") {
			missing = append(missing, "gl_Position")
		}
	case backdrop.FragmentStage:
		for _, name := range shaders.Uniforms {
			if !strings.Contains(source, name) {
				missing = append(missing, name)
			}
		}
	default:
		return 0, fmt.Errorf("unknown shader stage %d", stage)
	}
	if len(missing) > 0 {
		return 0, fmt.Errorf("%s shader: undeclared %s", stage, strings.Join(missing, ", "))
	}
	return d.alloc(object{stage: stage}), nil
}

func (d *Device) LinkProgram(vertex, fragment backdrop.Handle) (backdrop.Handle, error) {
	vs, ok := d.objects[vertex]
	if !ok || vs.program || vs.stage != backdrop.VertexStage {
		return 0, errors.New("link: no vertex shader attached")
	}
	fs, ok := d.objects[fragment]
	if !ok || fs.program || fs.stage != backdrop.FragmentStage {
		return 0, errors.New("link: no fragment shader attached")
	}
	return d.alloc(object{program: true}), nil
}

func (d *Device) DeleteShader(h backdrop.Handle)  { delete(d.objects, h) }
func (d *Device) DeleteProgram(h backdrop.Handle) { delete(d.objects, h) }

func (d *Device) UploadQuad(vertices []float32) error {
	if len(vertices) != backdrop.QuadVertices*2 {
		return fmt.Errorf("quad: expected %d floats, got %d", backdrop.QuadVertices*2, len(vertices))
	}
	d.quad = len(vertices) / 2
	return nil
}

func (d *Device) Clear(c backdrop.Color) {
	d.dc.ClearWithColor(gg.RGBA2(float64(c.R), float64(c.G), float64(c.B), float64(c.A)))
}

// Draw shades every pixel. The quad covers the whole viewport, so count
// only needs to match the uploaded geometry.
func (d *Device) Draw(program backdrop.Handle, u *backdrop.Uniforms, count int) {
	if o, ok := d.objects[program]; !ok || !o.program || count != d.quad {
		return
	}
	w, h := d.dc.Width(), d.dc.Height()
	for py := 0; py < h; py++ {
		// gl_FragCoord has its origin at the bottom left
		fy := float64(h-py) - 0.5
		for px := 0; px < w; px++ {
			r, g, b := shade.Fragment(float64(px)+0.5, fy, u)
			d.dc.SetPixel(px, py, gg.RGB(r, g, b))
		}
	}
	d.draws++
}

// Draws returns how many draws reached the pixel buffer.
func (d *Device) Draws() int { return d.draws }

// Size returns the pixel buffer dimensions.
func (d *Device) Size() (int, int) { return d.dc.Width(), d.dc.Height() }

// Pixel returns the colour at (x, y), origin top left.
func (d *Device) Pixel(x, y int) gg.RGBA { return d.dc.ResizeTarget().GetPixel(x, y) }

// SavePNG writes the pixel buffer to path.
func (d *Device) SavePNG(path string) error { return d.dc.SavePNG(path) }

// EncodePNG writes the pixel buffer as PNG to w.
func (d *Device) EncodePNG(w io.Writer) error { return d.dc.EncodePNG(w) }

func (d *Device) Close() error { return d.dc.Close() }

func (d *Device) alloc(o object) backdrop.Handle {
	d.next++
	d.objects[d.next] = o
	return d.next
}
