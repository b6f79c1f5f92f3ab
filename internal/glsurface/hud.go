package glsurface

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/inertia-app/backdrop/internal/backdrop"
)

const hudVertexSource = `
#version 330 core
layout(location = 0) in vec2 aPos;
layout(location = 1) in vec2 aTexCoord;
out vec2 TexCoord;
uniform mat4 projection;

void main() {
    gl_Position = projection * vec4(aPos, 0.0, 1.0);
    TexCoord = aTexCoord;
}`

const hudFragmentSource = `
#version 330 core
in vec2 TexCoord;
out vec4 FragColor;
uniform sampler2D textTexture;
uniform vec3 textColor;

void main() {
    FragColor = vec4(textColor, texture(textTexture, TexCoord).r);
}`

const (
	hudLineHeight = 13
	hudPadding    = 4
)

// HUD draws a few lines of debug text in the top left corner.
type HUD struct {
	dev        *Device
	program    uint32
	vao, vbo   uint32
	texture    uint32
	projection int32
	textColor  int32
}

// NewHUD builds the text program on dev's context.
func NewHUD(dev *Device) (*HUD, error) {
	vs, err := dev.CompileShader(backdrop.VertexStage, hudVertexSource)
	if err != nil {
		return nil, fmt.Errorf("hud vertex shader: %w", err)
	}
	fs, err := dev.CompileShader(backdrop.FragmentStage, hudFragmentSource)
	if err != nil {
		dev.DeleteShader(vs)
		return nil, fmt.Errorf("hud fragment shader: %w", err)
	}
	program, err := dev.LinkProgram(vs, fs)
	dev.DeleteShader(vs)
	dev.DeleteShader(fs)
	if err != nil {
		dev.DeleteProgram(program)
		return nil, fmt.Errorf("hud program: %w", err)
	}

	h := &HUD{dev: dev, program: uint32(program)}
	h.projection = gl.GetUniformLocation(h.program, gl.Str("projection\x00"))
	h.textColor = gl.GetUniformLocation(h.program, gl.Str("textColor\x00"))

	gl.GenVertexArrays(1, &h.vao)
	gl.GenBuffers(1, &h.vbo)
	gl.BindVertexArray(h.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, h.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, 6*4*4, nil, gl.DYNAMIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 4*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, 4*4, gl.PtrOffset(2*4))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	gl.GenTextures(1, &h.texture)
	gl.BindTexture(gl.TEXTURE_2D, h.texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return h, nil
}

// Render draws lines over a viewport of width×height pixels.
func (h *HUD) Render(lines []string, width, height int) {
	if len(lines) == 0 || width <= 0 || height <= 0 {
		return
	}
	img := rasterize(lines)
	w := float32(img.Bounds().Dx())
	ht := float32(img.Bounds().Dy())
	x, y := float32(hudPadding), float32(hudPadding)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.BindTexture(gl.TEXTURE_2D, h.texture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RED, int32(w), int32(ht), 0, gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))

	// top-left origin, Y down
	projection := mgl32.Ortho(0, float32(width), float32(height), 0, -1, 1)
	vertices := [24]float32{
		x, y + ht, 0, 1,
		x, y, 0, 0,
		x + w, y, 1, 0,
		x, y + ht, 0, 1,
		x + w, y, 1, 0,
		x + w, y + ht, 1, 1,
	}

	gl.UseProgram(h.program)
	gl.UniformMatrix4fv(h.projection, 1, false, &projection[0])
	gl.Uniform3f(h.textColor, 1, 1, 1)

	gl.BindVertexArray(h.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, h.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(vertices)*4, gl.Ptr(&vertices[0]))
	gl.ActiveTexture(gl.TEXTURE0)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)

	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.Disable(gl.BLEND)
}

// Release frees the HUD's GL objects.
func (h *HUD) Release() {
	gl.DeleteTextures(1, &h.texture)
	gl.DeleteBuffers(1, &h.vbo)
	gl.DeleteVertexArrays(1, &h.vao)
	h.dev.DeleteProgram(backdrop.Handle(h.program))
}

// rasterize renders lines in basicfont into a single channel image sized to
// fit the longest line.
func rasterize(lines []string) *image.Gray {
	face := basicfont.Face7x13
	width := 0
	for _, l := range lines {
		if n := font.MeasureString(face, l).Ceil(); n > width {
			width = n
		}
	}
	img := image.NewGray(image.Rect(0, 0, max(width, 1), len(lines)*hudLineHeight))
	draw.Draw(img, img.Bounds(), image.Black, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
	}
	for i, l := range lines {
		d.Dot = fixed.P(0, i*hudLineHeight+face.Ascent)
		d.DrawString(l)
	}
	return img
}
