// Package glsurface implements the rendering device on an OpenGL 3.3 core
// context. A context must be current on the calling thread for every call.
package glsurface

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/inertia-app/backdrop/internal/backdrop"
	"github.com/inertia-app/backdrop/internal/shaders"
)

type uniformLocations struct {
	resolution int32
	time       int32
	mouse      int32
	puddles    int32
}

// Device is a backdrop.Device over go-gl.
type Device struct {
	vao, vbo  uint32
	count     int32
	locations map[backdrop.Handle]uniformLocations
	debug     bool
}

// New loads the GL function pointers for the current context.
func New(debug bool) (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("initializing OpenGL: %w", err)
	}
	if debug {
		log.Printf("OpenGL %s, GLSL %s, %s",
			gl.GoStr(gl.GetString(gl.VERSION)),
			gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)),
			gl.GoStr(gl.GetString(gl.RENDERER)))
	}

	gl.Enable(gl.MULTISAMPLE)
	gl.Disable(gl.DEPTH_TEST)

	return &Device{
		locations: make(map[backdrop.Handle]uniformLocations),
		debug:     debug,
	}, nil
}

func (d *Device) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (d *Device) CompileShader(stage backdrop.Stage, source string) (backdrop.Handle, error) {
	var kind uint32
	switch stage {
	case backdrop.VertexStage:
		kind = gl.VERTEX_SHADER
	case backdrop.FragmentStage:
		kind = gl.FRAGMENT_SHADER
	default:
		return 0, fmt.Errorf("unknown shader stage %d", stage)
	}

	shader := gl.CreateShader(kind)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		msg := shaderLog(shader, logLength)
		gl.DeleteShader(shader)
		if d.debug {
			log.Printf("Full %s shader source:\n%s", stage, source)
		}
		return 0, errors.New(msg)
	}
	return backdrop.Handle(shader), nil
}

func (d *Device) LinkProgram(vertex, fragment backdrop.Handle) (backdrop.Handle, error) {
	program := gl.CreateProgram()
	gl.AttachShader(program, uint32(vertex))
	gl.AttachShader(program, uint32(fragment))
	gl.BindAttribLocation(program, shaders.PositionAttrib, gl.Str("a_position\x00"))
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		msg := "link failed"
		if logLength > 0 {
			buf := make([]byte, logLength)
			gl.GetProgramInfoLog(program, logLength, nil, &buf[0])
			msg = strings.TrimRight(string(buf), "\x00\n")
		}
		return backdrop.Handle(program), errors.New(msg)
	}

	h := backdrop.Handle(program)
	d.locations[h] = uniformLocations{
		resolution: uniform(program, shaders.UniformResolution),
		time:       uniform(program, shaders.UniformTime),
		mouse:      uniform(program, shaders.UniformMouse),
		puddles:    uniform(program, shaders.UniformPuddles+"[0]"),
	}
	if d.debug {
		log.Printf("Uniform locations: %+v", d.locations[h])
	}
	return h, nil
}

func (d *Device) DeleteShader(h backdrop.Handle) {
	gl.DeleteShader(uint32(h))
}

func (d *Device) DeleteProgram(h backdrop.Handle) {
	delete(d.locations, h)
	gl.DeleteProgram(uint32(h))
}

func (d *Device) UploadQuad(vertices []float32) error {
	if len(vertices) == 0 || len(vertices)%2 != 0 {
		return fmt.Errorf("quad: %d floats is not a list of 2D vertices", len(vertices))
	}
	if d.vao == 0 {
		gl.GenVertexArrays(1, &d.vao)
		gl.GenBuffers(1, &d.vbo)
	}

	gl.BindVertexArray(d.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)
	gl.VertexAttribPointer(shaders.PositionAttrib, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(shaders.PositionAttrib)
	gl.BindVertexArray(0)

	d.count = int32(len(vertices) / 2)
	return nil
}

func (d *Device) Clear(c backdrop.Color) {
	gl.ClearColor(c.R, c.G, c.B, c.A)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (d *Device) Draw(program backdrop.Handle, u *backdrop.Uniforms, count int) {
	loc, ok := d.locations[program]
	if !ok || d.vao == 0 {
		return
	}
	gl.UseProgram(uint32(program))
	if loc.resolution >= 0 {
		gl.Uniform2f(loc.resolution, u.Resolution[0], u.Resolution[1])
	}
	if loc.time >= 0 {
		gl.Uniform1f(loc.time, u.Time)
	}
	if loc.mouse >= 0 {
		gl.Uniform2f(loc.mouse, u.Mouse[0], u.Mouse[1])
	}
	if loc.puddles >= 0 {
		gl.Uniform3fv(loc.puddles, int32(len(u.Puddles)/3), &u.Puddles[0])
	}

	gl.BindVertexArray(d.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, min(int32(count), d.count))
	gl.BindVertexArray(0)
}

// Release frees the quad buffers.
func (d *Device) Release() {
	if d.vao != 0 {
		gl.DeleteVertexArrays(1, &d.vao)
		gl.DeleteBuffers(1, &d.vbo)
		d.vao, d.vbo = 0, 0
	}
}

func uniform(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func shaderLog(shader uint32, length int32) string {
	if length <= 0 {
		return "compile failed"
	}
	buf := make([]byte, length)
	gl.GetShaderInfoLog(shader, length, nil, &buf[0])
	return strings.TrimRight(string(buf), "\x00\n")
}
