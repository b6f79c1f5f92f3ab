// Package shaders embeds the GLSL sources of the background program.
package shaders

import _ "embed"

// Vertex passes the full-screen quad through in clip space.
//
//go:embed background.vert.glsl
var Vertex string

// Fragment draws the gradient, ripples, pointer glow and flow.
//
//go:embed background.frag.glsl
var Fragment string

// Uniform names read by Fragment.
const (
	UniformResolution = "u_resolution"
	UniformTime       = "u_time"
	UniformMouse      = "u_mouse"
	UniformPuddles    = "u_puddles"
)

// Uniforms lists every uniform the background program declares.
var Uniforms = []string{UniformResolution, UniformTime, UniformMouse, UniformPuddles}

// PositionAttrib is the vertex attribute location of the quad position.
const PositionAttrib = 0
