package backdrop

import (
	"math/rand/v2"

	"github.com/inertia-app/backdrop/internal/puddle"
)

// Source tells splash listeners what created an effect.
type Source int

const (
	SourceClick Source = iota
	SourceAmbient
	SourceManual
)

// Option configures a Renderer.
type Option func(*Renderer)

// WithRand sets the random source used for ambient effects.
func WithRand(rng *rand.Rand) Option {
	return func(r *Renderer) {
		r.rng = rng
	}
}

// WithShaders replaces the built-in program sources.
func WithShaders(vertex, fragment string) Option {
	return func(r *Renderer) {
		r.vertexSrc = vertex
		r.fragmentSrc = fragment
	}
}

// WithSplash registers fn to be called for every new effect.
func WithSplash(fn func(e puddle.Effect, src Source)) Option {
	return func(r *Renderer) {
		r.onSplash = append(r.onSplash, fn)
	}
}

// WithAmbient toggles the periodic ambient effects. Enabled by default.
func WithAmbient(enabled bool) Option {
	return func(r *Renderer) {
		r.ambient = enabled
	}
}

// WithDebug logs program setup details.
func WithDebug(enabled bool) Option {
	return func(r *Renderer) {
		r.debug = enabled
	}
}
