// Package shade evaluates the background fragment program on the CPU.
//
// It mirrors internal/shaders/background.frag.glsl term by term and backs the
// software device used for snapshots and the terminal. The value noise hash
// depends on sin precision, so results agree with a GPU only approximately.
package shade

import (
	"math"

	"github.com/inertia-app/backdrop/internal/backdrop"
	"github.com/inertia-app/backdrop/internal/puddle"
)

type vec3 [3]float64

var (
	color1 = vec3{0.05, 0.02, 0.08}
	color2 = vec3{0.08, 0.04, 0.12}
	color3 = vec3{0.12, 0.06, 0.18}

	rippleTint = vec3{0.2, 0.3, 0.4}
	glowTint   = vec3{0.15, 0.2, 0.3}
	flowTint   = vec3{0.1, 0.15, 0.2}
)

// Fragment returns the colour of the pixel whose centre is at (fx, fy) in
// window coordinates, origin bottom-left, like gl_FragCoord.
func Fragment(fx, fy float64, u *backdrop.Uniforms) (r, g, b float64) {
	rx, ry := float64(u.Resolution[0]), float64(u.Resolution[1])
	if rx <= 0 || ry <= 0 {
		return 0, 0, 0
	}
	sx, sy := fx/rx, fy/ry
	t := float64(u.Time)

	c := gradient(sy)

	n := noise(sx*12+t*0.05, sy*12+t*0.05) * 0.015
	c = c.add(vec3{n, n, n})

	sum := 0.0
	for i := 0; i < puddle.Capacity; i++ {
		px, py, in := float64(u.Puddles[i*3]), float64(u.Puddles[i*3+1]), float64(u.Puddles[i*3+2])
		if in > 0 {
			sum += ripple(sx, sy, px, py, in)
		}
	}
	c = c.add(rippleTint.scale(sum))

	glow := math.Exp(-distance(sx, sy, float64(u.Mouse[0]), float64(u.Mouse[1]))*12) * 0.03
	c = c.add(glowTint.scale(glow))

	flow := math.Sin(sx*2+t*0.2) * math.Cos(sy*1.5+t*0.15) * 0.008
	c = c.add(flowTint.scale(flow))

	return c[0], c[1], c[2]
}

func gradient(y float64) vec3 {
	g := y*0.7 + 0.3
	c := mix(color1, color2, g)
	return mix(c, color3, g*0.2)
}

func ripple(x, y, cx, cy, intensity float64) float64 {
	d := distance(x, y, cx, cy)
	radius := intensity * 1.5 * 0.2
	ring := (1 - smoothstep(0, radius, d)) * smoothstep(radius*0.9, radius, d)
	return ring * intensity * 0.05
}

func random(x, y float64) float64 {
	return fract(math.Sin(x*12.9898+y*78.233) * 43758.5453123)
}

func noise(x, y float64) float64 {
	ix, iy := math.Floor(x), math.Floor(y)
	fx, fy := x-ix, y-iy

	a := random(ix, iy)
	b := random(ix+1, iy)
	c := random(ix, iy+1)
	d := random(ix+1, iy+1)

	ux := fx * fx * (3 - 2*fx)
	uy := fy * fy * (3 - 2*fy)
	return lerp(a, b, ux) + (c-a)*uy*(1-ux) + (d-b)*ux*uy
}

func smoothstep(edge0, edge1, x float64) float64 {
	if edge0 == edge1 {
		// GLSL leaves this undefined; treat it as a step.
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := clamp((x-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}

func distance(x0, y0, x1, y1 float64) float64 {
	return math.Hypot(x1-x0, y1-y0)
}

func fract(v float64) float64 { return v - math.Floor(v) }

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

func mix(a, b vec3, t float64) vec3 {
	return vec3{lerp(a[0], b[0], t), lerp(a[1], b[1], t), lerp(a[2], b[2], t)}
}

func (v vec3) add(o vec3) vec3 { return vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]} }

func (v vec3) scale(s float64) vec3 { return vec3{v[0] * s, v[1] * s, v[2] * s} }

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
