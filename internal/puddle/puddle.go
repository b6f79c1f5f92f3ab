// Package puddle holds the transient highlight effects drawn by the
// background shader.
//
// A Pool has a fixed number of slots. Effects fade by a constant amount per
// frame and are never removed; a slot whose intensity reaches zero is free
// and gets reused by the next Add.
package puddle

// Capacity is the number of effect slots the fragment shader reads.
const Capacity = 10

// floor absorbs float32 rounding left over when a fixed decay step does not
// land exactly on zero.
const floor = 1e-6

// Effect is a single expanding ring highlight.
type Effect struct {
	X, Y      float32 // normalized surface position
	Intensity float32 // in [0, 1]; <= 0 means the slot is free
	Born      float32 // renderer elapsed time at creation, in seconds
}

// Active reports whether the effect still contributes to the image.
func (e Effect) Active() bool {
	return e.Intensity > 0
}

// Pool is an ordered, fixed-capacity collection of effects.
// The zero value is an empty pool ready to use.
type Pool struct {
	effects []Effect
	order   []uint64 // insertion sequence per slot
	next    uint64
}

// Add stores a new effect and returns the slot it was written to.
//
// The first inactive slot is reused in place. With no inactive slot the
// effect is appended while the pool has room; once full, the earliest
// inserted entry is removed, later slots shift down and the new effect goes
// to the back. Reuse can put a newer effect in front of older ones, so the
// victim is picked by insertion order, not by position.
func (p *Pool) Add(x, y, intensity, born float32) int {
	e := Effect{X: x, Y: y, Intensity: clamp01(intensity), Born: born}
	seq := p.next
	p.next++

	for i := range p.effects {
		if !p.effects[i].Active() {
			p.effects[i] = e
			p.order[i] = seq
			return i
		}
	}

	if len(p.effects) < Capacity {
		p.effects = append(p.effects, e)
		p.order = append(p.order, seq)
		return len(p.effects) - 1
	}

	oldest := 0
	for i := range p.order {
		if p.order[i] < p.order[oldest] {
			oldest = i
		}
	}
	last := len(p.effects) - 1
	copy(p.effects[oldest:], p.effects[oldest+1:])
	copy(p.order[oldest:], p.order[oldest+1:])
	p.effects[last] = e
	p.order[last] = seq
	return last
}

// Decay lowers every active effect by rate, clamping at zero.
func (p *Pool) Decay(rate float32) {
	for i := range p.effects {
		e := &p.effects[i]
		if !e.Active() {
			continue
		}
		e.Intensity -= rate
		if e.Intensity < floor {
			e.Intensity = 0
		}
	}
}

// Len returns the number of occupied slots, active or not.
func (p *Pool) Len() int {
	return len(p.effects)
}

// At returns the effect stored in slot i.
func (p *Pool) At(i int) Effect {
	return p.effects[i]
}

// ActiveCount returns how many effects still have positive intensity.
func (p *Pool) ActiveCount() int {
	n := 0
	for _, e := range p.effects {
		if e.Active() {
			n++
		}
	}
	return n
}

// Snapshot returns a copy of the occupied slots in order.
func (p *Pool) Snapshot() []Effect {
	out := make([]Effect, len(p.effects))
	copy(out, p.effects)
	return out
}

// Flatten writes (x, y, intensity) triples for every slot into dst.
// Slots past Len are zero-filled.
func (p *Pool) Flatten(dst *[Capacity * 3]float32) {
	for i := 0; i < Capacity; i++ {
		if i < len(p.effects) {
			e := p.effects[i]
			dst[i*3] = e.X
			dst[i*3+1] = e.Y
			dst[i*3+2] = e.Intensity
			continue
		}
		dst[i*3] = 0
		dst[i*3+1] = 0
		dst[i*3+2] = 0
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
