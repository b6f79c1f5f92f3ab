// Package audio plays a short water drip for every new ripple.
package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

const (
	dripDuration = 180 * time.Millisecond
	dripBaseFreq = 520.0
	dripSpread   = 640.0 // added at the top of the surface
	dripGlide    = 1.6   // end frequency relative to start
	dripDecay    = 22.0  // amplitude e-folds per second
)

// drip is a sine whose pitch rises while its amplitude decays, the usual
// synthetic "bloop" of a drop hitting water.
type drip struct {
	rate     beep.SampleRate
	freq     float64
	amp      float64
	phase    float64
	position int
	duration int
}

// NewDrip returns a drip pitched by height (0 bottom, 1 top) and scaled by
// intensity.
func NewDrip(rate beep.SampleRate, height, intensity float64) beep.Streamer {
	height = math.Max(0, math.Min(1, height))
	return &drip{
		rate:     rate,
		freq:     dripBaseFreq + height*dripSpread,
		amp:      math.Max(0, math.Min(1, intensity)),
		duration: rate.N(dripDuration),
	}
}

func (d *drip) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if d.position >= d.duration {
			return i, i > 0
		}
		t := float64(d.position) / float64(d.rate)
		progress := float64(d.position) / float64(d.duration)

		val := math.Sin(2*math.Pi*d.phase) * d.amp * math.Exp(-t*dripDecay)
		samples[i][0] = val
		samples[i][1] = val

		freq := d.freq * (1 + (dripGlide-1)*progress)
		d.phase += freq / float64(d.rate)
		d.phase -= math.Floor(d.phase)
		d.position++
	}
	return len(samples), true
}

func (d *drip) Err() error { return nil }

// newVolume applies a linear volume in [0, 1]. Zero is silent since
// log2(0) is -Inf.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
