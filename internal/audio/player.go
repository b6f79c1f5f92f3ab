package audio

import (
	"fmt"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/inertia-app/backdrop/internal/backdrop"
	"github.com/inertia-app/backdrop/internal/puddle"
)

// SampleRate of the speaker.
const SampleRate = beep.SampleRate(44100)

// Player mixes drips onto the speaker.
type Player struct {
	mixer  *beep.Mixer
	volume float64
}

// NewPlayer opens the speaker. volume is linear in [0, 1].
func NewPlayer(volume float64) (*Player, error) {
	if err := speaker.Init(SampleRate, SampleRate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("initializing speaker: %w", err)
	}
	p := &Player{mixer: &beep.Mixer{}, volume: volume}
	speaker.Play(p.mixer)
	return p, nil
}

// Splash plays a drip for e. Ambient ripples are quieter than clicks since
// their intensity is lower.
func (p *Player) Splash(e puddle.Effect, _ backdrop.Source) {
	s := newVolume(NewDrip(SampleRate, float64(e.Y), float64(e.Intensity)), p.volume)
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// Close stops playback.
func (p *Player) Close() {
	speaker.Clear()
	speaker.Close()
}
