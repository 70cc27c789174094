/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package sound synthesizes the extraction game's audio cues.
package sound

import (
	"fmt"
	"math"
	"time"

	"github.com/Seednode/maboulbox/games/maboul"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

const SampleRate = beep.SampleRate(44100)

var Format = beep.Format{SampleRate: SampleRate, NumChannels: 2, Precision: 2}

const (
	buzzLength  = 400 * time.Millisecond
	buzzGlide   = 200 * time.Millisecond
	noteSpacing = 120 * time.Millisecond
	noteLength  = 250 * time.Millisecond

	buzzGain  = 0.4
	chimeGain = 0.2
	// Level each cue decays to, as an absolute gain.
	tailGain = 0.01
)

// C5 E5 G5 C6
var chimeNotes = []float64{523.25, 659.25, 783.99, 1046.50}

type wave func(phase float64) float64

func saw(phase float64) float64  { return 2 * (phase - 0.5) }
func sine(phase float64) float64 { return math.Sin(2 * math.Pi * phase) }

// distortion is a soft waveshaper; higher amounts clip harder.
func distortion(amount float64) func(float64) float64 {
	const deg = math.Pi / 180
	return func(x float64) float64 {
		return (3 + amount) * x * 20 * deg / (math.Pi + amount*math.Abs(x))
	}
}

// ramp moves exponentially from a to b over n samples, then holds b.
func ramp(a, b float64, i, n int) float64 {
	if i >= n || n <= 0 {
		return b
	}
	return a * math.Pow(b/a, float64(i)/float64(n))
}

// tone is an endless oscillator with an exponential pitch glide and a
// relative gain decay. Callers bound it with beep.Take.
type tone struct {
	wave     wave
	shape    func(float64) float64
	rate     beep.SampleRate
	from, to float64
	glide    int
	gainFrom float64
	gainTo   float64
	decay    int
	phase    float64
	pos      int
}

func (t *tone) sample() float64 {
	v := t.wave(t.phase)
	if t.shape != nil {
		v = t.shape(v)
	}
	v *= ramp(t.gainFrom, t.gainTo, t.pos, t.decay)

	freq := ramp(t.from, t.to, t.pos, t.glide)
	t.phase += freq / float64(t.rate)
	t.phase -= math.Floor(t.phase)
	t.pos++
	return v
}

func (t *tone) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		v := t.sample()
		samples[i][0] = v
		samples[i][1] = v
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// chord plays tones that start at staggered offsets and sums them.
type chord struct {
	voices  []*tone
	offsets []int
	length  int
	pos     int
}

func (c *chord) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		var v float64
		for k, voice := range c.voices {
			if c.pos >= c.offsets[k] && c.pos < c.offsets[k]+c.length {
				v += voice.sample()
			}
		}
		samples[i][0] = v
		samples[i][1] = v
		c.pos++
	}
	return len(samples), true
}

func (c *chord) Err() error { return nil }

// volume scales a stream linearly, in the shape beep's Volume effect expects.
func volume(s beep.Streamer, v float64) beep.Streamer {
	if v <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(v)}
}

// Buzz is a distorted sawtooth sliding from 150 Hz to 80 Hz.
func Buzz(rate beep.SampleRate) beep.Streamer {
	osc := &tone{
		wave:     saw,
		shape:    distortion(50),
		rate:     rate,
		from:     150,
		to:       80,
		glide:    rate.N(buzzGlide),
		gainFrom: 1,
		gainTo:   tailGain / buzzGain,
		decay:    rate.N(buzzLength),
	}
	return beep.Take(rate.N(buzzLength), volume(osc, buzzGain))
}

// Chime is a rising C major arpeggio.
func Chime(rate beep.SampleRate) beep.Streamer {
	c := &chord{length: rate.N(noteLength)}
	for i, freq := range chimeNotes {
		c.voices = append(c.voices, &tone{
			wave:     sine,
			rate:     rate,
			from:     freq,
			to:       freq,
			gainFrom: 1,
			gainTo:   tailGain / chimeGain,
			decay:    rate.N(noteLength),
		})
		c.offsets = append(c.offsets, rate.N(noteSpacing*time.Duration(i)))
	}
	return beep.Take(rate.N(Duration(maboul.SoundChime)), volume(c, chimeGain))
}

// Duration is how long a cue plays.
func Duration(s maboul.Sound) time.Duration {
	switch s {
	case maboul.SoundBuzz:
		return buzzLength
	case maboul.SoundChime:
		return noteSpacing*time.Duration(len(chimeNotes)-1) + noteLength
	}
	return 0
}

// Cue returns a fresh streamer for a named sound.
func Cue(s maboul.Sound, rate beep.SampleRate) (beep.Streamer, error) {
	switch s {
	case maboul.SoundBuzz:
		return Buzz(rate), nil
	case maboul.SoundChime:
		return Chime(rate), nil
	}
	return nil, fmt.Errorf("unknown sound %q", s)
}

// Names lists every cue that can be rendered.
func Names() []maboul.Sound {
	return []maboul.Sound{maboul.SoundBuzz, maboul.SoundChime}
}
