/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package maboul

import "time"

// Sound names a synthesized cue.
type Sound string

const (
	SoundNone  Sound = ""
	SoundBuzz  Sound = "buzz"
	SoundChime Sound = "chime"
)

// Feedback is the bundle of cues fired for a single game event.
type Feedback struct {
	Kind    EventKind     `json:"-"`
	Flash   time.Duration `json:"flash"`
	Vibrate time.Duration `json:"vibrate"`
	Sound   Sound         `json:"sound,omitempty"`
}

const (
	flashDuration   = 300 * time.Millisecond
	vibrateDuration = 300 * time.Millisecond
)

// FeedbackFor returns the cue bundle for an event kind, and false for
// kinds that carry no cues.
func FeedbackFor(kind EventKind) (Feedback, bool) {
	switch kind {
	case EventViolation:
		return Feedback{Kind: kind, Flash: flashDuration, Vibrate: vibrateDuration, Sound: SoundBuzz}, true
	case EventSolved:
		return Feedback{Kind: kind, Sound: SoundChime}, true
	}
	return Feedback{}, false
}

// Sink receives cue bundles. Implementations must return promptly and
// treat an unavailable device as a no-op.
type Sink interface {
	Cue(Feedback)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(Feedback)

func (f SinkFunc) Cue(fb Feedback) { f(fb) }

// Dispatcher fans cues out to every registered sink. A sink that panics
// is skipped and reported through Logf.
type Dispatcher struct {
	sinks []Sink
	Logf  func(format string, args ...any)
}

func NewDispatcher(sinks ...Sink) *Dispatcher {
	return &Dispatcher{sinks: sinks}
}

func (d *Dispatcher) Add(s Sink) {
	d.sinks = append(d.sinks, s)
}

func (d *Dispatcher) Fire(fb Feedback) {
	if d == nil {
		return
	}
	for _, s := range d.sinks {
		d.cue(s, fb)
	}
}

func (d *Dispatcher) cue(s Sink, fb Feedback) {
	defer func() {
		if r := recover(); r != nil && d.Logf != nil {
			d.Logf("feedback sink %T panicked: %v", s, r)
		}
	}()
	s.Cue(fb)
}
