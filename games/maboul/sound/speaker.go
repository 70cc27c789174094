/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package sound

import (
	"time"

	"github.com/Seednode/maboulbox/games/maboul"
	"github.com/gopxl/beep/speaker"
)

// Speaker plays cues on the local audio device.
type Speaker struct {
	logf func(format string, args ...any)
}

// OpenSpeaker initializes the audio device. It fails on machines without
// one; callers then simply run without sound.
func OpenSpeaker(logf func(format string, args ...any)) (*Speaker, error) {
	if err := speaker.Init(SampleRate, SampleRate.N(100*time.Millisecond)); err != nil {
		return nil, err
	}
	return &Speaker{logf: logf}, nil
}

func (s *Speaker) Cue(fb maboul.Feedback) {
	if fb.Sound == maboul.SoundNone {
		return
	}
	stream, err := Cue(fb.Sound, SampleRate)
	if err != nil {
		if s.logf != nil {
			s.logf("AUDIO: %v", err)
		}
		return
	}
	speaker.Play(stream)
}

func (s *Speaker) Close() {
	speaker.Close()
}
