/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package maboul

import (
	"fmt"
	"math"
	"time"
)

// Reward adds a time bonus of rate points for every second left in
// window to base. Elapsed times past the window earn no bonus.
func Reward(base int, elapsed, window time.Duration, rate float64) int {
	left := (window - elapsed).Seconds()
	bonus := int(math.Floor(left * rate))
	return base + max(0, bonus)
}

// Outcome is the result of one challenge within a session.
type Outcome struct {
	ChallengeID string        `json:"id"`
	Name        string        `json:"name"`
	Emoji       string        `json:"emoji"`
	Solved      bool          `json:"solved"`
	Failed      bool          `json:"failed"`
	Elapsed     time.Duration `json:"elapsed"`
	Reward      int           `json:"reward"`
	Attempts    int           `json:"attempts"`
}

// SessionScore accumulates outcomes. Each challenge contributes once.
type SessionScore struct {
	Points   int
	Elapsed  time.Duration
	Outcomes []Outcome
}

// Record adds an outcome. A second outcome for the same challenge is
// ignored and Record reports false.
func (s *SessionScore) Record(o Outcome) bool {
	for _, prev := range s.Outcomes {
		if prev.ChallengeID == o.ChallengeID {
			return false
		}
	}
	if o.Failed {
		o.Reward = 0
	}
	s.Outcomes = append(s.Outcomes, o)
	s.Points += o.Reward
	s.Elapsed += o.Elapsed
	return true
}

func (s *SessionScore) Solved() int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Solved {
			n++
		}
	}
	return n
}

func (s *SessionScore) Failed() int {
	return len(s.Outcomes) - s.Solved()
}

// FormatElapsed renders a duration as SS.mmms.
func FormatElapsed(d time.Duration) string {
	ms := d.Milliseconds()
	return fmt.Sprintf("%02d.%03ds", ms/1000, ms%1000)
}
