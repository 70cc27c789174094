/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package maboul

// Phase is where a challenge stands in its attempt lifecycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseActive
	PhaseSolved
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseActive:
		return "active"
	case PhaseSolved:
		return "solved"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}

// Attempts counts wall contacts against a ceiling. After a counted
// contact it stays cooling until CooldownOver, and ignores contacts
// in the meantime.
type Attempts struct {
	used    int
	ceiling int
	phase   Phase
	cooling bool
}

func NewAttempts(ceiling int) *Attempts {
	return &Attempts{ceiling: max(1, ceiling)}
}

func (a *Attempts) Phase() Phase   { return a.phase }
func (a *Attempts) Used() int      { return a.used }
func (a *Attempts) Ceiling() int   { return a.ceiling }
func (a *Attempts) Remaining() int { return a.ceiling - a.used }
func (a *Attempts) Cooling() bool  { return a.cooling }

func (a *Attempts) Terminal() bool {
	return a.phase == PhaseSolved || a.phase == PhaseFailed
}

// Begin moves Idle to Active. It reports whether the phase changed.
func (a *Attempts) Begin() bool {
	if a.phase != PhaseIdle {
		return false
	}
	a.phase = PhaseActive
	return true
}

// Violation records a wall contact and reports whether it was counted.
func (a *Attempts) Violation() bool {
	if a.phase != PhaseActive || a.cooling {
		return false
	}
	a.used++
	a.cooling = true
	if a.used >= a.ceiling {
		a.phase = PhaseFailed
	}
	return true
}

func (a *Attempts) CooldownOver() {
	a.cooling = false
}

// Solve moves Active to Solved. It reports whether the phase changed.
func (a *Attempts) Solve() bool {
	if a.phase != PhaseActive {
		return false
	}
	a.phase = PhaseSolved
	return true
}
