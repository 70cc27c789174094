/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package andrea

import (
	"errors"
	"time"

	"github.com/Seednode/maboulbox/games/maboul"
	"github.com/Seednode/maboulbox/scores"
)

var (
	ErrNotStarted = errors.New("mission not started")
	ErrComplete   = errors.New("mission already complete")
	ErrUnfinished = errors.New("mission not finished")
)

// Result is the outcome of one answer.
type Result struct {
	Correct bool `json:"correct"`
	Penalty int  `json:"penalty"`
	Done    bool `json:"done"`
	Step    int  `json:"step"`
}

// Run is one player's attempt at a mission. It is not safe for concurrent
// use.
type Run struct {
	mission Mission

	started  time.Time
	finished time.Time
	step     int
	penalty  int
	hints    int
}

func NewRun(m Mission) *Run {
	return &Run{mission: m}
}

func (r *Run) Mission() Mission { return r.mission }
func (r *Run) Started() bool    { return !r.started.IsZero() }
func (r *Run) Done() bool       { return !r.finished.IsZero() }

// Penalty is the accumulated penalty in seconds.
func (r *Run) Penalty() int { return r.penalty }

// Index is the zero-based position of the current step.
func (r *Run) Index() int { return r.step }

func (r *Run) Start(now time.Time) {
	if r.Started() {
		return
	}
	r.started = now
}

// Step returns the step awaiting an answer.
func (r *Run) Step() (Step, bool) {
	if !r.Started() || r.Done() {
		return Step{}, false
	}
	return r.mission.Steps[r.step], true
}

// Check submits an answer for the current step. A wrong answer adds the
// step's penalty; solving the last step stops the clock.
func (r *Run) Check(answer string, now time.Time) (Result, error) {
	step, err := r.current()
	if err != nil {
		return Result{}, err
	}

	if !step.Accepts(answer) {
		r.penalty += step.Penalty
		return Result{Penalty: step.Penalty, Step: r.step}, nil
	}

	r.step++
	r.hints = 0
	if r.step == len(r.mission.Steps) {
		r.finished = now
	}
	return Result{Correct: true, Done: r.Done(), Step: r.step}, nil
}

// Hint reveals the next hint of the current step and charges for it. It
// reports false once the step has none left.
func (r *Run) Hint() (Hint, bool, error) {
	step, err := r.current()
	if err != nil {
		return Hint{}, false, err
	}
	if r.hints >= len(step.Hints) {
		return Hint{}, false, nil
	}

	h := step.Hints[r.hints]
	r.hints++
	r.penalty += h.Penalty
	return h, true, nil
}

// HintsLeft counts the hints not yet shown for the current step.
func (r *Run) HintsLeft() int {
	step, err := r.current()
	if err != nil {
		return 0
	}
	return len(step.Hints) - r.hints
}

func (r *Run) current() (Step, error) {
	switch {
	case !r.Started():
		return Step{}, ErrNotStarted
	case r.Done():
		return Step{}, ErrComplete
	}
	return r.mission.Steps[r.step], nil
}

// Elapsed is whole wall-clock seconds plus penalties. It stops at the
// last correct answer.
func (r *Run) Elapsed(now time.Time) time.Duration {
	if !r.Started() {
		return 0
	}
	if r.Done() {
		now = r.finished
	}
	wall := now.Sub(r.started).Truncate(time.Second)
	return wall + time.Duration(r.penalty)*time.Second
}

// Record is the score entry for a completed run.
func (r *Run) Record(p maboul.Player) (scores.Record, error) {
	if !r.Done() {
		return scores.Record{}, ErrUnfinished
	}

	elapsed := r.Elapsed(r.finished)
	return scores.Record{
		Name:        p.Name,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Game:        r.mission.Game,
		Time:        scores.FormatDuration(elapsed.Milliseconds()),
		Seconds:     scores.Int64(elapsed.Milliseconds()),
		PenaltyTime: r.penalty,
		Date:        r.finished,
	}, nil
}
