/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package maboul

import "time"

// MoveResult says what a pointer move did to the piece.
type MoveResult int

const (
	MoveIgnored MoveResult = iota
	MoveCommitted
	MoveRejected
	MoveViolation
	MoveSolved
)

func (r MoveResult) String() string {
	switch r {
	case MoveIgnored:
		return "ignored"
	case MoveCommitted:
		return "committed"
	case MoveRejected:
		return "rejected"
	case MoveViolation:
		return "violation"
	case MoveSolved:
		return "solved"
	}
	return "unknown"
}

// Extraction is the live state of the challenge currently on screen: its
// mask, the piece, the attempt counter and the timers tied to it.
type Extraction struct {
	cfg       Config
	challenge *Challenge
	channel   Channel
	mask      *Mask
	attempts  *Attempts

	pos      Point
	dragging bool

	clock     Clock
	feedback  *Dispatcher
	emit      func(Event)
	record    func(Outcome)
	settle    func()

	started   bool
	startedAt time.Time
	elapsed   time.Duration

	gen      uint64
	cooldown Task
	ticker   Task
	closed   bool
}

func newExtraction(c *Challenge, seed int64, cfg Config, clock Clock, fb *Dispatcher, emit func(Event), record func(Outcome), settle func()) *Extraction {
	ch := NewChannel(*c, seed, cfg)
	return &Extraction{
		cfg:       cfg,
		challenge: c,
		channel:   ch,
		mask:      BuildMask(ch, cfg.Width, cfg.Height),
		attempts:  NewAttempts(cfg.MaxAttempts),
		pos:       c.Start,
		clock:     clock,
		feedback:  fb,
		emit:      emit,
		record:    record,
		settle:    settle,
	}
}

func (e *Extraction) Challenge() Challenge { return *e.challenge }
func (e *Extraction) Channel() Channel     { return e.channel }
func (e *Extraction) Mask() *Mask          { return e.mask }
func (e *Extraction) Position() Point      { return e.pos }
func (e *Extraction) Dragging() bool       { return e.dragging }
func (e *Extraction) Phase() Phase         { return e.attempts.Phase() }
func (e *Extraction) Used() int            { return e.attempts.Used() }
func (e *Extraction) Ceiling() int         { return e.attempts.Ceiling() }
func (e *Extraction) Cooling() bool        { return e.attempts.Cooling() }

// Elapsed is the time since the first grab, frozen once the challenge
// resolves.
func (e *Extraction) Elapsed() time.Duration {
	if e.started && !e.attempts.Terminal() {
		return e.clock.Now().Sub(e.startedAt)
	}
	return e.elapsed
}

func (e *Extraction) event(kind EventKind) Event {
	return Event{
		Kind:      kind,
		Challenge: e.challenge.ID,
		Position:  e.pos,
		Phase:     e.attempts.Phase(),
		Used:      e.attempts.Used(),
		Ceiling:   e.attempts.Ceiling(),
		Elapsed:   e.Elapsed(),
	}
}

func (e *Extraction) live() bool {
	return !e.closed && !e.attempts.Terminal()
}

// Press starts a drag when p lands within the grab radius of the piece.
// The first grab starts the challenge clock.
func (e *Extraction) Press(p Point) bool {
	if !e.live() || e.dragging {
		return false
	}
	if p.Dist(e.pos) > e.cfg.GrabFactor*e.challenge.Size {
		return false
	}

	e.dragging = true
	if !e.started {
		e.started = true
		e.startedAt = e.clock.Now()
		e.attempts.Begin()
		gen := e.gen
		e.ticker = e.clock.Every(e.cfg.TickInterval, func() {
			if e.gen == gen && e.live() {
				e.emit(e.event(EventTick))
			}
		})
	}
	e.emit(e.event(EventGrabbed))
	return true
}

// Move offers a new piece position. Positions whose footprint touches a
// wall are never committed.
func (e *Extraction) Move(p Point) MoveResult {
	if !e.live() || !e.dragging {
		return MoveIgnored
	}

	if IsColliding(e.mask, p, e.challenge.Size, e.cfg.SampleInset) {
		if !e.attempts.Violation() {
			return MoveRejected
		}
		e.violation()
		return MoveViolation
	}

	e.pos = p
	e.emit(e.event(EventMoved))

	if e.atTarget() {
		e.solve()
		return MoveSolved
	}
	return MoveCommitted
}

// Release ends the drag and checks the target one last time.
func (e *Extraction) Release() {
	if !e.dragging {
		return
	}
	e.dragging = false
	if e.closed {
		return
	}
	e.emit(e.event(EventReleased))
	if e.live() && e.atTarget() {
		e.solve()
	}
}

// Reset puts the piece back at the start and clears the clock. Attempts
// already spent on this challenge stay spent.
func (e *Extraction) Reset() {
	if !e.live() {
		return
	}
	e.stopTasks()
	e.attempts.CooldownOver()
	e.started = false
	e.elapsed = 0
	e.dragging = false
	e.pos = e.challenge.Start
	e.emit(e.event(EventReset))
}

func (e *Extraction) atTarget() bool {
	return e.pos.Dist(e.challenge.Target) < e.cfg.TargetTolerance
}

func (e *Extraction) violation() {
	e.pos = e.challenge.Start
	e.dragging = false

	e.emit(e.event(EventViolation))
	if fb, ok := FeedbackFor(EventViolation); ok {
		e.feedback.Fire(fb)
	}

	if e.attempts.Phase() == PhaseFailed {
		e.resolve(false)
		return
	}

	if e.cfg.Cooldown <= 0 {
		e.attempts.CooldownOver()
		return
	}
	gen := e.gen
	e.cooldown = e.clock.AfterFunc(e.cfg.Cooldown, func() {
		if e.gen != gen || e.closed {
			return
		}
		e.attempts.CooldownOver()
		e.emit(e.event(EventCooldownOver))
	})
}

func (e *Extraction) solve() {
	if !e.attempts.Solve() {
		return
	}
	e.dragging = false
	e.resolve(true)
}

func (e *Extraction) resolve(solved bool) {
	e.elapsed = e.clock.Now().Sub(e.startedAt)
	e.stopTasks()

	o := Outcome{
		ChallengeID: e.challenge.ID,
		Name:        e.challenge.Name,
		Emoji:       e.challenge.Emoji,
		Solved:      solved,
		Failed:      !solved,
		Elapsed:     e.elapsed,
		Attempts:    e.attempts.Used(),
	}

	ev := e.event(EventFailed)
	if solved {
		o.Reward = Reward(e.challenge.Reward, e.elapsed, e.cfg.BonusWindow, e.cfg.BonusRate)
		e.challenge.Solved = true
		ev = e.event(EventSolved)
		ev.Reward = o.Reward
	} else {
		e.challenge.Failed = true
	}

	e.record(o)
	e.emit(ev)
	if fb, ok := FeedbackFor(ev.Kind); ok {
		e.feedback.Fire(fb)
	}
	e.settle()
}

func (e *Extraction) stopTasks() {
	e.gen++
	if e.cooldown != nil {
		e.cooldown.Stop()
		e.cooldown = nil
	}
	if e.ticker != nil {
		e.ticker.Stop()
		e.ticker = nil
	}
}

func (e *Extraction) close() {
	if e.closed {
		return
	}
	e.stopTasks()
	e.dragging = false
	e.closed = true
}
