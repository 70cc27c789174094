/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package terminal plays the extraction game in a terminal, with the
// mouse as the drag surface.
package terminal

import (
	"context"
	"fmt"
	"time"

	"github.com/Seednode/maboulbox/games/maboul"
	"github.com/Seednode/maboulbox/players"
	"github.com/gdamore/tcell/v2"
)

type Options struct {
	// Session is passed to maboul.Start. Observer and Feedback are owned
	// by the host; a nil Clock gets a clock bound to the host loop.
	Session maboul.Options

	// Sinks receive every cue next to the terminal flash and bell.
	Sinks []maboul.Sink

	Logf func(format string, args ...any)
}

// Host owns a screen and a session. Everything that touches the session
// runs on the goroutine calling Run.
type Host struct {
	screen  tcell.Screen
	session *maboul.Session
	clock   maboul.Clock
	logf    func(format string, args ...any)

	calls chan func()
	done  chan struct{}

	view       maboul.Viewport
	buttons    tcell.ButtonMask
	flashUntil time.Time
	status     string
	quit       bool
}

func New(screen tcell.Screen, lookup maboul.PlayerLookup, opts Options) (*Host, error) {
	h := &Host{
		screen: screen,
		logf:   opts.Logf,
		calls:  make(chan func(), 64),
		done:   make(chan struct{}),
	}

	so := opts.Session
	if so.Clock == nil {
		so.Clock = maboul.NewLoopClock(h.post)
	}
	h.clock = so.Clock

	fb := maboul.NewDispatcher(maboul.SinkFunc(h.cue))
	fb.Logf = opts.Logf
	for _, s := range opts.Sinks {
		fb.Add(s)
	}
	so.Feedback = fb
	so.Observer = h.observe

	s, err := maboul.Start(lookup, so)
	if err != nil {
		return nil, err
	}
	h.session = s
	h.status = fmt.Sprintf("Welcome, %s. Pick an object.", s.Player().Name)
	return h, nil
}

func (h *Host) Session() *maboul.Session { return h.session }
func (h *Host) Status() string           { return h.status }

func (h *Host) post(f func()) {
	select {
	case h.calls <- f:
	case <-h.done:
	}
}

func (h *Host) cue(fb maboul.Feedback) {
	if fb.Flash > 0 {
		h.flashUntil = h.clock.Now().Add(fb.Flash)
		// Wakes the loop so the flash is cleared on time.
		h.clock.AfterFunc(fb.Flash, func() {})
	}
	if fb.Sound != maboul.SoundNone {
		if err := h.screen.Beep(); err != nil && h.logf != nil {
			h.logf("TERMINAL: Bell unavailable: %v", err)
		}
	}
}

func (h *Host) observe(ev maboul.Event) {
	switch ev.Kind {
	case maboul.EventSelected:
		h.status = "Drag the object to the target without touching the walls."
	case maboul.EventViolation:
		h.status = fmt.Sprintf("Ouch! Attempt %d/%d used.", ev.Used, ev.Ceiling)
	case maboul.EventCooldownOver:
		h.status = "Try again."
	case maboul.EventReset:
		h.status = "Back at the start."
	case maboul.EventSolved:
		h.status = fmt.Sprintf("Extracted in %s: +%d points.", maboul.FormatElapsed(ev.Elapsed), ev.Reward)
	case maboul.EventFailed:
		h.status = "Failed. No attempts left."
	case maboul.EventFinished:
		h.status = fmt.Sprintf("All done: %d points in %s.", ev.Points, maboul.FormatElapsed(ev.Elapsed))
	case maboul.EventSubmitFailed:
		h.status = fmt.Sprintf("Score not saved: %v", ev.Err)
	}
}

// Run draws and handles input until the player quits or ctx ends.
func (h *Host) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-h.done:
				return
			}
		}
	}()

	h.screen.EnableMouse(tcell.MouseDragEvents)
	h.Draw()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f := <-h.calls:
			f()
		case ev := <-events:
			if !h.Handle(ev) {
				return nil
			}
		}
		h.Draw()
	}
}

// Close stops the session timers and releases the loop.
func (h *Host) Close() {
	h.session.Close()
	select {
	case <-h.done:
	default:
		close(h.done)
	}
}

// Handle applies one terminal event and reports whether to keep going.
func (h *Host) Handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		h.screen.Sync()
	case *tcell.EventKey:
		h.key(ev)
	case *tcell.EventMouse:
		h.mouse(ev)
	}
	return !h.quit
}

func (h *Host) key(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		h.quit = true
		return
	case tcell.KeyEscape, tcell.KeyBackspace, tcell.KeyBackspace2:
		if h.session.Active() == nil {
			h.quit = true
			return
		}
		h.session.Back()
		h.status = "Pick an object."
		return
	case tcell.KeyRune:
	default:
		return
	}

	switch r := ev.Rune(); {
	case r == 'q':
		h.quit = true
	case r == 'r' && h.session.Active() != nil:
		h.session.Reset()
	case r == 'r':
		if h.session.Finished() && !players.Exempt(h.session.Player()) {
			h.status = "One attempt each! Your score is already recorded."
			return
		}
		if err := h.session.Restart(); err != nil {
			h.status = err.Error()
			return
		}
		h.status = "New game. Pick an object."
	case r >= '1' && r <= '9' && h.session.Active() == nil:
		h.choose(int(r - '1'))
	}
}

func (h *Host) choose(i int) {
	challenges := h.session.Challenges()
	if i < 0 || i >= len(challenges) {
		return
	}
	if _, err := h.session.Select(challenges[i].ID); err != nil {
		h.status = err.Error()
	}
}

func (h *Host) mouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	buttons := ev.Buttons() & (tcell.Button1 | tcell.Button2 | tcell.Button3)
	pressed := buttons&tcell.Button1 != 0
	was := h.buttons&tcell.Button1 != 0
	h.buttons = buttons

	if h.session.Active() == nil {
		if pressed && !was {
			h.choose(y - menuTop)
		}
		return
	}

	p := h.toLogical(x, y)
	switch {
	case pressed && !was:
		if h.session.Press(p) {
			h.session.Move(p)
		}
	case pressed:
		h.session.Move(p)
	case was:
		h.session.Release()
	}
}
