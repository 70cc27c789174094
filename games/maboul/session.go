/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package maboul

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrNoPlayer      = errors.New("no player logged in")
	ErrNotSelectable = errors.New("challenge already resolved")
	ErrFinished      = errors.New("session finished")
)

// Player identifies who a session's score belongs to.
type Player struct {
	Name      string
	FirstName string
	LastName  string
}

// PlayerLookup resolves the player for a new session.
type PlayerLookup interface {
	CurrentPlayer() (Player, bool)
}

// PlayerFunc adapts a function to a PlayerLookup.
type PlayerFunc func() (Player, bool)

func (f PlayerFunc) CurrentPlayer() (Player, bool) { return f() }

// Submission is the finalized result of a session.
type Submission struct {
	Player     Player
	Points     int
	Elapsed    time.Duration
	Outcomes   []Outcome
	FinishedAt time.Time
}

// ScoreSubmitter persists a finished session. Failures are reported to
// the player as a warning and never retried. SubmitScore runs on the
// session's goroutine and blocks it; hosts with other players waiting on
// that goroutine should hand the work off and return.
type ScoreSubmitter interface {
	SubmitScore(ctx context.Context, s Submission) error
}

// SubmitFunc adapts a function to a ScoreSubmitter.
type SubmitFunc func(ctx context.Context, s Submission) error

func (f SubmitFunc) SubmitScore(ctx context.Context, s Submission) error { return f(ctx, s) }

type Options struct {
	Config    Config
	Catalog   func() []Challenge
	Clock     Clock
	Feedback  *Dispatcher
	Observer  Observer
	Submitter ScoreSubmitter
	Seed      int64

	SubmitTimeout time.Duration
}

// Session is one player's run through the catalog.
type Session struct {
	opts    Options
	cfg     Config
	player  Player
	catalog []Challenge
	score   SessionScore

	active    *Extraction
	finished  bool
	submitErr error
}

// Start opens a session for the current player.
func Start(lookup PlayerLookup, opts Options) (*Session, error) {
	player, ok := lookup.CurrentPlayer()
	if !ok || player.Name == "" {
		return nil, ErrNoPlayer
	}
	if opts.Clock == nil {
		return nil, errors.New("session requires a clock")
	}
	if opts.Config == (Config{}) {
		opts.Config = DefaultConfig()
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	if opts.Catalog == nil {
		opts.Catalog = DefaultCatalog
	}
	if opts.SubmitTimeout <= 0 {
		opts.SubmitTimeout = 5 * time.Second
	}

	s := &Session{
		opts:   opts,
		cfg:    opts.Config,
		player: player,
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) load() error {
	catalog := s.opts.Catalog()
	for _, c := range catalog {
		if err := c.Validate(s.cfg); err != nil {
			return err
		}
	}
	s.catalog = catalog
	s.score = SessionScore{}
	s.finished = false
	s.submitErr = nil
	return nil
}

func (s *Session) emit(ev Event) {
	ev.Points = s.score.Points
	if s.opts.Observer != nil {
		s.opts.Observer(ev)
	}
}

func (s *Session) Player() Player { return s.player }
func (s *Session) Config() Config { return s.cfg }
func (s *Session) Finished() bool { return s.finished }

// SubmitErr is the error from the last score submission, if any.
func (s *Session) SubmitErr() error { return s.submitErr }

func (s *Session) Challenges() []Challenge {
	return append([]Challenge(nil), s.catalog...)
}

func (s *Session) Score() SessionScore {
	sc := s.score
	sc.Outcomes = append([]Outcome(nil), s.score.Outcomes...)
	return sc
}

// Active is the challenge on screen, or nil on the selection screen.
func (s *Session) Active() *Extraction { return s.active }

// Select opens an unresolved challenge with a fresh mask, piece and
// attempt counter, abandoning whatever was open before.
func (s *Session) Select(id string) (*Extraction, error) {
	if s.finished {
		return nil, ErrFinished
	}
	idx := -1
	for i := range s.catalog {
		if s.catalog[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChallenge, id)
	}
	if s.catalog[idx].Resolved() {
		return nil, fmt.Errorf("%w: %q", ErrNotSelectable, id)
	}

	s.closeActive()
	s.active = newExtraction(&s.catalog[idx], s.opts.Seed+int64(idx), s.cfg, s.opts.Clock, s.opts.Feedback, s.emit, s.record, s.settle)
	s.emit(s.active.event(EventSelected))
	return s.active, nil
}

// Back returns to the selection screen.
func (s *Session) Back() {
	s.closeActive()
}

// Restart discards all progress and reloads the catalog.
func (s *Session) Restart() error {
	s.closeActive()
	return s.load()
}

// Close stops every timer the session owns.
func (s *Session) Close() {
	s.closeActive()
}

func (s *Session) closeActive() {
	if s.active != nil {
		s.active.close()
		s.active = nil
	}
}

func (s *Session) Press(p Point) bool {
	if s.active == nil {
		return false
	}
	return s.active.Press(p)
}

func (s *Session) Move(p Point) MoveResult {
	if s.active == nil {
		return MoveIgnored
	}
	return s.active.Move(p)
}

func (s *Session) Release() {
	if s.active != nil {
		s.active.Release()
	}
}

func (s *Session) Reset() {
	if s.active != nil {
		s.active.Reset()
	}
}

func (s *Session) record(o Outcome) {
	s.score.Record(o)
}

// settle finishes the session once every challenge is resolved.
func (s *Session) settle() {
	if s.finished {
		return
	}
	for _, c := range s.catalog {
		if !c.Resolved() {
			return
		}
	}
	s.finish()
}

func (s *Session) finish() {
	s.finished = true
	s.emit(Event{Kind: EventFinished, Elapsed: s.score.Elapsed})

	if s.opts.Submitter == nil {
		return
	}

	sub := Submission{
		Player:     s.player,
		Points:     s.score.Points,
		Elapsed:    s.score.Elapsed,
		Outcomes:   append([]Outcome(nil), s.score.Outcomes...),
		FinishedAt: s.opts.Clock.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.opts.SubmitTimeout)
	defer cancel()

	if err := s.opts.Submitter.SubmitScore(ctx, sub); err != nil {
		s.submitErr = err
		s.emit(Event{Kind: EventSubmitFailed, Err: err})
	}
}
