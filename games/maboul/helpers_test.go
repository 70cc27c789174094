/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package maboul

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

type recorder struct {
	events []Event
	cues   []Feedback
}

func (r *recorder) observe(ev Event) { r.events = append(r.events, ev) }
func (r *recorder) Cue(fb Feedback)  { r.cues = append(r.cues, fb) }

func (r *recorder) count(kind EventKind) int {
	n := 0
	for _, ev := range r.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

func testPlayer() PlayerLookup {
	return PlayerFunc(func() (Player, bool) {
		return Player{Name: "Jean Dupont", FirstName: "Jean", LastName: "Dupont"}, true
	})
}

func catalogOf(ids ...string) func() []Challenge {
	return func() []Challenge {
		var out []Challenge
		for _, c := range DefaultCatalog() {
			for _, id := range ids {
				if c.ID == id {
					out = append(out, c)
				}
			}
		}
		return out
	}
}

func newTestSession(t *testing.T, opts Options) (*Session, *ManualClock, *recorder) {
	t.Helper()

	clock := NewManualClock(epoch)
	rec := &recorder{}

	opts.Clock = clock
	opts.Observer = rec.observe
	opts.Feedback = NewDispatcher(rec)

	s, err := Start(testPlayer(), opts)
	require.NoError(t, err)
	t.Cleanup(s.Close)

	return s, clock, rec
}

// wall is a point well clear of every default channel.
var wall = Pt(5, 5)

// violate grabs the piece at its current position and drags it into a wall.
func violate(t *testing.T, e *Extraction) MoveResult {
	t.Helper()
	require.True(t, e.Press(e.Position()))
	return e.Move(wall)
}

// dragToTarget walks the piece along the centerline until it stops moving.
func dragToTarget(t *testing.T, e *Extraction) []MoveResult {
	t.Helper()
	require.True(t, e.Press(e.Position()))

	var results []MoveResult
	for _, p := range e.Channel().Walk(1)[1:] {
		r := e.Move(p)
		if r == MoveIgnored {
			break
		}
		results = append(results, r)
	}
	e.Release()
	return results
}
