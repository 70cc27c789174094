/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package maboul

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRequiresPlayer(t *testing.T) {
	_, err := Start(PlayerFunc(func() (Player, bool) { return Player{}, false }), Options{Clock: NewManualClock(epoch)})
	assert.ErrorIs(t, err, ErrNoPlayer)
}

func TestSessionMixedOutcomes(t *testing.T) {
	var got []Submission
	submit := SubmitFunc(func(_ context.Context, sub Submission) error {
		got = append(got, sub)
		return nil
	})

	s, clock, rec := newTestSession(t, Options{Catalog: catalogOf("bone", "heart"), Submitter: submit})

	bone, err := s.Select("bone")
	require.NoError(t, err)
	dragToTarget(t, bone)
	require.Equal(t, PhaseSolved, bone.Phase())
	assert.False(t, s.Finished())

	heart, err := s.Select("heart")
	require.NoError(t, err)
	for range 3 {
		violate(t, heart)
		clock.Advance(1100 * time.Millisecond)
	}
	require.Equal(t, PhaseFailed, heart.Phase())

	score := s.Score()
	assert.Equal(t, 450, score.Points)
	require.Len(t, score.Outcomes, 2)
	assert.True(t, score.Outcomes[0].Solved)
	assert.False(t, score.Outcomes[0].Failed)
	assert.Equal(t, "heart", score.Outcomes[1].ChallengeID)
	assert.True(t, score.Outcomes[1].Failed)
	assert.Equal(t, 0, score.Outcomes[1].Reward)
	assert.Equal(t, 1, score.Solved())
	assert.Equal(t, 1, score.Failed())

	for _, c := range s.Challenges() {
		assert.True(t, c.Resolved(), c.ID)
	}

	assert.True(t, s.Finished())
	assert.Equal(t, 1, rec.count(EventFinished))
	require.Len(t, got, 1)
	assert.Equal(t, 450, got[0].Points)
	assert.Equal(t, "Jean Dupont", got[0].Player.Name)
	assert.Len(t, got[0].Outcomes, 2)
	assert.NoError(t, s.SubmitErr())

	_, err = s.Select("bone")
	assert.ErrorIs(t, err, ErrFinished)
}

func TestSubmitFailureIsAWarning(t *testing.T) {
	boom := errors.New("store offline")
	submit := SubmitFunc(func(context.Context, Submission) error { return boom })

	s, _, rec := newTestSession(t, Options{Catalog: catalogOf("bone"), Submitter: submit})
	e, err := s.Select("bone")
	require.NoError(t, err)
	dragToTarget(t, e)

	assert.True(t, s.Finished())
	assert.Equal(t, 450, s.Score().Points)
	assert.ErrorIs(t, s.SubmitErr(), boom)
	require.Equal(t, 1, rec.count(EventSubmitFailed))

	last := rec.events[len(rec.events)-1]
	assert.Equal(t, EventSubmitFailed, last.Kind)
	assert.ErrorIs(t, last.Err, boom)
}

func TestSelectErrors(t *testing.T) {
	s, _, _ := newTestSession(t, Options{Catalog: catalogOf("bone", "heart")})

	_, err := s.Select("spleen")
	assert.ErrorIs(t, err, ErrUnknownChallenge)

	e, err := s.Select("bone")
	require.NoError(t, err)
	dragToTarget(t, e)

	_, err = s.Select("bone")
	assert.ErrorIs(t, err, ErrNotSelectable)
}

func TestRestartReloadsCatalog(t *testing.T) {
	s, _, _ := newTestSession(t, Options{Catalog: catalogOf("bone")})
	e, err := s.Select("bone")
	require.NoError(t, err)
	dragToTarget(t, e)
	require.True(t, s.Finished())

	require.NoError(t, s.Restart())
	assert.False(t, s.Finished())
	assert.Zero(t, s.Score().Points)
	assert.False(t, s.Challenges()[0].Solved)
	assert.Nil(t, s.Active())

	_, err = s.Select("bone")
	assert.NoError(t, err)
}

func TestSessionRejectsBadCatalog(t *testing.T) {
	bad := func() []Challenge {
		c := DefaultCatalog()[0]
		c.HalfWidth = 2
		return []Challenge{c}
	}
	_, err := Start(testPlayer(), Options{Clock: NewManualClock(epoch), Catalog: bad})
	assert.ErrorIs(t, err, ErrInvalidChallenge)
}

func TestEventsCarryPoints(t *testing.T) {
	s, _, rec := newTestSession(t, Options{Catalog: catalogOf("bone")})
	e, err := s.Select("bone")
	require.NoError(t, err)
	dragToTarget(t, e)

	for _, ev := range rec.events {
		if ev.Kind == EventSolved {
			assert.Equal(t, 450, ev.Reward)
			assert.Equal(t, 450, ev.Points)
		}
	}
}
