/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package maboul

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttemptCeiling(t *testing.T) {
	t.Run("two violations stay active", func(t *testing.T) {
		s, clock, _ := newTestSession(t, Options{Catalog: catalogOf("bone")})
		e, err := s.Select("bone")
		require.NoError(t, err)

		for range 2 {
			assert.Equal(t, MoveViolation, violate(t, e))
			clock.Advance(1100 * time.Millisecond)
		}

		assert.Equal(t, PhaseActive, e.Phase())
		assert.Equal(t, 2, e.Used())
		assert.False(t, s.Challenges()[0].Failed)
	})

	t.Run("third violation fails", func(t *testing.T) {
		s, clock, rec := newTestSession(t, Options{Catalog: catalogOf("bone")})
		e, err := s.Select("bone")
		require.NoError(t, err)

		for range 3 {
			assert.Equal(t, MoveViolation, violate(t, e))
			clock.Advance(1100 * time.Millisecond)
		}

		assert.Equal(t, PhaseFailed, e.Phase())
		assert.Equal(t, 3, e.Used())
		assert.True(t, s.Challenges()[0].Failed)
		assert.Equal(t, 1, rec.count(EventFailed))
		assert.Len(t, rec.cues, 3)
		assert.False(t, e.Press(e.Position()), "failed challenge is frozen")
	})
}

func TestCooldownDebouncesViolations(t *testing.T) {
	s, clock, rec := newTestSession(t, Options{Catalog: catalogOf("bone")})
	e, err := s.Select("bone")
	require.NoError(t, err)

	assert.Equal(t, MoveViolation, violate(t, e))
	assert.True(t, e.Cooling())
	assert.Equal(t, e.Challenge().Start, e.Position(), "piece snapped back")
	assert.False(t, e.Dragging())

	require.True(t, e.Press(e.Position()))
	clock.Advance(300 * time.Millisecond)
	assert.Equal(t, MoveRejected, e.Move(wall))
	clock.Advance(300 * time.Millisecond)
	assert.Equal(t, MoveRejected, e.Move(Pt(0, 0)))

	assert.Equal(t, 1, e.Used())
	assert.Len(t, rec.cues, 1)
	assert.Equal(t, e.Challenge().Start, e.Position(), "rejected moves are not committed")

	clock.Advance(500 * time.Millisecond)
	assert.False(t, e.Cooling())
	assert.Equal(t, 1, rec.count(EventCooldownOver))

	assert.Equal(t, MoveViolation, e.Move(wall))
	assert.Equal(t, 2, e.Used())
	assert.Len(t, rec.cues, 2)
}

func TestViolationCues(t *testing.T) {
	s, _, rec := newTestSession(t, Options{Catalog: catalogOf("bone")})
	e, err := s.Select("bone")
	require.NoError(t, err)

	violate(t, e)

	require.Len(t, rec.cues, 1)
	assert.Equal(t, SoundBuzz, rec.cues[0].Sound)
	assert.Equal(t, 300*time.Millisecond, rec.cues[0].Flash)
	assert.Equal(t, 300*time.Millisecond, rec.cues[0].Vibrate)
}

func TestGrabRadius(t *testing.T) {
	s, _, rec := newTestSession(t, Options{Catalog: catalogOf("bone")})
	e, err := s.Select("bone")
	require.NoError(t, err)

	start := e.Position()
	assert.Equal(t, MoveIgnored, e.Move(start.Add(Pt(0, -2))), "no drag before a grab")
	assert.False(t, e.Press(start.Add(Pt(15.5, 0))))
	assert.Equal(t, PhaseIdle, e.Phase())
	assert.True(t, e.Press(start.Add(Pt(15, 0))))
	assert.Equal(t, PhaseActive, e.Phase())
	assert.Equal(t, 1, rec.count(EventGrabbed))
}

func TestDragAlongCenterlineSolvesOnce(t *testing.T) {
	s, _, rec := newTestSession(t, Options{Catalog: catalogOf("bone")})
	e, err := s.Select("bone")
	require.NoError(t, err)

	results := dragToTarget(t, e)
	require.NotEmpty(t, results)
	assert.Equal(t, MoveSolved, results[len(results)-1])
	assert.NotContains(t, results[:len(results)-1], MoveViolation)

	assert.Equal(t, PhaseSolved, e.Phase())
	assert.Less(t, e.Position().Dist(e.Challenge().Target), 15.0)
	assert.Equal(t, 1, rec.count(EventSolved))
	assert.Equal(t, 0, rec.count(EventViolation))

	score := s.Score()
	assert.Equal(t, 150+300, score.Points)

	e.Release()
	assert.Equal(t, MoveIgnored, e.Move(e.Challenge().Target))
	assert.Equal(t, 150+300, s.Score().Points)

	require.NotEmpty(t, rec.cues)
	assert.Equal(t, SoundChime, rec.cues[len(rec.cues)-1].Sound)
}

func TestElapsedDrivesReward(t *testing.T) {
	s, clock, _ := newTestSession(t, Options{Catalog: catalogOf("bone")})
	e, err := s.Select("bone")
	require.NoError(t, err)

	require.True(t, e.Press(e.Position()))
	clock.Advance(10 * time.Second)

	for _, p := range e.Channel().Walk(1)[1:] {
		if e.Move(p) != MoveCommitted {
			break
		}
	}

	assert.Equal(t, PhaseSolved, e.Phase())
	assert.Equal(t, 10*time.Second, e.Elapsed())
	assert.Equal(t, 350, s.Score().Points)
}

func TestReleaseInsideTargetSolves(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TargetTolerance = 0.5
	s, _, _ := newTestSession(t, Options{Config: cfg, Catalog: catalogOf("bone")})
	e, err := s.Select("bone")
	require.NoError(t, err)

	require.True(t, e.Press(e.Position()))
	walk := e.Channel().Walk(1)
	for _, p := range walk[1 : len(walk)-1] {
		require.Equal(t, MoveCommitted, e.Move(p))
	}
	assert.Equal(t, PhaseActive, e.Phase())

	e.cfg.TargetTolerance = 15
	e.Release()
	assert.Equal(t, PhaseSolved, e.Phase())
}

func TestTicksWhileTiming(t *testing.T) {
	s, clock, rec := newTestSession(t, Options{Catalog: catalogOf("bone")})
	e, err := s.Select("bone")
	require.NoError(t, err)

	clock.Advance(time.Second)
	assert.Equal(t, 0, rec.count(EventTick), "clock starts on first grab")

	require.True(t, e.Press(e.Position()))
	clock.Advance(350 * time.Millisecond)
	assert.Equal(t, 3, rec.count(EventTick))
	assert.Equal(t, 350*time.Millisecond, e.Elapsed())
}

func TestResetKeepsAttempts(t *testing.T) {
	s, clock, rec := newTestSession(t, Options{Catalog: catalogOf("bone")})
	e, err := s.Select("bone")
	require.NoError(t, err)

	violate(t, e)
	e.Reset()

	assert.False(t, e.Cooling())
	assert.Equal(t, 1, e.Used())
	assert.Equal(t, time.Duration(0), e.Elapsed())
	assert.Equal(t, 0, clock.Pending())

	clock.Advance(5 * time.Second)
	assert.Equal(t, 0, rec.count(EventCooldownOver))
	assert.Equal(t, 0, rec.count(EventTick))
}

func TestLeavingCancelsTimers(t *testing.T) {
	s, clock, rec := newTestSession(t, Options{Catalog: catalogOf("bone", "heart")})
	e, err := s.Select("bone")
	require.NoError(t, err)

	violate(t, e)
	require.Positive(t, clock.Pending())

	next, err := s.Select("heart")
	require.NoError(t, err)
	assert.Equal(t, 0, clock.Pending())

	clock.Advance(5 * time.Second)
	assert.Equal(t, 0, rec.count(EventCooldownOver))
	assert.Equal(t, 0, next.Used())
	assert.False(t, next.Cooling())
	assert.Equal(t, PhaseIdle, next.Phase())

	again, err := s.Select("bone")
	require.NoError(t, err)
	assert.Equal(t, 0, again.Used(), "reselecting starts a fresh attempt counter")
	assert.True(t, e.Mask().Equal(again.Mask()), "same challenge, same mask")

	s.Back()
	assert.Nil(t, s.Active())
	assert.False(t, again.Press(again.Position()))
}

func TestStaleLoopCallbackIsDropped(t *testing.T) {
	posted := make(chan func(), 1)
	clock := NewLoopClock(func(f func()) { posted <- f })

	task := clock.AfterFunc(0, func() { t.Fatal("stopped task ran") })
	f := <-posted
	task.Stop()
	f()
}
