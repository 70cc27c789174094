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

func TestManualClockOrdering(t *testing.T) {
	c := NewManualClock(epoch)

	var fired []string
	c.AfterFunc(300*time.Millisecond, func() { fired = append(fired, "late") })
	c.AfterFunc(100*time.Millisecond, func() {
		fired = append(fired, "early")
		c.AfterFunc(50*time.Millisecond, func() { fired = append(fired, "nested") })
	})
	stopped := c.AfterFunc(200*time.Millisecond, func() { fired = append(fired, "stopped") })
	stopped.Stop()

	c.Advance(time.Second)

	assert.Equal(t, []string{"early", "nested", "late"}, fired)
	assert.Equal(t, epoch.Add(time.Second), c.Now())
	assert.Zero(t, c.Pending())
}

func TestManualClockEvery(t *testing.T) {
	c := NewManualClock(epoch)

	var at []time.Duration
	task := c.Every(100*time.Millisecond, func() { at = append(at, c.Now().Sub(epoch)) })

	c.Advance(250 * time.Millisecond)
	task.Stop()
	c.Advance(time.Second)

	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, at)
}

func TestLoopClockPostsCallbacks(t *testing.T) {
	posted := make(chan func(), 4)
	c := NewLoopClock(func(f func()) { posted <- f })

	ran := 0
	c.AfterFunc(time.Millisecond, func() { ran++ })

	select {
	case f := <-posted:
		assert.Zero(t, ran, "callbacks only run when the owner executes them")
		f()
	case <-time.After(2 * time.Second):
		t.Fatal("timer never posted")
	}
	assert.Equal(t, 1, ran)

	ticks := 0
	task := c.Every(time.Millisecond, func() { ticks++ })
	for range 2 {
		select {
		case f := <-posted:
			f()
		case <-time.After(2 * time.Second):
			t.Fatal("ticker never posted")
		}
	}
	task.Stop()
	require.Equal(t, 2, ticks)

	for {
		select {
		case f := <-posted:
			f()
		default:
			assert.Equal(t, 2, ticks, "stopped ticker callbacks are dropped")
			return
		}
	}
}
