/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package maboul

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Task is a scheduled callback that can be cancelled.
type Task interface {
	Stop()
}

// Clock is the engine's only source of time and timers.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Task
	Every(d time.Duration, f func()) Task
}

// LoopClock runs on wall time but hands every callback to post, which must
// run it on the goroutine that owns the session. A callback whose task was
// stopped before it ran is dropped.
type LoopClock struct {
	post func(func())
}

func NewLoopClock(post func(func())) *LoopClock {
	return &LoopClock{post: post}
}

type loopTask struct {
	stopped atomic.Bool
	timer   *time.Timer
	done    chan struct{}
}

func (t *loopTask) Stop() {
	if !t.stopped.CompareAndSwap(false, true) {
		return
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	if t.done != nil {
		close(t.done)
	}
}

func (t *loopTask) guard(f func()) func() {
	return func() {
		if !t.stopped.Load() {
			f()
		}
	}
}

func (c *LoopClock) Now() time.Time {
	return time.Now()
}

func (c *LoopClock) AfterFunc(d time.Duration, f func()) Task {
	t := &loopTask{}
	t.timer = time.AfterFunc(d, func() {
		c.post(t.guard(f))
	})
	return t
}

func (c *LoopClock) Every(d time.Duration, f func()) Task {
	t := &loopTask{done: make(chan struct{})}
	go func() {
		ticker := time.NewTicker(d)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.post(t.guard(f))
			case <-t.done:
				return
			}
		}
	}()
	return t
}

// ManualClock only moves when Advance is called. Callbacks run inline on
// the caller's goroutine, in due order.
type ManualClock struct {
	mu    sync.Mutex
	now   time.Time
	seq   int
	tasks []*manualTask
}

type manualTask struct {
	clock   *ManualClock
	at      time.Time
	every   time.Duration
	seq     int
	f       func()
	stopped bool
}

func (t *manualTask) Stop() {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	t.stopped = true
}

func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ManualClock) schedule(d, every time.Duration, f func()) Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &manualTask{clock: c, at: c.now.Add(d), every: every, seq: c.seq, f: f}
	c.tasks = append(c.tasks, t)
	return t
}

func (c *ManualClock) AfterFunc(d time.Duration, f func()) Task {
	return c.schedule(d, 0, f)
}

func (c *ManualClock) Every(d time.Duration, f func()) Task {
	return c.schedule(d, d, f)
}

// Advance moves time forward by d, firing every callback that falls due.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		live := c.tasks[:0]
		for _, t := range c.tasks {
			if !t.stopped {
				live = append(live, t)
			}
		}
		c.tasks = live
		sort.SliceStable(c.tasks, func(i, j int) bool {
			if c.tasks[i].at.Equal(c.tasks[j].at) {
				return c.tasks[i].seq < c.tasks[j].seq
			}
			return c.tasks[i].at.Before(c.tasks[j].at)
		})

		if len(c.tasks) == 0 || c.tasks[0].at.After(target) {
			c.now = target
			c.mu.Unlock()
			return
		}

		t := c.tasks[0]
		c.now = t.at
		if t.every > 0 {
			t.at = t.at.Add(t.every)
		} else {
			t.stopped = true
		}
		f := t.f
		c.mu.Unlock()

		f()
	}
}

// Pending counts tasks that have not fired or been stopped.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.tasks {
		if !t.stopped {
			n++
		}
	}
	return n
}
