/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package maboul

import "time"

type EventKind int

const (
	EventSelected EventKind = iota
	EventGrabbed
	EventMoved
	EventReleased
	EventViolation
	EventCooldownOver
	EventSolved
	EventFailed
	EventReset
	EventTick
	EventFinished
	EventSubmitFailed
)

var eventNames = [...]string{
	EventSelected:     "selected",
	EventGrabbed:      "grabbed",
	EventMoved:        "moved",
	EventReleased:     "released",
	EventViolation:    "violation",
	EventCooldownOver: "cooldown_over",
	EventSolved:       "solved",
	EventFailed:       "failed",
	EventReset:        "reset",
	EventTick:         "tick",
	EventFinished:     "finished",
	EventSubmitFailed: "submit_failed",
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventNames) {
		return "unknown"
	}
	return eventNames[k]
}

// Event describes a state change, for hosts to render.
type Event struct {
	Kind      EventKind
	Challenge string
	Position  Point
	Phase     Phase
	Used      int
	Ceiling   int
	Elapsed   time.Duration
	Reward    int
	Points    int
	Err       error
}

// Observer is notified of every event after the state change it reports.
type Observer func(Event)
