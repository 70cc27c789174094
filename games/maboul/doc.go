/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package maboul implements the extraction game: a piece is dragged
// through a narrow serpentine channel from a start zone to a target zone
// without touching the walls.
//
// Features:
//   - Channel geometry built from quadratic segments, rasterized to a bit mask
//   - Five-point footprint sampling against the mask
//   - Grab radius, target tolerance and snap-back on wall contact
//   - Attempt ceiling with a debounce window between counted violations
//   - Time bonus scoring and per-session outcomes
//   - Flash, vibration and sound cues fanned out to pluggable sinks
//   - All timers go through a Clock so hosts can serialize callbacks
//     onto their own event loop and tests can drive time by hand
//
// The engine is not safe for concurrent use. Hosts own a Session from a
// single goroutine and post timer callbacks back into it.
package maboul
