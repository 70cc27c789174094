/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package maboul

import "math"

// Footprint is the five-point sample constellation of a piece: its centre
// and the four axis points pulled in by inset from its radius.
func Footprint(at Point, radius, inset float64) [5]Point {
	r := math.Max(0, radius-inset)
	return [5]Point{
		at,
		{X: at.X - r, Y: at.Y},
		{X: at.X + r, Y: at.Y},
		{X: at.X, Y: at.Y - r},
		{X: at.X, Y: at.Y + r},
	}
}

// IsColliding reports whether any footprint sample falls outside the
// canvas or on a wall cell.
func IsColliding(m *Mask, at Point, radius, inset float64) bool {
	for _, p := range Footprint(at, radius, inset) {
		if p.X < 0 || p.Y < 0 || p.X >= float64(m.width) || p.Y >= float64(m.height) {
			return true
		}
		if !m.At(int(math.Floor(p.X)), int(math.Floor(p.Y))) {
			return true
		}
	}
	return false
}
