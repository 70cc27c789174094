/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package maboul

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsColliding(t *testing.T) {
	cfg := DefaultConfig()
	ch := NewChannel(fixedChallenge(1), 0, cfg)
	m := BuildMask(ch, cfg.Width, cfg.Height)

	tests := []struct {
		name   string
		at     Point
		radius float64
		want   bool
	}{
		{"inside wall cell", Pt(10.5, 10.5), 0, true},
		{"one pixel into wall", Pt(1, 1), 6, true},
		{"zero radius on open cell", Pt(180.5, 420.5), 0, false},
		{"piece in start zone", Pt(180, 420), 6, false},
		{"footprint reaches wall", Pt(180+14, 420), 6, true},
		{"left of canvas", Pt(-0.5, 240), 0, true},
		{"below canvas", Pt(180, float64(cfg.Height)), 0, true},
		{"sample leaves canvas", Pt(1, 240), 6, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsColliding(m, tt.at, tt.radius, cfg.SampleInset))
		})
	}
}

func TestFootprint(t *testing.T) {
	fp := Footprint(Pt(10, 20), 6, 2)
	assert.Equal(t, [5]Point{{10, 20}, {6, 20}, {14, 20}, {10, 16}, {10, 24}}, fp)

	for _, p := range Footprint(Pt(10, 20), 1, 2) {
		assert.Equal(t, Pt(10, 20), p)
	}
}

func TestCenterlineNeverCollides(t *testing.T) {
	cfg := DefaultConfig()

	for _, c := range DefaultCatalog() {
		for _, seed := range []int64{0, 1} {
			ch := NewChannel(c, seed, cfg)
			m := BuildMask(ch, cfg.Width, cfg.Height)
			for _, p := range ch.Walk(1) {
				if !assert.False(t, IsColliding(m, p, c.Size, cfg.SampleInset), "%s seed %d at %v", c.ID, seed, p) {
					break
				}
			}
		}
	}
}
