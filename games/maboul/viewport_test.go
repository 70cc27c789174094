/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package maboul

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFitPreservesAspect(t *testing.T) {
	tests := []struct {
		name       string
		w, h, max  float64
		wantScale  float64
		wantOffX   float64
		wantOffY   float64
	}{
		{"tall phone", 390, 844, 0, 390.0 / 360, 0, (844 - 480*390.0/360) / 2},
		{"wide desktop", 1920, 960, 0, 2, (1920 - 720) / 2, 0},
		{"capped", 1920, 960, 1.2, 1.2, (1920 - 360*1.2) / 2, (960 - 480*1.2) / 2},
		{"exact", 360, 480, 0, 1, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Fit(360, 480, tt.w, tt.h, tt.max)
			assert.InDelta(t, tt.wantScale, v.ScaleX, 1e-9)
			assert.Equal(t, v.ScaleX, v.ScaleY)
			assert.InDelta(t, tt.wantOffX, v.OffsetX, 1e-9)
			assert.InDelta(t, tt.wantOffY, v.OffsetY, 1e-9)
		})
	}
}

func TestViewportRoundTrip(t *testing.T) {
	for _, v := range []Viewport{
		Fit(360, 480, 390, 844, 0),
		Fit(360, 480, 80, 48, 0),
		Stretch(360, 480, 270, 360),
	} {
		for _, p := range []Point{{0, 0}, {180, 240}, {359.5, 479.5}, {12.25, 400}} {
			x, y := v.ToDisplay(p)
			back := v.ToLogical(x, y)
			assert.InDelta(t, p.X, back.X, 1e-9)
			assert.InDelta(t, p.Y, back.Y, 1e-9)
		}
	}
}

func TestStretchMapsCanvasBox(t *testing.T) {
	v := Stretch(360, 480, 180, 240)
	assert.Equal(t, Pt(360, 480), v.ToLogical(180, 240))
	assert.Equal(t, Pt(90, 120), v.ToLogical(45, 60))

	zero := Stretch(360, 480, 0, 0)
	assert.Equal(t, Pt(10, 20), zero.ToLogical(10, 20))
}
