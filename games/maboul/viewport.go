/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package maboul

import "math"

// Viewport maps between a display surface and the logical canvas.
type Viewport struct {
	Width   int
	Height  int
	ScaleX  float64
	ScaleY  float64
	OffsetX float64
	OffsetY float64
}

// Fit scales the logical canvas uniformly into a display area, centred,
// never larger than maxScale (zero means unbounded).
func Fit(width, height int, displayW, displayH, maxScale float64) Viewport {
	scale := math.Min(displayW/float64(width), displayH/float64(height))
	if maxScale > 0 {
		scale = math.Min(scale, maxScale)
	}
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		scale = 1
	}
	return Viewport{
		Width:   width,
		Height:  height,
		ScaleX:  scale,
		ScaleY:  scale,
		OffsetX: (displayW - float64(width)*scale) / 2,
		OffsetY: (displayH - float64(height)*scale) / 2,
	}
}

// Stretch maps a display box that already wraps the canvas exactly, as a
// browser canvas element sized by CSS does.
func Stretch(width, height int, displayW, displayH float64) Viewport {
	v := Viewport{Width: width, Height: height, ScaleX: 1, ScaleY: 1}
	if displayW > 0 {
		v.ScaleX = displayW / float64(width)
	}
	if displayH > 0 {
		v.ScaleY = displayH / float64(height)
	}
	return v
}

func (v Viewport) ToLogical(x, y float64) Point {
	return Point{
		X: (x - v.OffsetX) / v.ScaleX,
		Y: (y - v.OffsetY) / v.ScaleY,
	}
}

func (v Viewport) ToDisplay(p Point) (float64, float64) {
	return p.X*v.ScaleX + v.OffsetX, p.Y*v.ScaleY + v.OffsetY
}
