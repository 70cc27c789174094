/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package maboul

import (
	"image"
	"image/color"
	"math"
	"math/bits"
	"slices"
)

// Mask is a one-bit-per-cell map of the traversable region.
type Mask struct {
	width  int
	height int
	bits   []uint64
}

func newMask(width, height int) *Mask {
	return &Mask{
		width:  width,
		height: height,
		bits:   make([]uint64, (width*height+63)/64),
	}
}

// BuildMask rasterizes a channel. A cell is traversable when its centre
// lies within the channel half-width of the centerline, or inside the
// start or target disk.
func BuildMask(ch Channel, width, height int) *Mask {
	m := newMask(width, height)

	line := ch.Centerline()
	for i := 1; i < len(line); i++ {
		a, b := line[i-1], line[i]
		m.fill(
			math.Min(a.X, b.X)-ch.HalfWidth, math.Min(a.Y, b.Y)-ch.HalfWidth,
			math.Max(a.X, b.X)+ch.HalfWidth, math.Max(a.Y, b.Y)+ch.HalfWidth,
			func(c Point) bool { return distToSegment(c, a, b) <= ch.HalfWidth },
		)
	}

	disk := func(centre Point, r float64) {
		m.fill(centre.X-r, centre.Y-r, centre.X+r, centre.Y+r,
			func(c Point) bool { return c.Dist(centre) <= r })
	}
	disk(ch.Start, ch.StartRadius)
	disk(ch.Target, ch.TargetRadius)

	return m
}

// fill sets every cell in the box whose centre satisfies in.
func (m *Mask) fill(x0, y0, x1, y1 float64, in func(Point) bool) {
	minX := max(0, int(math.Floor(x0)))
	minY := max(0, int(math.Floor(y0)))
	maxX := min(m.width-1, int(math.Ceil(x1)))
	maxY := min(m.height-1, int(math.Ceil(y1)))

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if in(Point{X: float64(x) + 0.5, Y: float64(y) + 0.5}) {
				m.set(x, y)
			}
		}
	}
}

func (m *Mask) set(x, y int) {
	i := y*m.width + x
	m.bits[i/64] |= 1 << (i % 64)
}

func (m *Mask) Width() int  { return m.width }
func (m *Mask) Height() int { return m.height }

// At reports whether cell (x, y) is traversable. Cells off the grid never are.
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return false
	}
	i := y*m.width + x
	return m.bits[i/64]&(1<<(i%64)) != 0
}

// Traversable counts the set cells.
func (m *Mask) Traversable() int {
	n := 0
	for _, w := range m.bits {
		n += bits.OnesCount64(w)
	}
	return n
}

// Fraction is the share of the grid that is traversable.
func (m *Mask) Fraction() float64 {
	if m.width == 0 || m.height == 0 {
		return 0
	}
	return float64(m.Traversable()) / float64(m.width*m.height)
}

func (m *Mask) Equal(o *Mask) bool {
	if m == nil || o == nil {
		return m == o
	}
	return m.width == o.width && m.height == o.height && slices.Equal(m.bits, o.bits)
}

// Image renders traversable cells white on black.
func (m *Mask) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.width, m.height))
	for y := range m.height {
		for x := range m.width {
			if m.At(x, y) {
				img.SetGray(x, y, color.Gray{Y: 0xff})
			}
		}
	}
	return img
}
