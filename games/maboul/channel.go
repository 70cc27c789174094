/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package maboul

import "math"

// Segment is a quadratic Bezier bend of the channel centerline.
type Segment struct {
	From    Point
	Control Point
	To      Point
}

func (s Segment) at(t float64) Point {
	u := 1 - t
	return Point{
		X: u*u*s.From.X + 2*u*t*s.Control.X + t*t*s.To.X,
		Y: u*u*s.From.Y + 2*u*t*s.Control.Y + t*t*s.To.Y,
	}
}

// Channel is the serpentine path joining a start zone to a target zone.
type Channel struct {
	Start        Point
	StartRadius  float64
	Target       Point
	TargetRadius float64
	HalfWidth    float64
	Difficulty   int
	Amplitude    float64
	Seed         int64
	Segments     []Segment

	steps int
}

// NewChannel lays out 4+D alternating bends between the challenge's start
// and target. The seed only picks the side of the first bend.
func NewChannel(c Challenge, seed int64, cfg Config) Channel {
	n := cfg.Segments(c.Difficulty)
	amp := cfg.Amplitude(c.Difficulty)

	ch := Channel{
		Start:        c.Start,
		StartRadius:  cfg.StartRadius,
		Target:       c.Target,
		TargetRadius: cfg.TargetRadius,
		HalfWidth:    c.HalfWidth,
		Difficulty:   c.Difficulty,
		Amplitude:    amp,
		Seed:         seed,
		Segments:     make([]Segment, 0, n),
		steps:        cfg.FlattenSteps,
	}

	dir := 1.0
	if seed%2 != 0 {
		dir = -1
	}

	axis := func(t float64) Point {
		return c.Start.lerp(c.Target, t)
	}

	from := c.Start
	for i := range n {
		mid := axis((float64(i) + 0.5) / float64(n))
		next := axis(float64(i+1) / float64(n))

		seg := Segment{
			From:    from,
			Control: Point{X: mid.X + dir*amp, Y: mid.Y},
			To:      Point{X: next.X + dir*amp*cfg.BendRatio, Y: next.Y},
		}
		ch.Segments = append(ch.Segments, seg)

		from = seg.To
		dir = -dir
	}

	return ch
}

// Centerline flattens the bends into a polyline running from the start
// centre to the target centre.
func (ch Channel) Centerline() []Point {
	steps := ch.steps
	if steps < 1 {
		steps = 1
	}

	pts := make([]Point, 0, len(ch.Segments)*steps+2)
	pts = append(pts, ch.Start)
	for _, s := range ch.Segments {
		for k := 1; k <= steps; k++ {
			pts = append(pts, s.at(float64(k)/float64(steps)))
		}
	}
	return append(pts, ch.Target)
}

// Walk resamples the centerline so that consecutive points are at most
// step units apart.
func (ch Channel) Walk(step float64) []Point {
	line := ch.Centerline()
	out := []Point{line[0]}
	for i := 1; i < len(line); i++ {
		a, b := line[i-1], line[i]
		n := int(math.Ceil(a.Dist(b) / step))
		for k := 1; k <= n; k++ {
			out = append(out, a.lerp(b, float64(k)/float64(n)))
		}
	}
	return out
}

// Contains reports whether p lies inside the traversable region in
// continuous space.
func (ch Channel) Contains(p Point) bool {
	if p.Dist(ch.Start) <= ch.StartRadius || p.Dist(ch.Target) <= ch.TargetRadius {
		return true
	}
	line := ch.Centerline()
	for i := 1; i < len(line); i++ {
		if distToSegment(p, line[i-1], line[i]) <= ch.HalfWidth {
			return true
		}
	}
	return false
}
