/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package maboul

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedChallenge(difficulty int) Challenge {
	return Challenge{
		ID:         "sample",
		Size:       4,
		Difficulty: difficulty,
		HalfWidth:  HalfWidthFor(difficulty),
		Start:      Pt(180, 420),
		Target:     Pt(180, 120),
	}
}

func TestHarderChannelsAreTighter(t *testing.T) {
	cfg := DefaultConfig()

	var prev *Mask
	var prevChannel Channel
	for d := 1; d <= 3; d++ {
		ch := NewChannel(fixedChallenge(d), 0, cfg)
		m := BuildMask(ch, cfg.Width, cfg.Height)

		if prev != nil {
			assert.Less(t, ch.HalfWidth, prevChannel.HalfWidth, "half width at D=%d", d)
			assert.Greater(t, len(ch.Segments), len(prevChannel.Segments), "segments at D=%d", d)
			assert.Greater(t, ch.Amplitude, prevChannel.Amplitude, "amplitude at D=%d", d)
			assert.Less(t, m.Fraction(), prev.Fraction(), "traversable fraction at D=%d", d)
		}
		prev, prevChannel = m, ch
	}
}

func TestChannelShape(t *testing.T) {
	cfg := DefaultConfig()

	for d := 1; d <= 3; d++ {
		ch := NewChannel(fixedChallenge(d), 0, cfg)
		assert.Len(t, ch.Segments, 4+d)
		assert.Equal(t, 20+10*float64(d), ch.Amplitude)

		line := ch.Centerline()
		assert.Equal(t, ch.Start, line[0])
		assert.Equal(t, ch.Target, line[len(line)-1])
	}
}

func TestMaskIsDeterministic(t *testing.T) {
	cfg := DefaultConfig()

	for _, c := range DefaultCatalog() {
		a := BuildMask(NewChannel(c, 7, cfg), cfg.Width, cfg.Height)
		b := BuildMask(NewChannel(c, 7, cfg), cfg.Width, cfg.Height)
		assert.True(t, a.Equal(b), c.ID)
	}
}

func TestSeedParityMirrorsBends(t *testing.T) {
	cfg := DefaultConfig()
	c := fixedChallenge(2)

	even := NewChannel(c, 0, cfg)
	odd := NewChannel(c, 1, cfg)

	require.Len(t, odd.Segments, len(even.Segments))
	for i := range even.Segments {
		assert.InDelta(t, 2*c.Start.X-even.Segments[i].Control.X, odd.Segments[i].Control.X, 1e-9)
	}
	assert.False(t, BuildMask(even, cfg.Width, cfg.Height).Equal(BuildMask(odd, cfg.Width, cfg.Height)))
}

func TestMaskMatchesContinuousRegion(t *testing.T) {
	cfg := DefaultConfig()
	ch := NewChannel(fixedChallenge(1), 0, cfg)
	m := BuildMask(ch, cfg.Width, cfg.Height)

	for y := 0; y < cfg.Height; y += 7 {
		for x := 0; x < cfg.Width; x += 5 {
			centre := Pt(float64(x)+0.5, float64(y)+0.5)
			assert.Equal(t, ch.Contains(centre), m.At(x, y), "cell %d,%d", x, y)
		}
	}
}

func TestMaskZones(t *testing.T) {
	cfg := DefaultConfig()
	ch := NewChannel(fixedChallenge(3), 0, cfg)
	m := BuildMask(ch, cfg.Width, cfg.Height)

	assert.True(t, m.At(180, 420))
	assert.True(t, m.At(180+15, 420), "edge of start disk")
	assert.True(t, m.At(180, 120))
	assert.False(t, m.At(0, 0))
	assert.False(t, m.At(-1, 10))
	assert.False(t, m.At(cfg.Width, 10))

	img := m.Image()
	assert.Equal(t, cfg.Width, img.Bounds().Dx())
	assert.Equal(t, uint8(0xff), img.GrayAt(180, 420).Y)
	assert.Equal(t, uint8(0), img.GrayAt(0, 0).Y)
}
