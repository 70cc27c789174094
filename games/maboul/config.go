/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package maboul

import (
	"errors"
	"fmt"
	"time"
)

// Config holds the tunables shared by every challenge in a session.
type Config struct {
	Width  int
	Height int

	MaxAttempts int
	Cooldown    time.Duration

	BonusWindow time.Duration
	BonusRate   float64

	TargetTolerance float64
	GrabFactor      float64
	SampleInset     float64

	StartRadius  float64
	TargetRadius float64

	BaseSegments  int
	BaseAmplitude float64
	AmplitudeStep float64
	BendRatio     float64
	FlattenSteps  int
	MinSpan       float64

	TickInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		Width:           360,
		Height:          480,
		MaxAttempts:     3,
		Cooldown:        time.Second,
		BonusWindow:     30 * time.Second,
		BonusRate:       10,
		TargetTolerance: 15,
		GrabFactor:      2.5,
		SampleInset:     2,
		StartRadius:     16,
		TargetRadius:    12,
		BaseSegments:    4,
		BaseAmplitude:   20,
		AmplitudeStep:   10,
		BendRatio:       0.3,
		FlattenSteps:    32,
		MinSpan:         200,
		TickInterval:    100 * time.Millisecond,
	}
}

func (c Config) Validate() error {
	switch {
	case c.Width < 1 || c.Height < 1:
		return fmt.Errorf("invalid canvas size %dx%d", c.Width, c.Height)
	case c.MaxAttempts < 1:
		return fmt.Errorf("invalid attempt ceiling (must be at least 1): %d", c.MaxAttempts)
	case c.Cooldown < 0:
		return errors.New("cooldown must not be negative")
	case c.FlattenSteps < 1:
		return errors.New("flatten steps must be at least 1")
	case c.TickInterval <= 0:
		return errors.New("tick interval must be positive")
	}
	return nil
}

// Segments is the number of bends for a given difficulty.
func (c Config) Segments(difficulty int) int {
	return c.BaseSegments + difficulty
}

// Amplitude is the lateral control-point offset for a given difficulty.
func (c Config) Amplitude(difficulty int) float64 {
	return c.BaseAmplitude + c.AmplitudeStep*float64(difficulty)
}
