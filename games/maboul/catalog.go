/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package maboul

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/BurntSushi/toml"
)

var (
	ErrUnknownChallenge = errors.New("unknown challenge")
	ErrInvalidChallenge = errors.New("invalid challenge")
)

// Challenge is one extractable object and the channel it sits at the end of.
type Challenge struct {
	ID         string  `toml:"id" json:"id"`
	Name       string  `toml:"name" json:"name"`
	Emoji      string  `toml:"emoji" json:"emoji"`
	Size       float64 `toml:"size" json:"size"`
	Reward     int     `toml:"reward" json:"reward"`
	Difficulty int     `toml:"difficulty" json:"difficulty"`
	HalfWidth  float64 `toml:"half_width" json:"half_width"`
	Start      Point   `toml:"start" json:"start"`
	Target     Point   `toml:"target" json:"target"`

	Solved bool `toml:"-" json:"solved"`
	Failed bool `toml:"-" json:"failed"`
}

func (c Challenge) Resolved() bool {
	return c.Solved || c.Failed
}

// HalfWidthFor is the default channel half-width for a difficulty tier.
// It strictly narrows as difficulty rises.
func HalfWidthFor(difficulty int) float64 {
	switch {
	case difficulty <= 1:
		return 7
	case difficulty == 2:
		return 5
	default:
		return 10.5 / float64(difficulty)
	}
}

func challenge(id, name, emoji string, size float64, reward, difficulty int, start, target Point) Challenge {
	return Challenge{
		ID:         id,
		Name:       name,
		Emoji:      emoji,
		Size:       size,
		Reward:     reward,
		Difficulty: difficulty,
		HalfWidth:  HalfWidthFor(difficulty),
		Start:      start,
		Target:     target,
	}
}

// DefaultCatalog returns a fresh copy of the built-in objects laid out on
// the 360x480 reference canvas.
func DefaultCatalog() []Challenge {
	return []Challenge{
		challenge("bone", "Os", "🦴", 6, 150, 1, Pt(90, 440), Pt(90, 150)),
		challenge("butterfly", "Papillon", "🦋", 6, 150, 1, Pt(270, 440), Pt(270, 150)),
		challenge("heart", "Cœur", "💔", 6, 300, 2, Pt(180, 440), Pt(180, 130)),
		challenge("apple", "Pomme", "🍎", 6, 300, 2, Pt(110, 440), Pt(110, 190)),
		challenge("frog", "Grenouille", "🐸", 4, 600, 3, Pt(250, 440), Pt(250, 190)),
		challenge("bucket", "Seau", "🪣", 4, 600, 3, Pt(180, 440), Pt(180, 180)),
	}
}

type catalogFile struct {
	Challenges []Challenge `toml:"challenge"`
}

// LoadCatalog reads challenges from a TOML file made of [[challenge]]
// tables. A missing half_width falls back to the tier default.
func LoadCatalog(path string, cfg Config) ([]Challenge, error) {
	var f catalogFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if len(f.Challenges) == 0 {
		return nil, fmt.Errorf("catalog %s defines no challenges", path)
	}

	seen := make(map[string]bool, len(f.Challenges))
	for i := range f.Challenges {
		c := &f.Challenges[i]
		if c.HalfWidth == 0 {
			c.HalfWidth = HalfWidthFor(c.Difficulty)
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidChallenge, c.ID)
		}
		seen[c.ID] = true
		if err := c.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return f.Challenges, nil
}

// CatalogSource returns the default catalog, or the one at path when set.
func CatalogSource(path string, cfg Config) (func() []Challenge, error) {
	if path == "" {
		return DefaultCatalog, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	loaded, err := LoadCatalog(path, cfg)
	if err != nil {
		return nil, err
	}
	return func() []Challenge {
		return append([]Challenge(nil), loaded...)
	}, nil
}

// Validate checks that a piece following the centerline can never touch
// a wall and that both zones fit on the canvas.
func (c Challenge) Validate(cfg Config) error {
	fail := func(format string, args ...any) error {
		return fmt.Errorf("%w %q: %s", ErrInvalidChallenge, c.ID, fmt.Sprintf(format, args...))
	}

	switch {
	case c.ID == "":
		return fmt.Errorf("%w: missing id", ErrInvalidChallenge)
	case c.Difficulty < 1:
		return fail("difficulty must be at least 1, got %d", c.Difficulty)
	case c.Size <= 0:
		return fail("size must be positive, got %g", c.Size)
	case c.Reward < 0:
		return fail("reward must not be negative, got %d", c.Reward)
	}

	reach := math.Max(0, c.Size-cfg.SampleInset) + 0.75
	if c.HalfWidth < reach {
		return fail("half width %g is narrower than the piece footprint (%g)", c.HalfWidth, reach)
	}

	inside := func(p Point, r float64) bool {
		return p.X-r >= 0 && p.Y-r >= 0 && p.X+r <= float64(cfg.Width) && p.Y+r <= float64(cfg.Height)
	}
	if !inside(c.Start, cfg.StartRadius) {
		return fail("start zone leaves the canvas")
	}
	if !inside(c.Target, cfg.TargetRadius) {
		return fail("target zone leaves the canvas")
	}
	if math.Abs(c.Start.Y-c.Target.Y) < cfg.MinSpan {
		return fail("start and target must be at least %g units apart vertically", cfg.MinSpan)
	}
	return nil
}
