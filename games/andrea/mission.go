/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package andrea runs the timed code-breaking mission. Wrong answers and
// hints add penalty seconds to the clock.
package andrea

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed mission.yaml
var defaultMission []byte

var ErrInvalidMission = errors.New("invalid mission")

type Hint struct {
	Text    string `yaml:"text"`
	Image   string `yaml:"image"`
	Penalty int    `yaml:"penalty"`
}

// Step is one code to crack. Answers are compared upper-cased and trimmed.
type Step struct {
	ID      string   `yaml:"id"`
	Title   string   `yaml:"title"`
	Prompt  string   `yaml:"prompt"`
	Clues   []string `yaml:"clues"`
	Options []string `yaml:"options"`
	Answers []string `yaml:"answers"`
	Penalty int      `yaml:"penalty"`
	Hints   []Hint   `yaml:"hints"`
}

func normalizeAnswer(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Accepts reports whether the answer solves the step.
func (s Step) Accepts(answer string) bool {
	answer = normalizeAnswer(answer)
	if answer == "" {
		return false
	}
	for _, a := range s.Answers {
		if normalizeAnswer(a) == answer {
			return true
		}
	}
	return false
}

type Mission struct {
	Title string `yaml:"title"`
	Game  string `yaml:"game"`
	Steps []Step `yaml:"steps"`
}

func (m Mission) Validate() error {
	if len(m.Steps) == 0 {
		return fmt.Errorf("%w: no steps", ErrInvalidMission)
	}

	seen := make(map[string]bool, len(m.Steps))
	for i, s := range m.Steps {
		switch {
		case s.ID == "":
			return fmt.Errorf("%w: step %d has no id", ErrInvalidMission, i+1)
		case seen[s.ID]:
			return fmt.Errorf("%w: duplicate step %q", ErrInvalidMission, s.ID)
		case len(s.Answers) == 0:
			return fmt.Errorf("%w: step %q has no answer", ErrInvalidMission, s.ID)
		case s.Penalty < 0:
			return fmt.Errorf("%w: step %q has a negative penalty", ErrInvalidMission, s.ID)
		}
		for _, h := range s.Hints {
			if h.Penalty < 0 {
				return fmt.Errorf("%w: step %q has a negative hint penalty", ErrInvalidMission, s.ID)
			}
		}
		seen[s.ID] = true
	}
	return nil
}

func Parse(b []byte) (Mission, error) {
	var m Mission
	if err := yaml.Unmarshal(b, &m); err != nil {
		return Mission{}, fmt.Errorf("%w: %v", ErrInvalidMission, err)
	}
	if m.Game == "" {
		m.Game = "andrea"
	}
	if err := m.Validate(); err != nil {
		return Mission{}, err
	}
	return m, nil
}

// Load reads a mission file, or returns the built-in mission when path is
// empty.
func Load(path string) (Mission, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Mission{}, err
	}
	return Parse(b)
}

func Default() Mission {
	m, err := Parse(defaultMission)
	if err != nil {
		panic("andrea: built-in mission: " + err.Error())
	}
	return m
}
