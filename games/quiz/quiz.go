/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package quiz is the "four pictures, one person" gate played before the
// extraction game.
package quiz

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

const (
	DefaultRounds  = 5
	DefaultOptions = 4
	DefaultPass    = 5
)

var (
	ErrTooFewPeople = errors.New("not enough people for the quiz")
	ErrOver         = errors.New("quiz is over")
	ErrBadOption    = errors.New("not one of the offered options")
)

type Person struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

func DefaultPeople() []Person {
	names := []string{
		"Lounes", "Haitam", "Anoj", "Mathilde", "Doriane", "Mickael", "Kilian",
		"Adelin", "Louis", "Michael", "Hippolyte", "Antoine", "Florentin", "Bénédicte",
	}
	out := make([]Person, len(names))
	for i, n := range names {
		out[i] = Person{ID: i, Name: n, Image: fmt.Sprintf("images/image%d.jpeg", i)}
	}
	return out
}

// Round shows one person and the names to pick from.
type Round struct {
	Person  Person   `json:"-"`
	Options []Person `json:"options"`
}

type Settings struct {
	Rounds  int
	Options int
	Pass    int
}

func DefaultSettings() Settings {
	return Settings{Rounds: DefaultRounds, Options: DefaultOptions, Pass: DefaultPass}
}

type Quiz struct {
	settings Settings
	rounds   []Round
	current  int
	correct  int
}

// New draws distinct people for every round, each with a shuffled set of
// options that contains the right answer once.
func New(people []Person, s Settings, rng *rand.Rand) (*Quiz, error) {
	if s.Rounds <= 0 || s.Options <= 1 || s.Pass > s.Rounds {
		return nil, fmt.Errorf("invalid quiz settings %+v", s)
	}
	if len(people) < max(s.Rounds, s.Options) {
		return nil, ErrTooFewPeople
	}

	picked := shuffled(people, rng)[:s.Rounds]

	q := &Quiz{settings: s, rounds: make([]Round, 0, s.Rounds)}
	for _, p := range picked {
		others := make([]Person, 0, len(people)-1)
		for _, o := range people {
			if o.ID != p.ID {
				others = append(others, o)
			}
		}
		others = shuffled(others, rng)

		opts := append([]Person{p}, others[:s.Options-1]...)
		q.rounds = append(q.rounds, Round{Person: p, Options: shuffled(opts, rng)})
	}
	return q, nil
}

func shuffled(people []Person, rng *rand.Rand) []Person {
	out := append([]Person(nil), people...)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Round returns the current round and its 1-based number.
func (q *Quiz) Round() (Round, int, bool) {
	if q.Done() {
		return Round{}, 0, false
	}
	return q.rounds[q.current], q.current + 1, true
}

// Answer picks an option of the current round and moves to the next one.
func (q *Quiz) Answer(id int) (bool, error) {
	r, _, ok := q.Round()
	if !ok {
		return false, ErrOver
	}

	offered := false
	for _, o := range r.Options {
		if o.ID == id {
			offered = true
			break
		}
	}
	if !offered {
		return false, ErrBadOption
	}

	q.current++
	if id == r.Person.ID {
		q.correct++
		return true, nil
	}
	return false, nil
}

func (q *Quiz) Rounds() int   { return len(q.rounds) }
func (q *Quiz) Correct() int  { return q.correct }
func (q *Quiz) Done() bool    { return q.current >= len(q.rounds) }
func (q *Quiz) Passed() bool  { return q.Done() && q.correct >= q.settings.Pass }
func (q *Quiz) Progress() int { return q.current * 100 / len(q.rounds) }
