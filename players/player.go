/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package players handles hub logins: who is playing, which browser they
// are on, and whether they have already taken their one attempt.
package players

import (
	"context"
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Seednode/maboulbox/games/maboul"
	"github.com/Seednode/maboulbox/scores"
)

var (
	ErrIncomplete    = errors.New("first and last name are required")
	ErrAlreadyPlayed = errors.New("a result is already recorded under this name")
)

// First names allowed to play any number of times.
var exempt = map[string]bool{
	"Debug": true,
	"Auto":  true,
}

// Capitalize upper-cases the first letter and lower-cases the rest.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// New builds a player from raw form input.
func New(first, last string) (maboul.Player, error) {
	first, last = strings.TrimSpace(first), strings.TrimSpace(last)
	if first == "" || last == "" {
		return maboul.Player{}, ErrIncomplete
	}
	first, last = Capitalize(first), Capitalize(last)
	return maboul.Player{
		Name:      first + " " + last,
		FirstName: first,
		LastName:  last,
	}, nil
}

// Lister is the part of a score store the availability check needs.
type Lister interface {
	List(ctx context.Context, f scores.Filter) ([]scores.Record, error)
}

// PlayedAs reports whether a stored name belongs to the player, either
// directly or as the real name of a mission agent, "Agent (Jean Dupont)".
func PlayedAs(stored string, p maboul.Player) bool {
	stored, name := strings.ToUpper(stored), strings.ToUpper(p.Name)
	return stored == name || strings.Contains(stored, "("+name+")")
}

// Exempt reports whether the player may replay as often as they like.
// Names are capitalized on login, so any casing of Debug or Auto counts.
func Exempt(p maboul.Player) bool {
	return exempt[p.FirstName]
}

// CheckAvailable refuses players who already have a recorded result. A
// store that cannot be read lets everyone in.
func CheckAvailable(ctx context.Context, store Lister, p maboul.Player, logf func(string, ...any)) error {
	if Exempt(p) {
		return nil
	}

	recs, err := store.List(ctx, scores.All)
	if err != nil {
		if logf != nil {
			logf("PLAYERS: Score store unavailable, allowing %s: %v", p.Name, err)
		}
		return nil
	}

	for _, r := range recs {
		if PlayedAs(r.Name, p) {
			return ErrAlreadyPlayed
		}
	}
	return nil
}
