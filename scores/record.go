/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package scores stores and ranks finished game results.
package scores

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	GameMaboul = "maboul"
	GameAndrea = "andrea"

	maxNameLength = 30
)

var ErrInvalidRecord = errors.New("invalid data - need name and points or seconds")

// ObjectDetail is the per-object breakdown of an extraction run.
type ObjectDetail struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Emoji     string `json:"emoji,omitempty"`
	Succeeded bool   `json:"succeeded"`
	Failed    bool   `json:"failed"`
	TimeMs    int64  `json:"timeMs"`
	Reward    int    `json:"reward"`
	Attempts  int    `json:"attempts"`
}

// Record is one stored result. Points ranks extraction runs, Seconds
// (in milliseconds) ranks mission runs.
type Record struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Game      string `json:"game,omitempty"`

	Points  *int   `json:"points,omitempty"`
	Seconds *int64 `json:"seconds,omitempty"`

	Time        string `json:"time,omitempty"`
	PenaltyTime int    `json:"penaltyTime,omitempty"`

	TotalTime        int64          `json:"totalTime,omitempty"`
	FormattedTime    string         `json:"formattedTime,omitempty"`
	ObjectsSucceeded int            `json:"objectsSucceeded,omitempty"`
	ObjectsFailed    int            `json:"objectsFailed,omitempty"`
	ObjectsDetails   []ObjectDetail `json:"objectsDetails,omitempty"`

	Timestamp int64     `json:"timestamp,omitempty"`
	Date      time.Time `json:"date"`
}

func Int(v int) *int       { return &v }
func Int64(v int64) *int64 { return &v }

func (r Record) PointsValue() int {
	if r.Points == nil {
		return 0
	}
	return *r.Points
}

// SecondsValue is the recorded duration in milliseconds, and false when
// the record has none.
func (r Record) SecondsValue() (int64, bool) {
	if r.Seconds == nil {
		return 0, false
	}
	return *r.Seconds, true
}

// Normalize validates a submitted record and fills in what the server
// owns: id, date, timestamp, and points for time-only results.
func Normalize(r Record, now time.Time) (Record, error) {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" || (r.Points == nil && r.Seconds == nil) {
		return Record{}, ErrInvalidRecord
	}
	if r.Points != nil && *r.Points < 0 {
		return Record{}, fmt.Errorf("%w: negative points", ErrInvalidRecord)
	}
	if r.Seconds != nil && *r.Seconds < 0 {
		return Record{}, fmt.Errorf("%w: negative time", ErrInvalidRecord)
	}

	r.Name = truncate(r.Name, maxNameLength)
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Date.IsZero() {
		r.Date = now
	}
	if r.Timestamp == 0 {
		r.Timestamp = r.Date.UnixMilli()
	}
	if r.Points == nil {
		r.Points = Int(int(max(0, 10000-*r.Seconds/1000)))
	}
	return r, nil
}

// Filter selects the records of one game.
type Filter string

const (
	All    Filter = ""
	Maboul Filter = GameMaboul
	Andrea Filter = GameAndrea
)

func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case All, Maboul, Andrea:
		return f, nil
	}
	return All, fmt.Errorf("unknown game %q", s)
}

// Match reports whether r belongs to the filter. Extraction results
// predate the game field, so a record without one counts as extraction.
func (f Filter) Match(r Record) bool {
	switch f {
	case Maboul:
		return r.Game == "" || r.Game == GameMaboul
	case Andrea:
		return strings.HasPrefix(r.Game, GameAndrea)
	}
	return true
}

func Apply(recs []Record, f Filter) []Record {
	out := make([]Record, 0, len(recs))
	for _, r := range recs {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	Sort(out, f)
	return out
}

// Sort orders mission results by time ascending and everything else by
// points descending. Ties go to whoever finished first.
func Sort(recs []Record, f Filter) {
	sort.SliceStable(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if f == Andrea {
			as, aok := a.SecondsValue()
			bs, bok := b.SecondsValue()
			if aok != bok {
				return aok
			}
			if as != bs {
				return as < bs
			}
		} else if a.PointsValue() != b.PointsValue() {
			return a.PointsValue() > b.PointsValue()
		}
		return a.Date.Before(b.Date)
	})
}

// Top returns at most n records.
func Top(recs []Record, n int) []Record {
	if n >= 0 && len(recs) > n {
		return recs[:n]
	}
	return recs
}

// Rank is the 1-based position of the first record with the given id, or 0.
func Rank(recs []Record, id string) int {
	for i, r := range recs {
		if r.ID == id {
			return i + 1
		}
	}
	return 0
}

// truncate keeps at most n runes of s.
func truncate(s string, n int) string {
	for i := range s {
		if n == 0 {
			return s[:i]
		}
		n--
	}
	return s
}
