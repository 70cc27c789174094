/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package scores

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// SplitAgent splits a mission name of the form "Agent (Real Name)".
func SplitAgent(name string) (agent, real string) {
	open := strings.LastIndex(name, "(")
	if open < 0 || !strings.HasSuffix(name, ")") {
		return strings.TrimSpace(name), ""
	}
	return strings.TrimSpace(name[:open]), strings.TrimSpace(name[open+1 : len(name)-1])
}

// FormatPenalty renders a penalty in seconds as "Xmin Ys".
func FormatPenalty(seconds int) string {
	if seconds <= 0 {
		return "0s"
	}
	m, s := seconds/60, seconds%60
	switch {
	case m == 0:
		return fmt.Sprintf("%ds", s)
	case s == 0:
		return fmt.Sprintf("%dmin", m)
	}
	return fmt.Sprintf("%dmin %ds", m, s)
}

// FormatDuration renders milliseconds as MM:SS.
func FormatDuration(ms int64) string {
	total := max(0, ms/1000)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// Summary is the one-line result shown in score listings.
func (r Record) Summary() string {
	if strings.HasPrefix(r.Game, GameAndrea) {
		if r.Time != "" {
			return r.Time
		}
		if ms, ok := r.SecondsValue(); ok {
			return FormatDuration(ms)
		}
	}
	return humanize.Comma(int64(r.PointsValue())) + " pts"
}

// Ago renders the record date relative to now.
func (r Record) Ago(now time.Time) string {
	if r.Date.IsZero() {
		return ""
	}
	return humanize.RelTime(r.Date, now, "ago", "from now")
}
