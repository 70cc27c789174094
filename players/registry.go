/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package players

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/Seednode/maboulbox/games/maboul"
)

type entry struct {
	player     maboul.Player
	lastActive time.Time
}

// Registry maps browser tokens to logged-in players. Entries idle for
// longer than the timeout are dropped by Run.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	idle    time.Duration
	now     func() time.Time
}

func NewRegistry(idle time.Duration) *Registry {
	return &Registry{
		entries: make(map[string]*entry),
		idle:    idle,
		now:     time.Now,
	}
}

// NewToken returns 16 random bytes, hex encoded.
func NewToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func (r *Registry) Login(token string, p maboul.Player) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[token] = &entry{player: p, lastActive: r.now()}
}

func (r *Registry) Logout(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, token)
}

// Lookup returns the player behind a token and marks it active.
func (r *Registry) Lookup(token string) (maboul.Player, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[token]
	if !ok {
		return maboul.Player{}, false
	}
	e.lastActive = r.now()
	return e.player, true
}

// For adapts a token to the engine's player lookup.
func (r *Registry) For(token string) maboul.PlayerLookup {
	return maboul.PlayerFunc(func() (maboul.Player, bool) {
		return r.Lookup(token)
	})
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.entries)
}

// Reap drops entries idle since before cutoff and returns how many.
func (r *Registry) Reap(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for token, e := range r.entries {
		if e.lastActive.Before(cutoff) {
			delete(r.entries, token)
			n++
		}
	}
	return n
}

// Run reaps idle entries every half timeout until ctx is done.
func (r *Registry) Run(ctx context.Context, logf func(string, ...any)) {
	if r.idle <= 0 {
		return
	}

	ticker := time.NewTicker(r.idle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Reap(r.now().Add(-r.idle)); n > 0 && logf != nil {
				logf("PLAYERS: Expired %d idle login(s)", n)
			}
		}
	}
}
