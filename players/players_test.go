/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package players

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Seednode/maboulbox/games/maboul"
	"github.com/Seednode/maboulbox/scores"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	p, err := New("  jEAN ", "dupont")
	require.NoError(t, err)
	assert.Equal(t, maboul.Player{Name: "Jean Dupont", FirstName: "Jean", LastName: "Dupont"}, p)

	p, err = New("élodie", "ÉTÉ")
	require.NoError(t, err)
	assert.Equal(t, "Élodie Été", p.Name)

	_, err = New("Jean", " ")
	assert.ErrorIs(t, err, ErrIncomplete)
}

func TestExempt(t *testing.T) {
	tests := map[string]bool{
		"Debug":    true,
		"debug":    true,
		"AUTO":     true,
		"Jean":     false,
		"Debugger": false,
	}
	for first, want := range tests {
		p, err := New(first, "Tester")
		require.NoError(t, err)
		assert.Equal(t, want, Exempt(p), first)
	}
}

type listFunc func() ([]scores.Record, error)

func (f listFunc) List(context.Context, scores.Filter) ([]scores.Record, error) { return f() }

func TestCheckAvailable(t *testing.T) {
	played := listFunc(func() ([]scores.Record, error) {
		return []scores.Record{
			{Name: "JEAN DUPONT"},
			{Name: "Moneypenny (Claire Martin)", Game: scores.GameAndrea},
		}, nil
	})

	tests := []struct {
		first, last string
		want        error
	}{
		{"jean", "dupont", ErrAlreadyPlayed},
		{"claire", "martin", ErrAlreadyPlayed},
		{"claire", "dupont", nil},
		{"debug", "dupont", nil},
		{"auto", "martin", nil},
	}

	for _, tt := range tests {
		p, err := New(tt.first, tt.last)
		require.NoError(t, err)

		err = CheckAvailable(context.Background(), played, p, nil)
		if tt.want == nil {
			assert.NoError(t, err, p.Name)
		} else {
			assert.ErrorIs(t, err, tt.want, p.Name)
		}
	}
}

func TestCheckAvailableStoreDown(t *testing.T) {
	down := listFunc(func() ([]scores.Record, error) { return nil, errors.New("offline") })

	var logged int
	p, _ := New("Jean", "Dupont")
	err := CheckAvailable(context.Background(), down, p, func(string, ...any) { logged++ })
	assert.NoError(t, err)
	assert.Equal(t, 1, logged)
}

func TestRegistry(t *testing.T) {
	now := time.Date(2026, 1, 10, 20, 0, 0, 0, time.UTC)
	r := NewRegistry(time.Hour)
	r.now = func() time.Time { return now }

	token, err := NewToken()
	require.NoError(t, err)
	assert.Len(t, token, 32)

	p, _ := New("Jean", "Dupont")
	r.Login(token, p)
	r.Login("other", maboul.Player{Name: "Ana Lima"})

	got, ok := r.For(token).CurrentPlayer()
	require.True(t, ok)
	assert.Equal(t, p, got)

	now = now.Add(45 * time.Minute)
	_, ok = r.Lookup(token)
	require.True(t, ok)

	assert.Equal(t, 1, r.Reap(now.Add(-30*time.Minute)))
	assert.Equal(t, 1, r.Len())

	r.Logout(token)
	_, ok = r.Lookup(token)
	assert.False(t, ok)
}

func TestRegistryRunStops(t *testing.T) {
	r := NewRegistry(10 * time.Millisecond)
	r.Login("stale", maboul.Player{Name: "Ana Lima"})
	r.now = func() time.Time { return time.Now().Add(time.Hour) }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx, nil)
		close(done)
	}()

	assert.Eventually(t, func() bool { return r.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}
