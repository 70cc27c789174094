/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package maboul

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	cfg := DefaultConfig()
	cat := DefaultCatalog()
	require.Len(t, cat, 6)

	for _, c := range cat {
		assert.NoError(t, c.Validate(cfg), c.ID)
	}

	cat[0].Solved = true
	assert.False(t, DefaultCatalog()[0].Solved, "each call returns a fresh copy")
}

func TestHalfWidthNarrowsWithDifficulty(t *testing.T) {
	for d := 2; d <= 6; d++ {
		assert.Less(t, HalfWidthFor(d), HalfWidthFor(d-1), "D=%d", d)
	}
}

func TestLoadCatalog(t *testing.T) {
	cfg := DefaultConfig()
	dir := t.TempDir()

	good := filepath.Join(dir, "catalog.toml")
	require.NoError(t, os.WriteFile(good, []byte(`
[[challenge]]
id = "key"
name = "Clé"
emoji = "🔑"
size = 5
reward = 200
difficulty = 2
start = { x = 180, y = 440 }
target = { x = 180, y = 160 }

[[challenge]]
id = "coin"
name = "Pièce"
size = 3
reward = 900
difficulty = 4
half_width = 3
start = { x = 90, y = 440 }
target = { x = 120, y = 120 }
`), 0o644))

	cat, err := LoadCatalog(good, cfg)
	require.NoError(t, err)
	require.Len(t, cat, 2)
	assert.Equal(t, "Clé", cat[0].Name)
	assert.Equal(t, HalfWidthFor(2), cat[0].HalfWidth)
	assert.Equal(t, 3.0, cat[1].HalfWidth)
	assert.Equal(t, Pt(120, 120), cat[1].Target)

	source, err := CatalogSource(good, cfg)
	require.NoError(t, err)
	first := source()
	first[0].Solved = true
	assert.False(t, source()[0].Solved)

	t.Run("rejects narrow channel", func(t *testing.T) {
		path := filepath.Join(dir, "narrow.toml")
		require.NoError(t, os.WriteFile(path, []byte(`
[[challenge]]
id = "anvil"
size = 9
reward = 10
difficulty = 3
start = { x = 180, y = 440 }
target = { x = 180, y = 160 }
`), 0o644))
		_, err := LoadCatalog(path, cfg)
		assert.ErrorIs(t, err, ErrInvalidChallenge)
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		path := filepath.Join(dir, "dupe.toml")
		entry := "[[challenge]]\nid = \"x\"\nsize = 4\nreward = 1\ndifficulty = 1\nstart = { x = 180, y = 440 }\ntarget = { x = 180, y = 160 }\n"
		require.NoError(t, os.WriteFile(path, []byte(entry+entry), 0o644))
		_, err := LoadCatalog(path, cfg)
		assert.ErrorIs(t, err, ErrInvalidChallenge)
	})

	t.Run("rejects short span", func(t *testing.T) {
		c := DefaultCatalog()[0]
		c.Target = Pt(c.Target.X, c.Start.Y-100)
		assert.ErrorIs(t, c.Validate(cfg), ErrInvalidChallenge)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := CatalogSource(filepath.Join(dir, "nope.toml"), cfg)
		assert.Error(t, err)
	})
}
