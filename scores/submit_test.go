/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package scores

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Seednode/maboulbox/games/maboul"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitterStoresExtraction(t *testing.T) {
	store, err := OpenFile(filepath.Join(t.TempDir(), "scores.json"))
	require.NoError(t, err)

	sub := maboul.Submission{
		Player:  maboul.Player{Name: "Jean Dupont", FirstName: "Jean", LastName: "Dupont"},
		Points:  1330,
		Elapsed: 12345 * time.Millisecond,
		Outcomes: []maboul.Outcome{
			{ChallengeID: "bone", Name: "Os", Solved: true, Elapsed: 4 * time.Second, Reward: 410, Attempts: 1},
			{ChallengeID: "frog", Name: "Grenouille", Failed: true, Elapsed: 8345 * time.Millisecond, Attempts: 3},
		},
		FinishedAt: epoch,
	}
	require.NoError(t, Submitter(store).SubmitScore(context.Background(), sub))

	recs, err := store.List(context.Background(), Maboul)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	rec := recs[0]
	assert.Equal(t, GameMaboul, rec.Game)
	assert.Equal(t, 1330, rec.PointsValue())
	assert.Equal(t, int64(12345), rec.TotalTime)
	assert.Equal(t, "12.345s", rec.FormattedTime)
	assert.Equal(t, 1, rec.ObjectsSucceeded)
	assert.Equal(t, 1, rec.ObjectsFailed)
	require.Len(t, rec.ObjectsDetails, 2)
	assert.True(t, rec.ObjectsDetails[1].Failed)
	assert.Equal(t, 3, rec.ObjectsDetails[1].Attempts)
	assert.Equal(t, epoch, rec.Date.UTC())
}

func TestFormatting(t *testing.T) {
	agent, real := SplitAgent("Moneypenny (Claire Martin)")
	assert.Equal(t, "Moneypenny", agent)
	assert.Equal(t, "Claire Martin", real)

	agent, real = SplitAgent("Solo")
	assert.Equal(t, "Solo", agent)
	assert.Empty(t, real)

	assert.Equal(t, "0s", FormatPenalty(0))
	assert.Equal(t, "45s", FormatPenalty(45))
	assert.Equal(t, "10min", FormatPenalty(600))
	assert.Equal(t, "20min 30s", FormatPenalty(1230))

	assert.Equal(t, "12:34", FormatDuration(754_000))

	assert.Equal(t, "1,330 pts", Record{Points: Int(1330)}.Summary())
	assert.Equal(t, "07:00", Record{Game: GameAndrea, Seconds: Int64(420_000)}.Summary())

	assert.Equal(t, "2 hours ago", Record{Date: epoch}.Ago(epoch.Add(2*time.Hour)))
	assert.Empty(t, Record{}.Ago(epoch))
}
