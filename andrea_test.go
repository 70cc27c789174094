/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/Seednode/maboulbox/scores"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissionFlow(t *testing.T) {
	a, srv := newTestServer(t, testConfig(t))
	c, token := login(t, srv, "Marie", "Curie")

	steps := a.missions.mission.Steps
	require.GreaterOrEqual(t, len(steps), 2)
	require.NotEmpty(t, steps[1].Hints)

	_, body := get(t, c, srv.URL+"/andrea")
	assert.Contains(t, body, "Start the clock")

	resp := postForm(t, c, srv.URL+"/andrea/check", url.Values{"answer": {steps[0].Answers[0]}})
	assert.Equal(t, "/andrea", resp.Header.Get("Location"))
	_, body = get(t, c, srv.URL+"/andrea")
	assert.Contains(t, body, "Start the mission first.")

	postForm(t, c, srv.URL+"/andrea/start", nil)

	postForm(t, c, srv.URL+"/andrea/check", url.Values{"answer": {"wrong"}})
	_, body = get(t, c, srv.URL+"/andrea")
	assert.Contains(t, body, "Wrong code. Penalty: "+scores.FormatPenalty(steps[0].Penalty)+".")

	postForm(t, c, srv.URL+"/andrea/check", url.Values{"answer": {" " + steps[0].Answers[0] + " "}})
	_, body = get(t, c, srv.URL+"/andrea")
	assert.Contains(t, body, "Correct!")
	assert.Contains(t, body, "Step 2/")

	postForm(t, c, srv.URL+"/andrea/hint", nil)
	_, body = get(t, c, srv.URL+"/andrea")
	assert.Contains(t, body, "Hint revealed.")

	for _, step := range steps[1:] {
		postForm(t, c, srv.URL+"/andrea/check", url.Values{"answer": {step.Answers[0]}})
	}

	assert.True(t, a.missions.done(token))

	_, body = get(t, c, srv.URL+"/andrea")
	assert.Contains(t, body, "Mission complete")
	assert.Contains(t, body, "Rank: <strong>#1</strong>")

	recs, err := a.store.List(t.Context(), scores.Andrea)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Marie Curie", recs[0].Name)
	assert.Equal(t, steps[0].Penalty+steps[1].Hints[0].Penalty, recs[0].PenaltyTime)

	secs, ok := recs[0].SecondsValue()
	require.True(t, ok)
	assert.GreaterOrEqual(t, secs, int64(recs[0].PenaltyTime)*1000)

	postForm(t, c, srv.URL+"/andrea/check", url.Values{"answer": {"again"}})
	_, body = get(t, c, srv.URL+"/andrea")
	assert.Contains(t, body, "Mission complete")

	recs, err = a.store.List(t.Context(), scores.Andrea)
	require.NoError(t, err)
	assert.Len(t, recs, 1, "a finished run is stored once")
}

func TestMissionPictures(t *testing.T) {
	cfg := testConfig(t)
	cfg.quizDir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(cfg.quizDir, "hint.png"), []byte("\x89PNG\r\n\x1a\n"), 0o644))

	_, srv := newTestServer(t, cfg)

	resp, _ := get(t, newClient(t), srv.URL+"/andrea/images/hint.png")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	resp, _ = get(t, newClient(t), srv.URL+"/andrea/images/missing.png")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = get(t, newClient(t), srv.URL+"/andrea/images/..")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
