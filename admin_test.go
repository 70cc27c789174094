/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"io"
	"net/http"
	"net/url"
	"testing"

	"github.com/Seednode/maboulbox/scores"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminDisabledWithoutCode(t *testing.T) {
	cfg := testConfig(t)
	cfg.adminCode = ""
	_, srv := newTestServer(t, cfg)

	resp, _ := get(t, newClient(t), srv.URL+"/admin")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, body := get(t, newClient(t), srv.URL+"/")
	assert.NotContains(t, body, `href="/admin"`)
}

func TestAdminDashboard(t *testing.T) {
	a, srv := newTestServer(t, testConfig(t))

	_, err := a.store.Submit(t.Context(), scoreRecord("Jean Dupont", 1450))
	require.NoError(t, err)
	_, err = a.store.Submit(t.Context(), scores.Record{
		Name:        "Renard (Marie Curie)",
		Game:        scores.GameAndrea,
		Seconds:     scores.Int64(1_300_000),
		PenaltyTime: 630,
	})
	require.NoError(t, err)

	c := newClient(t)

	resp, body := get(t, c, srv.URL+"/admin")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `name="code"`)
	assert.NotContains(t, body, "Jean Dupont")

	resp = postForm(t, c, srv.URL+"/admin", url.Values{"code": {"nope"}})
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(b), "Wrong code.")
	assert.NotContains(t, string(b), "Jean Dupont")

	resp = postForm(t, c, srv.URL+"/admin", url.Values{"code": {"sesame"}})
	b, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	page := string(b)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, page, "Jean Dupont")
	assert.Contains(t, page, "1,450 pts")
	assert.Contains(t, page, "<td>Renard</td><td>Marie Curie</td>")
	assert.Contains(t, page, "10min 30s")
}
