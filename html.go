/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Seednode/maboulbox/scores"
	"github.com/dustin/go-humanize"
	"github.com/julienschmidt/httprouter"
)

//go:embed assets/*
var assets embed.FS

func parsePages() (*template.Template, error) {
	funcs := template.FuncMap{
		"comma":   func(n int) string { return humanize.Comma(int64(n)) },
		"elapsed": func(ms int64) string { return scores.FormatDuration(ms) },
		"penalty": scores.FormatPenalty,
		"inc":     func(i int) int { return i + 1 },
	}
	return template.New("").Funcs(funcs).ParseFS(assets, "assets/*.html")
}

func serveHealthCheck(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(cfg, w)

		_, err := w.Write([]byte("Ok\n"))
		if err != nil {
			errs <- err

			return
		}
	}
}

func serveAssets(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		fname := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, cfg.prefix), "/")

		if strings.HasSuffix(fname, ".html") {
			http.NotFound(w, r)

			return
		}

		data, err := assets.ReadFile(fname)
		if err != nil {
			http.NotFound(w, r)

			return
		}

		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		securityHeaders(cfg, w)

		switch strings.ToLower(filepath.Ext(fname)) {
		case ".css":
			w.Header().Set("Content-Type", "text/css; charset=utf-8")
		case ".js":
			w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
		case ".svg":
			w.Header().Set("Content-Type", "image/svg+xml")
		}

		_, err = w.Write(data)
		if err != nil {
			errs <- err

			return
		}
	}
}

func serveRobots(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		data := `User-agent: *
Disallow: /`

		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		securityHeaders(cfg, w)

		_, err := w.Write([]byte(data))
		if err != nil {
			errs <- err

			return
		}
	}
}

var loginErrors = map[string]string{
	"incomplete": "Please enter your first and last name.",
	"played":     "A result is already recorded under this name. One attempt each!",
	"required":   "Log in first.",
}

type leaderboard struct {
	Title string
	Rows  []scores.Record
	Time  bool
}

type homeData struct {
	Error        string
	QuizRequired bool
	QuizPassed   bool
	MissionDone  bool
	AdminEnabled bool
	Boards       []leaderboard
}

func (a *app) serveHomePage(errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		data := homeData{
			Error:        loginErrors[r.URL.Query().Get("error")],
			QuizRequired: a.cfg.requireQuiz,
			AdminEnabled: a.cfg.adminCode != "",
		}

		if token, _, ok := a.currentPlayer(r); ok {
			data.QuizPassed = a.quizzes.passed(token)
			data.MissionDone = a.missions.done(token)
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		data.Boards = []leaderboard{
			{Title: "Docteur Maboul", Rows: a.top(ctx, scores.Maboul)},
			{Title: "Opération Andréa", Rows: a.top(ctx, scores.Andrea), Time: true},
		}

		a.render(w, r, errs, "index.html", a.view(r, "maboulbox", data))
	}
}

// top lists the leaderboard of one game, empty when the store is down.
func (a *app) top(ctx context.Context, f scores.Filter) []scores.Record {
	recs, err := a.store.List(ctx, f)
	if err != nil {
		logf(a.cfg, "SCORES: Leaderboard unavailable: %v", err)
		return nil
	}
	return scores.Top(recs, leaderboardSize)
}
