/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"bytes"
	"html/template"
	"net/http"
	"time"

	"github.com/Seednode/maboulbox/games/maboul"
	"github.com/Seednode/maboulbox/games/maboul/sound"
	"github.com/Seednode/maboulbox/players"
	"github.com/Seednode/maboulbox/scores"
	"github.com/dustin/go-humanize"
)

// app holds everything the handlers share.
type app struct {
	cfg      *Config
	store    scores.Store
	players  *players.Registry
	catalog  func() []maboul.Challenge
	engines  *engineManager
	missions *missionManager
	quizzes  *quizManager
	bank     *sound.Bank
	pages    *template.Template
	now      func() time.Time
}

func newApp(cfg *Config) (*app, error) {
	catalog, err := cfg.challenges()
	if err != nil {
		return nil, err
	}

	mission, err := cfg.loadMission()
	if err != nil {
		return nil, err
	}

	bank, err := sound.NewBank()
	if err != nil {
		return nil, err
	}

	pages, err := parsePages()
	if err != nil {
		return nil, err
	}

	store, err := cfg.openScores()
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:      cfg,
		store:    store,
		players:  players.NewRegistry(cfg.playerTimeout),
		catalog:  catalog,
		missions: newMissionManager(mission),
		quizzes:  newQuizManager(),
		bank:     bank,
		pages:    pages,
		now:      time.Now,
	}
	a.engines = newEngineManager(a, cfg.sessionTimeout)

	return a, nil
}

func (a *app) close() {
	a.engines.closeAll()
	closeStore(a.cfg, a.store)
}

func (a *app) logger() func(format string, args ...any) {
	return func(format string, args ...any) { logf(a.cfg, format, args...) }
}

// view is the data every page template receives.
type view struct {
	Title  string
	Prefix string
	Player *maboul.Player
	Flash  string
	Data   any
}

func (a *app) view(r *http.Request, title string, data any) view {
	v := view{Title: title, Prefix: a.cfg.prefix, Data: data}
	if _, p, ok := a.currentPlayer(r); ok {
		v.Player = &p
	}
	return v
}

// render executes a page template and writes it in one go, so a template
// error never leaves a half-written page.
func (a *app) render(w http.ResponseWriter, r *http.Request, errs chan<- error, name string, v view) {
	startTime := time.Now()

	var buf bytes.Buffer
	if err := a.pages.ExecuteTemplate(&buf, name, v); err != nil {
		panic(err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	securityHeaders(a.cfg, w)

	written, err := w.Write(buf.Bytes())
	if err != nil {
		errs <- err

		return
	}

	logf(a.cfg, "SERVE: %s page (%s) to %s in %s",
		v.Title,
		humanize.Bytes(uint64(written)),
		realIP(r),
		time.Since(startTime).Round(time.Microsecond),
	)
}

func (a *app) redirect(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, a.cfg.prefix+path, http.StatusSeeOther)
}
