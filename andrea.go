/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/Seednode/maboulbox/games/andrea"
	"github.com/Seednode/maboulbox/games/maboul"
	"github.com/Seednode/maboulbox/scores"
	"github.com/julienschmidt/httprouter"
)

type missionState struct {
	run     *andrea.Run
	hints   []andrea.Hint
	message string
	rank    int
	saved   bool
}

// missionManager keeps one mission run per player token.
type missionManager struct {
	mu      sync.Mutex
	mission andrea.Mission
	runs    map[string]*missionState
}

func newMissionManager(m andrea.Mission) *missionManager {
	return &missionManager{
		mission: m,
		runs:    make(map[string]*missionState),
	}
}

// with runs f on the player's state under the manager lock, creating the
// state on first use.
func (m *missionManager) with(token string, f func(*missionState)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.runs[token]
	if !ok {
		st = &missionState{run: andrea.NewRun(m.mission)}
		m.runs[token] = st
	}
	f(st)
}

func (m *missionManager) done(token string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.runs[token]
	return ok && st.run.Done()
}

func (m *missionManager) drop(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.runs, token)
}

type andreaData struct {
	Mission   andrea.Mission
	Started   bool
	Done      bool
	Step      andrea.Step
	Number    int
	Total     int
	Hints     []andrea.Hint
	HintsLeft int
	Penalty   int
	Elapsed   int64
	Message   string
	Rank      int
	Saved     bool
}

func (a *app) serveAndreaPage(errs chan<- error) httprouter.Handle {
	return a.requirePlayer(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params, token string, _ maboul.Player) {
		var data andreaData

		a.missions.with(token, func(st *missionState) {
			run := st.run
			step, _ := run.Step()
			data = andreaData{
				Mission:   run.Mission(),
				Started:   run.Started(),
				Done:      run.Done(),
				Step:      step,
				Number:    run.Index() + 1,
				Total:     len(run.Mission().Steps),
				Hints:     st.hints,
				HintsLeft: run.HintsLeft(),
				Penalty:   run.Penalty(),
				Elapsed:   run.Elapsed(a.now()).Milliseconds(),
				Message:   st.message,
				Rank:      st.rank,
				Saved:     st.saved,
			}
			st.message = ""
		})

		a.render(w, r, errs, "andrea.html", a.view(r, data.Mission.Title, data))
	})
}

func (a *app) serveAndreaStart() httprouter.Handle {
	return a.requirePlayer(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params, token string, p maboul.Player) {
		a.missions.with(token, func(st *missionState) {
			if !st.run.Started() {
				st.run.Start(a.now())
				logf(a.cfg, "GAMES: %s started the mission", p.Name)
			}
		})

		a.redirect(w, r, "/andrea")
	})
}

func (a *app) serveAndreaCheck() httprouter.Handle {
	return a.requirePlayer(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params, token string, p maboul.Player) {
		answer := r.PostFormValue("answer")

		var rec scores.Record
		var finished bool

		a.missions.with(token, func(st *missionState) {
			res, err := st.run.Check(answer, a.now())
			switch {
			case errors.Is(err, andrea.ErrNotStarted):
				st.message = "Start the mission first."
			case errors.Is(err, andrea.ErrComplete):
				st.message = "Mission already complete."
			case err != nil:
				st.message = err.Error()
			case !res.Correct:
				st.message = "Wrong code."
				if res.Penalty > 0 {
					st.message += " Penalty: " + scores.FormatPenalty(res.Penalty) + "."
				}
			case res.Done:
				st.message = "Mission complete!"
				st.hints = nil
				rec, err = st.run.Record(p)
				finished = err == nil
			default:
				st.message = "Correct!"
				st.hints = nil
			}
		})

		if finished {
			a.saveMission(r.Context(), token, p, rec)
		}

		a.redirect(w, r, "/andrea")
	})
}

// saveMission stores a completed run and remembers its rank.
func (a *app) saveMission(ctx context.Context, token string, p maboul.Player, rec scores.Record) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	stored, err := a.store.Submit(ctx, rec)
	if err != nil {
		logf(a.cfg, "SCORES: Unable to save mission for %s: %v", p.Name, err)
		a.missions.with(token, func(st *missionState) {
			st.message = "Mission complete, but your time could not be saved. Tell the organizer!"
		})
		return
	}

	rank := 0
	if recs, err := a.store.List(ctx, scores.Andrea); err == nil {
		rank = scores.Rank(recs, stored.ID)
	}

	logf(a.cfg, "GAMES: %s finished the mission in %s", p.Name, stored.Time)

	a.missions.with(token, func(st *missionState) {
		st.saved = true
		st.rank = rank
	})
}

func (a *app) serveAndreaHint() httprouter.Handle {
	return a.requirePlayer(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params, token string, _ maboul.Player) {
		a.missions.with(token, func(st *missionState) {
			h, ok, err := st.run.Hint()
			switch {
			case err != nil:
				st.message = "No mission step to give a hint for."
			case !ok:
				st.message = "No more hints for this step."
			default:
				st.hints = append(st.hints, h)
				st.message = "Hint revealed. Penalty: " + scores.FormatPenalty(h.Penalty) + "."
			}
		})

		a.redirect(w, r, "/andrea")
	})
}

func (a *app) registerAndrea(mux *httprouter.Router, errs chan<- error) {
	mux.GET(a.cfg.prefix+"/andrea", a.serveAndreaPage(errs))
	mux.POST(a.cfg.prefix+"/andrea/start", a.serveAndreaStart())
	mux.POST(a.cfg.prefix+"/andrea/check", a.serveAndreaCheck())
	mux.POST(a.cfg.prefix+"/andrea/hint", a.serveAndreaHint())
	mux.GET(a.cfg.prefix+"/andrea/images/:name", a.serveMedia(errs))
}
