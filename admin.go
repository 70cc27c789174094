/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/Seednode/maboulbox/scores"
	"github.com/julienschmidt/httprouter"
)

type adminRow struct {
	Rank     int
	Agent    string
	Real     string
	Summary  string
	Penalty  string
	Solved   int
	Failed   int
	Ago      string
	Detailed []scores.ObjectDetail
}

type adminData struct {
	Authorized bool
	Error      string
	Maboul     []adminRow
	Andrea     []adminRow
}

func (a *app) adminRows(ctx context.Context, f scores.Filter) []adminRow {
	recs, err := a.store.List(ctx, f)
	if err != nil {
		logf(a.cfg, "SCORES: Dashboard unavailable: %v", err)
		return nil
	}

	now := a.now()
	rows := make([]adminRow, 0, len(recs))
	for i, rec := range recs {
		agent, real := scores.SplitAgent(rec.Name)
		row := adminRow{
			Rank:     i + 1,
			Agent:    agent,
			Real:     real,
			Summary:  rec.Summary(),
			Solved:   rec.ObjectsSucceeded,
			Failed:   rec.ObjectsFailed,
			Ago:      rec.Ago(now),
			Detailed: rec.ObjectsDetails,
		}
		if f == scores.Andrea {
			row.Penalty = scores.FormatPenalty(rec.PenaltyTime)
		}
		rows = append(rows, row)
	}
	return rows
}

func (a *app) serveAdmin(errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		if a.cfg.adminCode == "" {
			http.NotFound(w, r)

			return
		}

		var data adminData

		if r.Method == http.MethodPost {
			code := r.PostFormValue("code")
			if subtle.ConstantTimeCompare([]byte(code), []byte(a.cfg.adminCode)) == 1 {
				ctx, cancel := context.WithTimeout(r.Context(), timeout)
				defer cancel()

				data.Authorized = true
				data.Maboul = a.adminRows(ctx, scores.Maboul)
				data.Andrea = a.adminRows(ctx, scores.Andrea)

				logf(a.cfg, "ADMIN: Dashboard opened from %s", realIP(r))
			} else {
				data.Error = "Wrong code."

				logf(a.cfg, "ADMIN: Wrong code from %s", realIP(r))
			}
		}

		a.render(w, r, errs, "admin.html", a.view(r, "Dashboard", data))
	}
}

func (a *app) registerAdmin(mux *httprouter.Router, errs chan<- error) {
	mux.GET(a.cfg.prefix+"/admin", a.serveAdmin(errs))
	mux.POST(a.cfg.prefix+"/admin", a.serveAdmin(errs))
}
