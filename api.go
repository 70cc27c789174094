/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Seednode/maboulbox/scores"
	"github.com/julienschmidt/httprouter"
)

const maxScoreBody = 64 << 10

type apiStatus struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func corsHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func (a *app) writeJSON(w http.ResponseWriter, errs chan<- error, code int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}

	corsHeaders(w)
	securityHeaders(a.cfg, w)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)

	if _, err := w.Write(body); err != nil {
		errs <- err
	}
}

func (a *app) serveScoresList(errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		filter, err := scores.ParseFilter(r.URL.Query().Get("game"))
		if err != nil {
			a.writeJSON(w, errs, http.StatusBadRequest, apiStatus{Status: "error", Message: err.Error()})

			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		recs, err := a.store.List(ctx, filter)
		if err != nil {
			logf(a.cfg, "SCORES: Listing failed: %v", err)
			a.writeJSON(w, errs, http.StatusInternalServerError, apiStatus{Status: "error", Message: "Error reading scores"})

			return
		}
		if recs == nil {
			recs = []scores.Record{}
		}

		a.writeJSON(w, errs, http.StatusOK, recs)
	}
}

func (a *app) serveScoresSubmit(errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var rec scores.Record
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxScoreBody)).Decode(&rec); err != nil {
			a.writeJSON(w, errs, http.StatusBadRequest, apiStatus{Status: "error", Message: "Invalid JSON"})

			return
		}

		// Identity and timing are assigned here, never by the client.
		rec.ID = ""
		rec.Date = a.now()
		rec.Timestamp = 0

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		stored, err := a.store.Submit(ctx, rec)
		switch {
		case errors.Is(err, scores.ErrInvalidRecord):
			a.writeJSON(w, errs, http.StatusBadRequest, apiStatus{Status: "error", Message: "Invalid data - need name and points or seconds"})

			return
		case err != nil:
			logf(a.cfg, "SCORES: Saving %s failed: %v", rec.Name, err)
			a.writeJSON(w, errs, http.StatusInternalServerError, apiStatus{Status: "error", Message: "Error saving score"})

			return
		}

		logf(a.cfg, "SCORES: Saved %s (%s) from %s", stored.Name, stored.Summary(), realIP(r))

		a.writeJSON(w, errs, http.StatusOK, apiStatus{Status: "success", Message: "Score saved"})
	}
}

func serveOptions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	corsHeaders(w)
	w.WriteHeader(http.StatusNoContent)
}

func (a *app) registerScoresAPI(mux *httprouter.Router, errs chan<- error) {
	mux.GET(a.cfg.prefix+"/api/scores", a.serveScoresList(errs))
	mux.POST(a.cfg.prefix+"/api/scores", a.serveScoresSubmit(errs))
	mux.OPTIONS(a.cfg.prefix+"/api/scores", serveOptions)
}
