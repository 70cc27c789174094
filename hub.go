/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/Seednode/maboulbox/games/maboul"
	"github.com/Seednode/maboulbox/players"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

const playerCookieName = "maboulbox_id"

func playerToken(r *http.Request) string {
	if c, err := r.Cookie(playerCookieName); err == nil {
		return c.Value
	}
	return ""
}

func (a *app) setPlayerCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     playerCookieName,
		Value:    token,
		Path:     a.cfg.prefix + "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   a.cfg.scheme() == "https",
		SameSite: http.SameSiteLaxMode,
	})
}

// currentPlayer resolves the logged-in player behind the request cookie.
func (a *app) currentPlayer(r *http.Request) (string, maboul.Player, bool) {
	token := playerToken(r)
	if token == "" {
		return "", maboul.Player{}, false
	}
	p, ok := a.players.Lookup(token)
	return token, p, ok
}

func (a *app) serveLogin() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		player, err := players.New(r.PostFormValue("firstname"), r.PostFormValue("lastname"))
		if err != nil {
			a.redirect(w, r, "/?error=incomplete")

			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		err = players.CheckAvailable(ctx, a.store, player, a.logger())
		if errors.Is(err, players.ErrAlreadyPlayed) {
			logf(a.cfg, "PLAYERS: Refused %s from %s, already played", player.Name, realIP(r))
			a.redirect(w, r, "/?error=played")

			return
		}

		token, err := players.NewToken()
		if err != nil {
			panic(err)
		}

		a.players.Login(token, player)
		a.setPlayerCookie(w, token, 0)

		logf(a.cfg, "PLAYERS: %s logged in from %s", player.Name, realIP(r))

		a.redirect(w, r, "/")
	}
}

func (a *app) serveLogout() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		if token := playerToken(r); token != "" {
			a.engines.drop(token)
			a.missions.drop(token)
			a.quizzes.drop(token)
			a.players.Logout(token)
		}
		a.setPlayerCookie(w, "", -1)

		a.redirect(w, r, "/")
	}
}

// serveQR renders a PNG QR code of the hub URL for sharing at the party.
func (a *app) serveQR(errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}

		url := scheme + "://" + r.Host + a.cfg.prefix + "/"

		const qrSize = 320
		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)

			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		securityHeaders(a.cfg, w)

		_, err = w.Write(png)
		if err != nil {
			errs <- err

			return
		}
	}
}

// requirePlayer wraps handlers that need a login and sends everyone else
// back to the hub.
func (a *app) requirePlayer(next func(http.ResponseWriter, *http.Request, httprouter.Params, string, maboul.Player)) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		token, p, ok := a.currentPlayer(r)
		if !ok {
			a.redirect(w, r, "/?error=required")

			return
		}
		next(w, r, ps, token, p)
	}
}
