/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"io/fs"
	"math/rand/v2"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Seednode/maboulbox/games/maboul"
	"github.com/Seednode/maboulbox/games/quiz"
	"github.com/julienschmidt/httprouter"
)

// quizManager keeps one quiz per player token.
type quizManager struct {
	mu       sync.Mutex
	people   []quiz.Person
	settings quiz.Settings
	quizzes  map[string]*quiz.Quiz
	last     map[string]bool
}

func newQuizManager() *quizManager {
	return &quizManager{
		people:   quiz.DefaultPeople(),
		settings: quiz.DefaultSettings(),
		quizzes:  make(map[string]*quiz.Quiz),
		last:     make(map[string]bool),
	}
}

func (m *quizManager) get(token string) (*quiz.Quiz, error) {
	if q, ok := m.quizzes[token]; ok {
		return q, nil
	}

	seed := uint64(time.Now().UnixNano())
	q, err := quiz.New(m.people, m.settings, rand.New(rand.NewPCG(seed, seed>>1)))
	if err != nil {
		return nil, err
	}
	m.quizzes[token] = q
	return q, nil
}

func (m *quizManager) passed(token string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	q, ok := m.quizzes[token]
	return ok && q.Passed()
}

func (m *quizManager) drop(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.quizzes, token)
	delete(m.last, token)
}

type quizData struct {
	Round    quiz.Round
	Number   int
	Rounds   int
	Correct  int
	Progress int
	Done     bool
	Passed   bool
	Answered bool
	WasRight bool
}

func (a *app) serveQuizPage(errs chan<- error) httprouter.Handle {
	return a.requirePlayer(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params, token string, _ maboul.Player) {
		m := a.quizzes
		m.mu.Lock()
		q, err := m.get(token)
		if err != nil {
			m.mu.Unlock()
			panic(err)
		}

		round, n, _ := q.Round()
		data := quizData{
			Round:    round,
			Number:   n,
			Rounds:   q.Rounds(),
			Correct:  q.Correct(),
			Progress: q.Progress(),
			Done:     q.Done(),
			Passed:   q.Passed(),
		}
		if last, ok := m.last[token]; ok {
			data.Answered, data.WasRight = true, last
			delete(m.last, token)
		}
		m.mu.Unlock()

		a.render(w, r, errs, "quiz.html", a.view(r, "Qui est-ce ?", data))
	})
}

func (a *app) serveQuizAnswer() httprouter.Handle {
	return a.requirePlayer(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params, token string, p maboul.Player) {
		m := a.quizzes
		m.mu.Lock()
		defer m.mu.Unlock()

		if r.PostFormValue("retry") != "" {
			if q, ok := m.quizzes[token]; ok && q.Done() && !q.Passed() {
				delete(m.quizzes, token)
			}
			a.redirect(w, r, "/quiz")

			return
		}

		id, err := strconv.Atoi(r.PostFormValue("id"))
		if err != nil {
			http.Error(w, "invalid answer", http.StatusBadRequest)

			return
		}

		q, err := m.get(token)
		if err != nil {
			panic(err)
		}

		correct, err := q.Answer(id)
		if err != nil {
			a.redirect(w, r, "/quiz")

			return
		}
		m.last[token] = correct

		if q.Done() {
			logf(a.cfg, "GAMES: %s finished the quiz with %d/%d", p.Name, q.Correct(), q.Rounds())
		}

		a.redirect(w, r, "/quiz")
	})
}

// serveMedia serves pictures from the media directory. Nothing is served
// when no directory is configured.
func (a *app) serveMedia(errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if a.cfg.quizDir == "" {
			http.NotFound(w, r)

			return
		}

		name := strings.TrimPrefix(ps.ByName("name"), "/")
		if !fs.ValidPath(name) {
			http.NotFound(w, r)

			return
		}

		data, err := fs.ReadFile(os.DirFS(a.cfg.quizDir), name)
		if err != nil {
			http.NotFound(w, r)

			return
		}

		switch strings.ToLower(filepath.Ext(name)) {
		case ".jpg", ".jpeg":
			w.Header().Set("Content-Type", "image/jpeg")
		case ".png":
			w.Header().Set("Content-Type", "image/png")
		case ".webp":
			w.Header().Set("Content-Type", "image/webp")
		default:
			w.Header().Set("Content-Type", http.DetectContentType(data))
		}
		w.Header().Set("Cache-Control", "public, max-age=3600")
		securityHeaders(a.cfg, w)

		if _, err := w.Write(data); err != nil {
			errs <- err
		}
	}
}

func (a *app) registerQuiz(mux *httprouter.Router, errs chan<- error) {
	mux.GET(a.cfg.prefix+"/quiz", a.serveQuizPage(errs))
	mux.POST(a.cfg.prefix+"/quiz/answer", a.serveQuizAnswer())
	mux.GET(a.cfg.prefix+"/quiz/images/:name", a.serveMedia(errs))
}
