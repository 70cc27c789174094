/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Docteur Maboul
//
// Each logged-in player gets one engine: a goroutine that owns their
// extraction session. Browser tabs connect over a websocket, send pointer
// input, and receive state, ticks, feedback cues and outcomes.
//
// Features:
// - One session per player cookie, shared by every open tab
// - Pointer input mapped from the canvas display box to the logical canvas
// - Timers and input serialized on the engine goroutine
// - Slow clients dropped instead of stalling the engine
// - Idle engines reaped after the session timeout
// - Channel mask served as a PNG, cues served as WAV
// - Finished sessions stored and ranked against the leaderboard

package main

import (
	"context"
	"image/png"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Seednode/maboulbox/games/maboul"
	"github.com/Seednode/maboulbox/players"
	"github.com/Seednode/maboulbox/scores"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

// Messages coming from clients
type inputMessage struct {
	Type string  `json:"type"` // "select", "down", "move", "up", "reset", "back", "restart"
	ID   string  `json:"id,omitempty"`
	X    float64 `json:"x,omitempty"`
	Y    float64 `json:"y,omitempty"`
	W    float64 `json:"w,omitempty"`
	H    float64 `json:"h,omitempty"`
}

// Messages sent to clients
type challengeView struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Emoji      string  `json:"emoji"`
	Reward     int     `json:"reward"`
	Difficulty int     `json:"difficulty"`
	Size       float64 `json:"size"`
	Solved     bool    `json:"solved"`
	Failed     bool    `json:"failed"`
}

type sessionMessage struct {
	Type       string          `json:"type"` // "session"
	Player     string          `json:"player"`
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	Points     int             `json:"points"`
	Finished   bool            `json:"finished"`
	Active     string          `json:"active,omitempty"`
	Challenges []challengeView `json:"challenges"`
}

type stateMessage struct {
	Type         string       `json:"type"` // "state"
	Event        string       `json:"event"`
	Challenge    string       `json:"challenge"`
	Mask         string       `json:"mask"`
	Position     maboul.Point `json:"position"`
	Start        maboul.Point `json:"start"`
	Target       maboul.Point `json:"target"`
	TargetRadius float64      `json:"targetRadius"`
	Size         float64      `json:"size"`
	Phase        string       `json:"phase"`
	Used         int          `json:"used"`
	Ceiling      int          `json:"ceiling"`
	Dragging     bool         `json:"dragging"`
	Cooling      bool         `json:"cooling"`
	Elapsed      int64        `json:"elapsed"`
	Points       int          `json:"points"`
}

type tickMessage struct {
	Type    string `json:"type"` // "tick"
	Elapsed int64  `json:"elapsed"`
}

type feedbackMessage struct {
	Type    string `json:"type"` // "feedback"
	Flash   int64  `json:"flash"`
	Vibrate int64  `json:"vibrate"`
	Sound   string `json:"sound,omitempty"`
	URL     string `json:"url,omitempty"`
}

type outcomeMessage struct {
	Type      string `json:"type"` // "outcome"
	Challenge string `json:"challenge"`
	Solved    bool   `json:"solved"`
	Failed    bool   `json:"failed"`
	Reward    int    `json:"reward"`
	Elapsed   int64  `json:"elapsed"`
	Formatted string `json:"formatted"`
	Points    int    `json:"points"`
}

type leaderRow struct {
	Rank   int    `json:"rank"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}

type finishedMessage struct {
	Type        string      `json:"type"` // "finished"
	Points      int         `json:"points"`
	Elapsed     int64       `json:"elapsed"`
	Formatted   string      `json:"formatted"`
	Solved      int         `json:"solved"`
	Failed      int         `json:"failed"`
	Rank        int         `json:"rank,omitempty"`
	Leaderboard []leaderRow `json:"leaderboard,omitempty"`
}

type warningMessage struct {
	Type    string `json:"type"` // "warning"
	Message string `json:"message"`
}

// Client is one websocket connection to a player's engine.
type Client struct {
	conn *websocket.Conn
	send chan any
}

// engine owns one player's session. Only run touches the session and the
// client set; everything else goes through the channels.
type engine struct {
	app     *app
	token   string
	session *maboul.Session

	clients  map[*Client]bool
	register chan *Client
	unreg    chan *Client
	inputs   chan inputMessage
	calls    chan func()
	done     chan struct{}
	stopOnce sync.Once

	mu         sync.RWMutex
	lastActive time.Time

	// Saving runs off the loop; round discards results from before a restart.
	round     int
	saving    bool
	rank      int
	board     []leaderRow
	announced bool
}

func newEngine(a *app, token string) (*engine, error) {
	e := &engine{
		app:        a,
		token:      token,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unreg:      make(chan *Client),
		inputs:     make(chan inputMessage, 64),
		calls:      make(chan func(), 64),
		done:       make(chan struct{}),
		lastActive: a.now(),
	}

	fb := maboul.NewDispatcher(maboul.SinkFunc(e.cue))
	fb.Logf = a.logger()

	s, err := maboul.Start(a.players.For(token), maboul.Options{
		Config:    a.cfg.engine(),
		Catalog:   a.catalog,
		Clock:     maboul.NewLoopClock(e.post),
		Feedback:  fb,
		Observer:  e.observe,
		Submitter: maboul.SubmitFunc(e.submit),
		Seed:      time.Now().UnixNano(),
	})
	if err != nil {
		return nil, err
	}
	e.session = s

	go e.run()

	return e, nil
}

func (e *engine) run() {
	for {
		select {
		case c := <-e.register:
			e.touch()
			e.clients[c] = true
			e.deliver(c, e.sessionView())
			if st, ok := e.stateView(maboul.EventSelected); ok {
				e.deliver(c, st)
			}

		case c := <-e.unreg:
			e.touch()
			if _, ok := e.clients[c]; ok {
				delete(e.clients, c)
				close(c.send)
			}

		case in := <-e.inputs:
			e.touch()
			e.handle(in)

		case f := <-e.calls:
			f()

		case <-e.done:
			e.session.Close()
			for c := range e.clients {
				close(c.send)
				_ = c.conn.Close()
				delete(e.clients, c)
			}
			return
		}

		e.announce()
	}
}

func (e *engine) touch() {
	e.mu.Lock()
	e.lastActive = e.app.now()
	e.mu.Unlock()
}

func (e *engine) idleSince() time.Time {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastActive
}

func (e *engine) stop() {
	e.stopOnce.Do(func() { close(e.done) })
}

// post hands a timer callback to the engine goroutine.
func (e *engine) post(f func()) {
	select {
	case e.calls <- f:
	case <-e.done:
	}
}

// do runs f on the engine goroutine and waits for it. It reports false
// when the engine has stopped.
func (e *engine) do(f func()) bool {
	finished := make(chan struct{})
	select {
	case e.calls <- func() { f(); close(finished) }:
	case <-e.done:
		return false
	}
	select {
	case <-finished:
		return true
	case <-e.done:
		return false
	}
}

func (e *engine) join(c *Client) bool {
	select {
	case e.register <- c:
		return true
	case <-e.done:
		return false
	}
}

func (e *engine) leave(c *Client) {
	select {
	case e.unreg <- c:
	case <-e.done:
	}
}

func (e *engine) input(in inputMessage) bool {
	select {
	case e.inputs <- in:
		return true
	case <-e.done:
		return false
	}
}

func (e *engine) deliver(c *Client, msg any) {
	select {
	case c.send <- msg:
	default:
		delete(e.clients, c)
		close(c.send)
	}
}

func (e *engine) broadcast(msg any) {
	for c := range e.clients {
		e.deliver(c, msg)
	}
}

func (e *engine) warn(msg string) {
	e.broadcast(warningMessage{Type: "warning", Message: msg})
}

func (e *engine) handle(in inputMessage) {
	s := e.session
	cfg := s.Config()
	at := maboul.Stretch(cfg.Width, cfg.Height, in.W, in.H).ToLogical(in.X, in.Y)

	switch in.Type {
	case "select":
		if _, err := s.Select(in.ID); err != nil {
			e.warn(err.Error())
		}
		e.broadcast(e.sessionView())
	case "down":
		s.Press(at)
	case "move":
		s.Move(at)
	case "up":
		s.Release()
	case "reset":
		s.Reset()
	case "back":
		s.Back()
		e.broadcast(e.sessionView())
	case "restart":
		if s.Finished() && !players.Exempt(s.Player()) {
			e.warn("One attempt each! Your score is already recorded.")
			return
		}
		if err := s.Restart(); err != nil {
			e.warn(err.Error())
			return
		}
		e.round++
		e.saving = false
		e.rank, e.board = 0, nil
		e.announced = false
		e.broadcast(e.sessionView())
	}
}

func (e *engine) observe(ev maboul.Event) {
	switch ev.Kind {
	case maboul.EventTick:
		e.broadcast(tickMessage{Type: "tick", Elapsed: ev.Elapsed.Milliseconds()})
	case maboul.EventSolved, maboul.EventFailed:
		e.broadcast(outcomeMessage{
			Type:      "outcome",
			Challenge: ev.Challenge,
			Solved:    ev.Kind == maboul.EventSolved,
			Failed:    ev.Kind == maboul.EventFailed,
			Reward:    ev.Reward,
			Elapsed:   ev.Elapsed.Milliseconds(),
			Formatted: maboul.FormatElapsed(ev.Elapsed),
			Points:    ev.Points,
		})
		if st, ok := e.stateView(ev.Kind); ok {
			e.broadcast(st)
		}
	case maboul.EventFinished:
		logf(e.app.cfg, "GAMES: %s finished with %d points", e.session.Player().Name, ev.Points)
	case maboul.EventSubmitFailed:
		logf(e.app.cfg, "SCORES: Unable to save %s: %v", e.session.Player().Name, ev.Err)
		e.warn("Your score could not be saved. Tell the organizer!")
	default:
		if st, ok := e.stateView(ev.Kind); ok {
			e.broadcast(st)
		}
	}
}

func (e *engine) cue(fb maboul.Feedback) {
	msg := feedbackMessage{
		Type:    "feedback",
		Flash:   fb.Flash.Milliseconds(),
		Vibrate: fb.Vibrate.Milliseconds(),
		Sound:   string(fb.Sound),
	}
	if fb.Sound != maboul.SoundNone {
		msg.URL = e.app.cfg.prefix + "/maboul/sounds/" + string(fb.Sound) + ".wav"
	}
	e.broadcast(msg)
}

// submit hands the finished session to the store on its own goroutine and
// posts the outcome back to the loop.
func (e *engine) submit(_ context.Context, sub maboul.Submission) error {
	e.saving = true
	round := e.round
	name := sub.Player.Name

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		rec, err := e.app.store.Submit(ctx, scores.FromSubmission(sub))
		var recs []scores.Record
		if err == nil {
			var lerr error
			if recs, lerr = e.app.store.List(ctx, scores.Maboul); lerr != nil {
				logf(e.app.cfg, "SCORES: Unable to rank %s: %v", name, lerr)
			}
		}

		e.post(func() { e.saved(round, rec, recs, err) })
	}()

	return nil
}

func (e *engine) saved(round int, rec scores.Record, recs []scores.Record, err error) {
	if round != e.round {
		return
	}
	e.saving = false

	if err != nil {
		logf(e.app.cfg, "SCORES: Unable to save %s: %v", e.session.Player().Name, err)
		e.warn("Your score could not be saved. Tell the organizer!")
		return
	}

	if recs == nil {
		return
	}
	e.rank = scores.Rank(recs, rec.ID)
	for i, r := range scores.Top(recs, leaderboardSize) {
		e.board = append(e.board, leaderRow{Rank: i + 1, Name: r.Name, Points: r.PointsValue()})
	}
}

func (e *engine) announce() {
	if e.announced || e.saving || !e.session.Finished() {
		return
	}
	e.announced = true

	sc := e.session.Score()
	e.broadcast(finishedMessage{
		Type:        "finished",
		Points:      sc.Points,
		Elapsed:     sc.Elapsed.Milliseconds(),
		Formatted:   maboul.FormatElapsed(sc.Elapsed),
		Solved:      sc.Solved(),
		Failed:      sc.Failed(),
		Rank:        e.rank,
		Leaderboard: e.board,
	})
}

func (e *engine) sessionView() sessionMessage {
	s := e.session
	cfg := s.Config()
	msg := sessionMessage{
		Type:     "session",
		Player:   s.Player().Name,
		Width:    cfg.Width,
		Height:   cfg.Height,
		Points:   s.Score().Points,
		Finished: s.Finished(),
	}
	if a := s.Active(); a != nil {
		msg.Active = a.Challenge().ID
	}
	for _, c := range s.Challenges() {
		msg.Challenges = append(msg.Challenges, challengeView{
			ID:         c.ID,
			Name:       c.Name,
			Emoji:      c.Emoji,
			Reward:     c.Reward,
			Difficulty: c.Difficulty,
			Size:       c.Size,
			Solved:     c.Solved,
			Failed:     c.Failed,
		})
	}
	return msg
}

func (e *engine) stateView(kind maboul.EventKind) (stateMessage, bool) {
	a := e.session.Active()
	if a == nil {
		return stateMessage{}, false
	}
	c := a.Challenge()
	cfg := e.session.Config()
	return stateMessage{
		Type:         "state",
		Event:        kind.String(),
		Challenge:    c.ID,
		Mask:         e.app.cfg.prefix + "/maboul/mask/" + c.ID,
		Position:     a.Position(),
		Start:        c.Start,
		Target:       c.Target,
		TargetRadius: cfg.TargetRadius,
		Size:         c.Size,
		Phase:        a.Phase().String(),
		Used:         a.Used(),
		Ceiling:      a.Ceiling(),
		Dragging:     a.Dragging(),
		Cooling:      a.Cooling(),
		Elapsed:      a.Elapsed().Milliseconds(),
		Points:       e.session.Score().Points,
	}, true
}

// engineManager holds one engine per player token.
type engineManager struct {
	app         *app
	mu          sync.Mutex
	engines     map[string]*engine
	idleTimeout time.Duration
}

func newEngineManager(a *app, idleTimeout time.Duration) *engineManager {
	return &engineManager{
		app:         a,
		engines:     make(map[string]*engine),
		idleTimeout: idleTimeout,
	}
}

func (m *engineManager) get(token string) (*engine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.engines[token]; ok {
		return e, nil
	}

	e, err := newEngine(m.app, token)
	if err != nil {
		return nil, err
	}
	m.engines[token] = e
	return e, nil
}

func (m *engineManager) lookup(token string) (*engine, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.engines[token]
	return e, ok
}

func (m *engineManager) drop(token string) {
	m.mu.Lock()
	e, ok := m.engines[token]
	delete(m.engines, token)
	m.mu.Unlock()

	if ok {
		e.stop()
	}
}

func (m *engineManager) closeAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for token, e := range m.engines {
		e.stop()
		delete(m.engines, token)
	}
}

// reap stops engines idle since before cutoff and returns how many.
func (m *engineManager) reap(cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for token, e := range m.engines {
		if e.idleSince().Before(cutoff) {
			delete(m.engines, token)
			e.stop()
			n++
		}
	}
	return n
}

// reaperLoop periodically removes engines that have been idle longer than idleTimeout.
func (m *engineManager) reaperLoop(ctx context.Context) {
	if m.idleTimeout <= 0 {
		return
	}

	ticker := time.NewTicker(m.idleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.reap(m.app.now().Add(-m.idleTimeout)); n > 0 {
				logf(m.app.cfg, "GAMES: Reaped %d idle session(s)", n)
			}
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (a *app) serveMaboulWS() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		token, player, ok := a.currentPlayer(r)
		if !ok {
			http.Error(w, "not logged in", http.StatusUnauthorized)
			return
		}

		e, err := a.engines.get(token)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logf(a.cfg, "ERROR: Websocket upgrade for %s: %v", player.Name, err)
			return
		}
		conn.SetReadLimit(4096)

		client := &Client{
			conn: conn,
			send: make(chan any, 256),
		}

		if !e.join(client) {
			_ = conn.Close()
			return
		}

		go client.writePump()
		client.readPump(e)
	}
}

func (c *Client) readPump(e *engine) {
	defer func() {
		e.leave(c)
		_ = c.conn.Close()
	}()

	for {
		var msg inputMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}
		if !e.input(msg) {
			return
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(timeout))
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// serveMask renders the channel mask of the player's open challenge.
func (a *app) serveMask(errs chan<- error) httprouter.Handle {
	return a.requirePlayer(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params, token string, _ maboul.Player) {
		id := ps.ByName("id")

		e, ok := a.engines.lookup(token)
		if !ok {
			http.NotFound(w, r)
			return
		}

		var mask *maboul.Mask
		e.do(func() {
			if act := e.session.Active(); act != nil && act.Challenge().ID == id {
				mask = act.Mask()
			}
		})
		if mask == nil {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		securityHeaders(a.cfg, w)

		if err := png.Encode(w, mask.Image()); err != nil {
			errs <- err
		}
	})
}

func (a *app) serveSound(errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		name := strings.TrimSuffix(ps.ByName("name"), ".wav")

		data, ok := a.bank.Get(maboul.Sound(name))
		if !ok {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "audio/wav")
		w.Header().Set("Cache-Control", "public, max-age=86400")
		securityHeaders(a.cfg, w)

		if _, err := w.Write(data); err != nil {
			errs <- err
		}
	}
}

type maboulData struct {
	Width  int
	Height int
}

func (a *app) serveMaboulPage(errs chan<- error) httprouter.Handle {
	return a.requirePlayer(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params, token string, _ maboul.Player) {
		if a.cfg.requireQuiz && !a.quizzes.passed(token) {
			a.redirect(w, r, "/quiz")
			return
		}

		ec := a.cfg.engine()
		a.render(w, r, errs, "maboul.html", a.view(r, "Docteur Maboul", maboulData{Width: ec.Width, Height: ec.Height}))
	})
}

func (a *app) registerMaboul(mux *httprouter.Router, errs chan<- error) {
	mux.GET(a.cfg.prefix+"/maboul", a.serveMaboulPage(errs))
	mux.GET(a.cfg.prefix+"/maboul/ws", a.serveMaboulWS())
	mux.GET(a.cfg.prefix+"/maboul/mask/:id", a.serveMask(errs))
	mux.GET(a.cfg.prefix+"/maboul/sounds/:name", a.serveSound(errs))
}
