// internal/httpserver/server.go
//
// HTTP server wiring for the birthday experience.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     structured access logs).
//   - Public endpoints: "/", "/health".
//   - Session lifecycle: POST/GET/DELETE /session (signed cookie, optional
//     passphrase gate).
//   - Page endpoints (require a session): mounted by routes_pages.go.
//   - Journal listing and the websocket push channel.
//   - Session observer: journal milestones and push snapshots.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - /ws is mounted outside the request timeout; everything else is bounded.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/gicheruj/birthday-present/internal/game"
	"github.com/gicheruj/birthday-present/internal/journal"
	"github.com/gicheruj/birthday-present/internal/store"
	"github.com/gicheruj/birthday-present/internal/ws"
)

const (
	journalTimeout = 2 * time.Second
	// defaultClientOrigin is the dev client, used when no origin is configured.
	defaultClientOrigin = "http://localhost:5173"
)

// Options configures a Server.
type Options struct {
	ClientOrigin   string
	SessionSecret  string
	PassphraseHash string
	// RNGSeed seeds every new session; 0 picks a random seed per session.
	RNGSeed uint64
	// Scheduler drives page timers; nil uses the wall clock.
	Scheduler game.Scheduler
}

// Server bundles router, session store, journal and push hub.
type Server struct {
	r       *chi.Mux
	opts    Options
	script  *game.Script
	store   store.Store
	journal journal.Journal
	hub     *ws.Hub
}

// New constructs a Server, installs middleware, and registers routes.
func New(script *game.Script, st store.Store, j journal.Journal, opts Options) *Server {
	if j == nil {
		j = journal.Nop()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = game.WallClock()
	}
	if opts.ClientOrigin == "" {
		opts.ClientOrigin = defaultClientOrigin
	}
	s := &Server{
		r:       chi.NewRouter(),
		opts:    opts,
		script:  script,
		store:   st,
		journal: j,
		hub:     ws.NewHub(opts.ClientOrigin),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)             // add X-Request-ID
	s.r.Use(chimw.RealIP)                // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(log.Logger)) // request-scoped logger
	s.r.Use(requestLogger)               // one access line per request
	s.r.Use(chimw.Recoverer)             // recover from panics
	s.r.Use(s.cors)                      // credentials-friendly CORS

	// websocket: long-lived, no JSON content type, no timeout
	s.r.With(s.requireSession).Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		s.hub.ServeWS(w, r, sessionFrom(r))
	})

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
		r.Use(jsonContentType)                 // default JSON responses

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"service":"birthday-present","pages":9,"endpoints":["/health","POST /session","GET /session","/ws","/journal"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"ok":true}`))
		})

		// --- session lifecycle ---
		r.Post("/session", s.handleNewSession)
		r.With(s.requireSession).Get("/session", s.handleGetSession)
		r.With(s.requireSession).Delete("/session", s.handleEndSession)

		// --- pages ---
		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)
			s.mountPages(r)
			r.Get("/journal", s.handleJournal)
			r.Get("/journal/progress", s.handleProgress)
		})

		// JSON 404 for easier debugging
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusNotFound, "not_found", r.URL.Path)
		})
	})

	return s
}

// Router exposes the internal router (used by cmd/serve and tests).
func (s *Server) Router() chi.Router { return s.r }

// Sessions exposes the session store.
func (s *Server) Sessions() store.Store { return s.store }

// SweepIdle closes sessions idle for longer than ttl, checking every
// interval until ctx is done.
func (s *Server) SweepIdle(ctx context.Context, ttl, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := s.store.Sweep(ctx, now, ttl); n > 0 {
				log.Info().Int("expired", n).Int("live", s.store.Len()).Msg("swept idle sessions")
			}
		}
	}
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// requestLogger tags the request logger with chi's request id and writes
// an access line once the handler returns.
func requestLogger(next http.Handler) http.Handler {
	access := hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		lvl := zerolog.DebugLevel
		if status >= http.StatusInternalServerError {
			lvl = zerolog.ErrorLevel
		}
		hlog.FromRequest(r).WithLevel(lvl).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("took", d).
			Msg("request")
	})(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chimw.GetReqID(r.Context()); id != "" {
			l := zerolog.Ctx(r.Context()).With().Str("req_id", id).Logger()
			r = r.WithContext(l.WithContext(r.Context()))
		}
		access.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.opts.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ sessions -----------------------------------

type newSessionReq struct {
	Passphrase    string `json:"passphrase"`
	ViewportWidth int    `json:"viewportWidth"`
}

// handleNewSession starts a visitor on page 1. A session already bound to
// the caller's cookie is closed first.
func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	var req newSessionReq
	if !decodeOptional(w, r, &req) {
		return
	}
	if !s.checkPassphrase(req.Passphrase) {
		writeError(w, http.StatusForbidden, "wrong_passphrase", "the passphrase does not match")
		return
	}
	if old, err := s.sessionFromToken(r); err == nil {
		_ = s.store.Delete(r.Context(), old.ID())
	}

	id := genID()
	sess := game.NewSession(id, s.script, game.Options{
		Scheduler:     s.opts.Scheduler,
		RNG:           game.NewRNG(s.opts.RNGSeed),
		ViewportWidth: req.ViewportWidth,
		OnEvent:       s.observe,
	})
	if err := s.store.Save(r.Context(), sess); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed", err.Error())
		return
	}

	tok, exp, err := s.signToken(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "sign_failed", err.Error())
		return
	}
	s.setSessionCookie(w, tok, exp)
	hlog.FromRequest(r).Info().Str("session", id).Msg("session started")

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(sess.Snapshot())
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(sessionFrom(r).Snapshot())
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	_ = s.store.Delete(r.Context(), sess.ID())
	s.clearSessionCookie(w)
	hlog.FromRequest(r).Info().Str("session", sess.ID()).Msg("session ended")
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// observe is every session's observer: it journals milestones and pushes
// the snapshot to connected websocket clients.
func (s *Server) observe(ev game.Event) {
	if len(ev.Milestones) > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), journalTimeout)
		if err := s.journal.Record(ctx, ev.Milestones...); err != nil {
			log.Warn().Err(err).Str("session", ev.Snapshot.Session).Msg("journal milestones")
		}
		cancel()
		for _, m := range ev.Milestones {
			log.Debug().
				Str("session", m.Session).
				Str("milestone", string(m.Kind)).
				Int("page", m.Page).
				Str("kind", string(m.PageKind)).
				Msg("milestone")
		}
	}
	s.hub.Publish(ev.Snapshot)
}

// ------------------------------- journal -----------------------------------

// handleJournal lists the caller's recent milestones (?limit=, default 50).
func (s *Server) handleJournal(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := s.journal.Recent(r.Context(), sessionFrom(r).ID(), limit)
	if err != nil {
		s.journalError(w, r, err)
		return
	}
	_ = json.NewEncoder(w).Encode(entries)
}

// handleProgress lists how far recent sessions got (?limit=, default 50).
func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	rows, err := s.journal.Progress(r.Context(), limit)
	if err != nil {
		s.journalError(w, r, err)
		return
	}
	_ = json.NewEncoder(w).Encode(rows)
}

func (s *Server) journalError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, journal.ErrDisabled) {
		writeError(w, http.StatusNotFound, "journal_disabled", err.Error())
		return
	}
	hlog.FromRequest(r).Error().Err(err).Msg("journal query")
	writeError(w, http.StatusInternalServerError, "db_error", err.Error())
}
