// internal/httpserver/routes_pages.go
//
// Page endpoints. Every route acts on the caller's session and answers
// with the resulting snapshot:
//   - POST /session/continue, /session/previous
//   - POST /scratch/stroke {points}, /scratch/release
//   - POST /riddle/answer {answer}
//   - POST /gallery/open {collection}, /gallery/next, /gallery/previous, /gallery/close
//   - POST /matching/select {card}
//   - POST /hunt/click {x,y,width,height}, /hunt/reroll
//   - POST /candle/blow
//   - POST /letter/open
//
// Operations for a page that is not active answer 409 wrong_page.

package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/gicheruj/birthday-present/internal/game"
)

type strokeReq struct {
	Points []game.Point `json:"points"`
}

type answerReq struct {
	Answer string `json:"answer"`
}

type openReq struct {
	Collection string `json:"collection"`
}

type selectReq struct {
	Card *int `json:"card"`
}

type clickReq struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// op is one page operation on the caller's session.
type op func(w http.ResponseWriter, r *http.Request, sess *game.Session) (game.Snapshot, error)

func (s *Server) mountPages(r chi.Router) {
	r.Post("/session/continue", s.act(func(_ http.ResponseWriter, _ *http.Request, sess *game.Session) (game.Snapshot, error) {
		return sess.Continue()
	}))
	r.Post("/session/previous", s.act(func(_ http.ResponseWriter, _ *http.Request, sess *game.Session) (game.Snapshot, error) {
		return sess.Previous()
	}))

	r.Post("/scratch/stroke", s.act(actWith(func(req strokeReq, sess *game.Session) (game.Snapshot, error) {
		return sess.Scratch(req.Points)
	})))
	r.Post("/scratch/release", s.act(func(_ http.ResponseWriter, _ *http.Request, sess *game.Session) (game.Snapshot, error) {
		return sess.ReleaseScratch()
	}))

	r.Post("/riddle/answer", s.act(actWith(func(req answerReq, sess *game.Session) (game.Snapshot, error) {
		return sess.AnswerRiddle(req.Answer)
	})))

	r.Post("/gallery/open", s.act(actWith(func(req openReq, sess *game.Session) (game.Snapshot, error) {
		return sess.OpenCollection(req.Collection)
	})))
	r.Post("/gallery/next", s.act(func(_ http.ResponseWriter, _ *http.Request, sess *game.Session) (game.Snapshot, error) {
		return sess.NextPhoto()
	}))
	r.Post("/gallery/previous", s.act(func(_ http.ResponseWriter, _ *http.Request, sess *game.Session) (game.Snapshot, error) {
		return sess.PrevPhoto()
	}))
	r.Post("/gallery/close", s.act(func(_ http.ResponseWriter, _ *http.Request, sess *game.Session) (game.Snapshot, error) {
		return sess.CloseCollection()
	}))

	r.Post("/matching/select", s.act(actWith(func(req selectReq, sess *game.Session) (game.Snapshot, error) {
		if req.Card == nil {
			return game.Snapshot{}, game.ErrUnknownCard
		}
		return sess.SelectCard(*req.Card)
	})))

	r.Post("/hunt/click", s.act(actWith(func(req clickReq, sess *game.Session) (game.Snapshot, error) {
		return sess.Search(req.X, req.Y, req.Width, req.Height)
	})))
	r.Post("/hunt/reroll", s.act(func(_ http.ResponseWriter, _ *http.Request, sess *game.Session) (game.Snapshot, error) {
		return sess.Reroll()
	}))

	r.Post("/candle/blow", s.act(func(_ http.ResponseWriter, _ *http.Request, sess *game.Session) (game.Snapshot, error) {
		return sess.BlowCandle()
	}))

	r.Post("/letter/open", s.act(func(_ http.ResponseWriter, _ *http.Request, sess *game.Session) (game.Snapshot, error) {
		return sess.OpenLetter()
	}))
}

// act runs fn against the caller's session and writes the snapshot or the
// mapped error.
func (s *Server) act(fn op) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		snap, err := fn(w, r, sess)
		if err != nil {
			status, code := statusFor(err)
			lvl := zerolog.DebugLevel
			if status >= http.StatusInternalServerError {
				lvl = zerolog.ErrorLevel
			}
			hlog.FromRequest(r).WithLevel(lvl).Err(err).Str("session", sess.ID()).Str("kind", string(snap.Kind)).Msg("page operation rejected")
			writeError(w, status, code, err.Error())
			return
		}
		_ = json.NewEncoder(w).Encode(snap)
	}
}

// actWith is act for operations taking a JSON body.
func actWith[T any](fn func(T, *game.Session) (game.Snapshot, error)) op {
	return func(w http.ResponseWriter, r *http.Request, sess *game.Session) (game.Snapshot, error) {
		var req T
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return game.Snapshot{}, &badRequest{err}
		}
		return fn(req, sess)
	}
}
