package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gicheruj/birthday-present/internal/game"
	"github.com/gicheruj/birthday-present/internal/store"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: code, Message: msg})
}

// statusFor maps domain errors to an HTTP status and a stable error code.
func statusFor(err error) (int, string) {
	var br *badRequest
	switch {
	case errors.As(err, &br):
		return http.StatusBadRequest, "bad_json"
	case errors.Is(err, store.ErrNotFound), errors.Is(err, game.ErrSessionClosed):
		return http.StatusUnauthorized, "no_session"
	case errors.Is(err, game.ErrWrongPage):
		return http.StatusConflict, "wrong_page"
	case errors.Is(err, game.ErrContinueLocked):
		return http.StatusConflict, "continue_locked"
	case errors.Is(err, game.ErrNoPrevious):
		return http.StatusConflict, "no_previous"
	case errors.Is(err, game.ErrAlreadyFound):
		return http.StatusConflict, "already_found"
	case errors.Is(err, game.ErrNoCollection):
		return http.StatusConflict, "no_collection"
	case errors.Is(err, game.ErrUnknownCard):
		return http.StatusBadRequest, "unknown_card"
	case errors.Is(err, game.ErrUnknownCollection):
		return http.StatusBadRequest, "unknown_collection"
	case errors.Is(err, game.ErrInvalidScene):
		return http.StatusBadRequest, "invalid_scene"
	case errors.Is(err, game.ErrStrokeTooLong):
		return http.StatusBadRequest, "stroke_too_long"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// badRequest wraps a request body that could not be decoded.
type badRequest struct{ err error }

func (e *badRequest) Error() string { return "bad json: " + e.err.Error() }

func (e *badRequest) Unwrap() error { return e.err }

// decodeOptional decodes a JSON body, accepting an empty one.
func decodeOptional(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json", err.Error())
		return false
	}
	return true
}
