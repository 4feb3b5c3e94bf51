// internal/httpserver/auth.go
//
// Session binding for HTTP clients.
//   - The session cookie carries an HS256 token whose "sid" claim names the
//     visitor's session; Authorization: Bearer <token> works too.
//   - requireSession resolves the token to a live session or answers 401.
//   - The optional passphrase gate compares against a bcrypt hash.

package httpserver

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/gicheruj/birthday-present/internal/game"
)

const (
	cookieName = "birthday_session"
	tokenTTL   = 14 * 24 * time.Hour
)

var errNoToken = errors.New("no session token")

type ctxSessionKey struct{}

// sessionFrom returns the session placed in the context by requireSession.
func sessionFrom(r *http.Request) *game.Session {
	sess, _ := r.Context().Value(ctxSessionKey{}).(*game.Session)
	return sess
}

// requireSession enforces a valid token bound to a live session.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.sessionFromToken(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "no_session", err.Error())
			return
		}
		ctx := context.WithValue(r.Context(), ctxSessionKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) sessionFromToken(r *http.Request) (*game.Session, error) {
	tok := bearerOrCookie(r)
	if tok == "" {
		return nil, errNoToken
	}
	id, err := s.parseToken(tok)
	if err != nil {
		return nil, err
	}
	return s.store.Get(r.Context(), id)
}

// signToken creates an HS256 token naming the session.
func (s *Server) signToken(sessionID string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(tokenTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": sessionID,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	})
	ss, err := t.SignedString([]byte(s.opts.SessionSecret))
	return ss, exp, err
}

func (s *Server) parseToken(tok string) (string, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.opts.SessionSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}
	id, _ := claims["sid"].(string)
	if id == "" {
		return "", errors.New("invalid token: missing sid")
	}
	return id, nil
}

func (s *Server) secureCookies() bool {
	return strings.HasPrefix(s.opts.ClientOrigin, "https://")
}

// setSessionCookie writes the token cookie with appropriate security attributes.
func (s *Server) setSessionCookie(w http.ResponseWriter, token string, exp time.Time) {
	secure := s.secureCookies()
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode // required for cross-site clients when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		Expires:  exp,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	secure := s.secureCookies()
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		MaxAge:   -1,
	})
}

// bearerOrCookie extracts a bearer token from the Authorization header or
// the session cookie.
func bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value
	}
	return ""
}

// checkPassphrase reports whether pw opens the gate. Without a configured
// hash the gate is open.
func (s *Server) checkPassphrase(pw string) bool {
	if s.opts.PassphraseHash == "" {
		return true
	}
	return bcrypt.CompareHashAndPassword([]byte(s.opts.PassphraseHash), []byte(strings.TrimSpace(pw))) == nil
}

// genID creates a 22-char URL-safe, crypto-random identifier (no padding).
func genID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
