// internal/ws/hub.go
//
// Websocket push channel for session snapshots.
//
// Responsibilities:
//   - Accept websocket connections bound to one session (origin checked).
//   - Push {"t":"state","m":<snapshot>} to every connection of a session
//     whenever the session changes, including timer-driven transitions.
//   - Keep connections alive with periodic pings; answer {"t":"ping"}
//     with {"t":"pong"} and {"t":"sync"} with the current snapshot.
//
// Notes:
//   - Sends never block: a client that falls behind drops messages and
//     re-syncs from the snapshot version.

package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"nhooyr.io/websocket"

	"github.com/gicheruj/birthday-present/internal/game"
)

const (
	pingInterval = 15 * time.Second
	sendBuffer   = 64
)

// Msg is the wire envelope.
type Msg struct {
	T string `json:"t"`
	M any    `json:"m,omitempty"`
}

type client struct {
	session string
	conn    *websocket.Conn
	send    chan []byte
}

type Hub struct {
	allowOrigins map[string]bool
	mu           sync.RWMutex
	clients      map[string]map[*client]struct{} // session id -> connections
}

// NewHub returns a hub accepting the given browser origins. Requests
// without an Origin header (non-browser clients) are always accepted.
func NewHub(allow ...string) *Hub {
	m := map[string]bool{}
	for _, a := range allow {
		if a != "" {
			m[a] = true
		}
	}
	return &Hub{allowOrigins: m, clients: map[string]map[*client]struct{}{}}
}

// Publish pushes a snapshot to the session's connections.
func (h *Hub) Publish(snap game.Snapshot) {
	b, err := json.Marshal(Msg{T: "state", M: snap})
	if err != nil {
		log.Error().Err(err).Str("session", snap.Session).Msg("encode snapshot")
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[snap.Session] {
		select {
		case c.send <- b:
		default:
			log.Warn().Str("session", snap.Session).Msg("ws client lagging, dropped state")
		}
	}
}

// Clients reports how many connections a session has.
func (h *Hub) Clients(session string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[session])
}

// ServeWS upgrades the request and streams snapshots of sess until the
// client goes away.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sess *game.Session) {
	origin := r.Header.Get("Origin")
	if origin != "" && !h.allowOrigins[origin] {
		http.Error(w, `{"error":"forbidden_origin"}`, http.StatusForbidden)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		log.Warn().Err(err).Msg("ws accept")
		return
	}

	c := &client{session: sess.ID(), conn: conn, send: make(chan []byte, sendBuffer)}
	h.add(c)
	log.Debug().Str("session", c.session).Msg("ws connected")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	done := make(chan struct{})
	go h.writer(ctx, c, done)

	h.sendTo(c, Msg{T: "state", M: sess.Snapshot()})

	// reader
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			break
		}
		var m Msg
		if err := json.Unmarshal(data, &m); err != nil {
			continue
		}
		switch m.T {
		case "ping":
			h.sendTo(c, Msg{T: "pong"})
		case "sync":
			h.sendTo(c, Msg{T: "state", M: sess.Snapshot()})
		}
	}

	h.remove(c)
	<-done
	log.Debug().Str("session", c.session).Msg("ws disconnected")
}

func (h *Hub) writer(ctx context.Context, c *client, done chan<- struct{}) {
	ping := time.NewTicker(pingInterval)
	defer func() {
		ping.Stop()
		_ = c.conn.Close(websocket.StatusNormalClosure, "bye")
		close(done)
	}()
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		case <-ping.C:
			if err := c.conn.Ping(ctx); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) sendTo(c *client, msg Msg) {
	b, _ := json.Marshal(msg)
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c.session][c]; !ok {
		return
	}
	select {
	case c.send <- b:
	default:
	}
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.clients[c.session]
	if set == nil {
		set = map[*client]struct{}{}
		h.clients[c.session] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.clients[c.session]
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.send)
	if len(set) == 0 {
		delete(h.clients, c.session)
	}
}
