package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/gicheruj/birthday-present/internal/content"
	"github.com/gicheruj/birthday-present/internal/game"
)

type envelope struct {
	T string        `json:"t"`
	M game.Snapshot `json:"m"`
}

func newTestServer(t *testing.T, hub *Hub) (*game.Session, string) {
	t.Helper()
	script, err := game.NewScript(content.Default())
	require.NoError(t, err)
	sess := game.NewSession("s1", script, game.Options{Scheduler: game.NewManualScheduler(), RNG: game.NewRNG(1)})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, sess)
	}))
	t.Cleanup(srv.Close)
	return sess, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestHubPushesSnapshots(t *testing.T) {
	hub := NewHub("http://localhost:5173")
	sess, url := newTestServer(t, hub)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	var msg envelope
	require.NoError(t, wsjson.Read(ctx, conn, &msg))
	assert.Equal(t, "state", msg.T)
	assert.Equal(t, 1, msg.M.Page)
	assert.Equal(t, 1, hub.Clients("s1"))

	snap, err := sess.Advance()
	require.NoError(t, err)
	hub.Publish(snap)

	require.NoError(t, wsjson.Read(ctx, conn, &msg))
	assert.Equal(t, 2, msg.M.Page)
	assert.Equal(t, game.KindWelcome, msg.M.Kind)
	assert.Equal(t, snap.Version, msg.M.Version)

	require.NoError(t, wsjson.Write(ctx, conn, Msg{T: "ping"}))
	var pong envelope
	require.NoError(t, wsjson.Read(ctx, conn, &pong))
	assert.Equal(t, "pong", pong.T)

	require.NoError(t, wsjson.Write(ctx, conn, Msg{T: "sync"}))
	require.NoError(t, wsjson.Read(ctx, conn, &msg))
	assert.Equal(t, "state", msg.T)
	assert.Equal(t, 2, msg.M.Page)
}

func TestHubDropsClientOnClose(t *testing.T) {
	hub := NewHub()
	_, url := newTestServer(t, hub)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)

	var msg envelope
	require.NoError(t, wsjson.Read(ctx, conn, &msg))
	require.NoError(t, conn.Close(websocket.StatusNormalClosure, ""))

	assert.Eventually(t, func() bool { return hub.Clients("s1") == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHubRejectsForeignOrigin(t *testing.T) {
	hub := NewHub("http://localhost:5173")
	_, url := newTestServer(t, hub)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, resp, err := websocket.Dial(ctx, url, &websocket.DialOptions{
		HTTPHeader: http.Header{"Origin": []string{"http://evil.example"}},
	})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
