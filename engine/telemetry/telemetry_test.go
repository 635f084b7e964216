package telemetry

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type state struct {
	Radius float32 `json:"radius"`
	Label  string  `json:"label"`
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(url, "http")+Path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readState(t *testing.T, conn *websocket.Conn) state {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var s state
	require.NoError(t, conn.ReadJSON(&s))
	return s
}

func TestPublishReachesClients(t *testing.T) {
	hub := NewHub(quietLogger())
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()
	defer hub.Close()

	a := dial(t, srv.URL)
	b := dial(t, srv.URL)
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Publish(state{Radius: 10, Label: "first"}))
	assert.Equal(t, state{Radius: 10, Label: "first"}, readState(t, a))
	assert.Equal(t, state{Radius: 10, Label: "first"}, readState(t, b))

	require.NoError(t, hub.Publish(state{Radius: 9, Label: "second"}))
	assert.Equal(t, "second", readState(t, a).Label)
	assert.Equal(t, "second", readState(t, b).Label)
}

func TestNewClientGetsLatest(t *testing.T) {
	hub := NewHub(quietLogger())
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()
	defer hub.Close()

	require.NoError(t, hub.Publish(state{Label: "old"}))
	require.NoError(t, hub.Publish(state{Label: "current"}))

	conn := dial(t, srv.URL)
	assert.Equal(t, "current", readState(t, conn).Label)
}

func TestDisconnectedClientIsDropped(t *testing.T) {
	hub := NewHub(quietLogger())
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()
	defer hub.Close()

	conn := dial(t, srv.URL)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
	assert.NoError(t, hub.Publish(state{Label: "nobody"}))
}

func TestPublishEncodeError(t *testing.T) {
	hub := NewHub(quietLogger())
	assert.Error(t, hub.Publish(make(chan int)))
}

func TestClosedHubRefusesClients(t *testing.T) {
	hub := NewHub(quietLogger())
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	hub.Close()
	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+Path, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestRegisterAfterCloseRejectsUpgradedClient(t *testing.T) {
	h := NewHub(quietLogger()).(*hub)

	// upgrade outside the hub so the connection is already open when Close runs
	upgraded := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		upgraded <- conn
	}))
	defer srv.Close()

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer client.Close()

	var conn *websocket.Conn
	select {
	case conn = <-upgraded:
	case <-time.After(2 * time.Second):
		t.Fatal("server side never upgraded")
	}
	defer conn.Close()

	h.Close()
	_, _, ok := h.register(conn)
	assert.False(t, ok)
	assert.Zero(t, h.ClientCount())

	live := NewHub(quietLogger()).(*hub)
	connMu, _, ok := live.register(conn)
	require.True(t, ok)
	connMu.Unlock()
	assert.Equal(t, 1, live.ClientCount())
}

func TestServerStartAndShutdown(t *testing.T) {
	hub := NewHub(quietLogger())
	server := NewServer("127.0.0.1:0", hub, quietLogger())
	require.NoError(t, server.Start())

	conn := dial(t, "http://"+server.Addr())
	require.NoError(t, hub.Publish(state{Label: "live"}))
	assert.Equal(t, "live", readState(t, conn).Label)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, server.Shutdown(ctx))
	assert.Zero(t, hub.ClientCount())
}

func TestServerStartBindError(t *testing.T) {
	server := NewServer("127.0.0.1:-1", NewHub(quietLogger()), quietLogger())
	assert.Error(t, server.Start())
}
