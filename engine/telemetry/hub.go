// Package telemetry streams viewer state to websocket clients as JSON.
package telemetry

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Path is the websocket endpoint served by Hub.Handler.
const Path = "/ws"

const writeTimeout = 2 * time.Second

// hub is the implementation of the Hub interface.
type hub struct {
	mu       sync.RWMutex
	clients  map[*websocket.Conn]*sync.Mutex
	latest   []byte
	closed   bool
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// Hub fans JSON messages out to every connected websocket client. The most recent message is
// remembered and sent to clients as soon as they connect, so a new client never waits for the
// next state change.
type Hub interface {
	// Handler returns the HTTP handler serving the websocket endpoint at Path.
	//
	// Returns:
	//   - http.Handler: the handler
	Handler() http.Handler

	// Publish encodes v as JSON and sends it to every client. Clients whose write fails are
	// dropped.
	//
	// Parameters:
	//   - v: the value to send
	//
	// Returns:
	//   - error: an error if v cannot be encoded
	Publish(v any) error

	// ClientCount returns the number of connected clients.
	//
	// Returns:
	//   - int: the client count
	ClientCount() int

	// Close disconnects every client and refuses new ones.
	Close()
}

var _ Hub = &hub{}

// NewHub creates a Hub. Any origin may connect; the server binds to loopback by default.
//
// Parameters:
//   - logger: the logger, slog.Default() when nil
//
// Returns:
//   - Hub: the new hub
func NewHub(logger *slog.Logger) Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &hub{
		clients: make(map[*websocket.Conn]*sync.Mutex),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

func (h *hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(Path, h.serveWS)
	return mux
}

func (h *hub) serveWS(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	closed := h.closed
	h.mu.RUnlock()
	if closed {
		http.Error(w, "telemetry closed", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	connMu, latest, ok := h.register(conn)
	if !ok {
		conn.Close()
		return
	}

	if latest != nil {
		if err := write(conn, latest); err != nil {
			connMu.Unlock()
			h.drop(conn)
			return
		}
	}
	connMu.Unlock()
	h.logger.Debug("telemetry client connected", "remote", r.RemoteAddr)

	// Clients only listen; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.drop(conn)
	h.logger.Debug("telemetry client disconnected", "remote", r.RemoteAddr)
}

func (h *hub) Publish(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("telemetry: encode: %w", err)
	}

	h.mu.Lock()
	h.latest = data
	targets := make(map[*websocket.Conn]*sync.Mutex, len(h.clients))
	for c, m := range h.clients {
		targets[c] = m
	}
	h.mu.Unlock()

	for conn, connMu := range targets {
		connMu.Lock()
		err := write(conn, data)
		connMu.Unlock()
		if err != nil {
			h.logger.Debug("telemetry write failed", "error", err)
			h.drop(conn)
		}
	}
	return nil
}

func (h *hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *hub) Close() {
	h.mu.Lock()
	h.closed = true
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.clients = make(map[*websocket.Conn]*sync.Mutex)
	h.mu.Unlock()

	for _, c := range conns {
		c.Close()
	}
}

// register adds conn with its write lock held, so a concurrent Publish cannot overtake the
// latest message. Returns false once the hub is closed.
func (h *hub) register(conn *websocket.Conn) (*sync.Mutex, []byte, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, nil, false
	}
	connMu := &sync.Mutex{}
	connMu.Lock()
	h.clients[conn] = connMu
	return connMu, h.latest, true
}

func (h *hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

func write(conn *websocket.Conn, data []byte) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}
