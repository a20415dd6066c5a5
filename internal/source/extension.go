package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/lotas/onehandle/internal/applog"
	"nhooyr.io/websocket"
)

// incomingMsg is a message from the extension.
type incomingMsg struct {
	Type            string   `json:"type"`
	ID              string   `json:"id,omitempty"`
	Tabs            []RawTab `json:"tabs,omitempty"`
	FocusedWindowID int      `json:"focusedWindowId,omitempty"`
	Error           string   `json:"error,omitempty"`
}

// outgoingMsg is a command to the extension.
type outgoingMsg struct {
	ID     string `json:"id"`
	Action string `json:"action"`
}

var reqCounter atomic.Int64

func nextReqID() string {
	return fmt.Sprintf("req-%d", reqCounter.Add(1))
}

// ExtensionServer is a localhost WebSocket server the companion
// extension connects to. The extension pushes a snapshot on connect
// and answers explicit "snapshot" requests; the latest snapshot is
// cached so reads keep working while no request is in flight.
type ExtensionServer struct {
	port int

	mu      sync.Mutex
	conn    *websocket.Conn
	connCtx context.Context
	latest  *Snapshot
	waiters map[string]chan *Snapshot
}

// NewExtensionServer creates a server for the given port. ListenAndServe
// must be running before Snapshot can succeed.
func NewExtensionServer(port int) *ExtensionServer {
	return &ExtensionServer{
		port:    port,
		waiters: make(map[string]chan *Snapshot),
	}
}

// Port returns the configured port.
func (s *ExtensionServer) Port() int {
	return s.port
}

// Connected reports whether an extension is connected.
func (s *ExtensionServer) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

// Snapshot asks the connected extension for the current tab set. If no
// extension is connected, the last pushed snapshot is returned; if none
// has ever arrived, an error.
func (s *ExtensionServer) Snapshot(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	conn := s.conn
	connCtx := s.connCtx
	cached := s.latest
	s.mu.Unlock()

	if conn == nil {
		if cached != nil {
			return cached, nil
		}
		return nil, fmt.Errorf("no extension connected on port %d", s.port)
	}

	id := nextReqID()
	ch := make(chan *Snapshot, 1)
	s.mu.Lock()
	s.waiters[id] = ch
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.waiters, id)
		s.mu.Unlock()
	}()

	data, err := json.Marshal(outgoingMsg{ID: id, Action: "snapshot"})
	if err != nil {
		return nil, err
	}
	if err := conn.Write(connCtx, websocket.MessageText, data); err != nil {
		return nil, fmt.Errorf("request snapshot: %w", err)
	}

	select {
	case snap := <-ch:
		return snap, nil
	case <-ctx.Done():
		// The extension didn't answer in time; a stale snapshot beats
		// none at all.
		if cached != nil {
			return cached, nil
		}
		return nil, ctx.Err()
	}
}

// Handler returns an http.Handler that accepts WebSocket upgrades.
func (s *ExtensionServer) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			applog.Error("ws.accept", err)
			return
		}

		conn.SetReadLimit(16 << 20) // snapshots with hundreds of tabs can be large

		ctx := r.Context()
		s.mu.Lock()
		if s.conn != nil {
			applog.Info("ws.replaced")
			s.conn.CloseNow()
		}
		s.conn = conn
		s.connCtx = ctx
		s.mu.Unlock()

		applog.Info("ws.connected", "remote", r.RemoteAddr)

		defer func() {
			s.mu.Lock()
			if s.conn == conn {
				s.conn = nil
				s.connCtx = nil
			}
			s.mu.Unlock()
			conn.CloseNow()
			applog.Info("ws.disconnected")
		}()

		for {
			_, data, err := conn.Read(ctx)
			if err != nil {
				return
			}
			var msg incomingMsg
			if err := json.Unmarshal(data, &msg); err != nil {
				applog.Error("ws.parse", err)
				continue
			}
			s.dispatch(msg)
		}
	})
}

func (s *ExtensionServer) dispatch(msg incomingMsg) {
	if msg.Type != "snapshot" {
		applog.Info("ws.recv", "type", msg.Type)
		return
	}
	snap := &Snapshot{Tabs: msg.Tabs, FocusedWindowID: msg.FocusedWindowID}
	applog.Info("ws.snapshot", "tabs", len(snap.Tabs), "id", msg.ID)

	s.mu.Lock()
	s.latest = snap
	ch, ok := s.waiters[msg.ID]
	if ok {
		delete(s.waiters, msg.ID)
	}
	s.mu.Unlock()

	if ok {
		ch <- snap
	}
}

// ListenAndServe starts the WebSocket server on the configured port.
func (s *ExtensionServer) ListenAndServe(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/", s.Handler())

	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	applog.Info("server.start", "addr", addr)
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	return srv.ListenAndServe()
}
