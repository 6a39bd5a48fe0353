package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/lumen-ui/lumen/internal/logging"
)

// ReloadEvent is pushed to connected preview clients when definitions
// change.
type ReloadEvent struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Resource  string    `json:"resource,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewReloadEvent builds a reload event for a changed resource.
func NewReloadEvent(kind, resource string) ReloadEvent {
	return ReloadEvent{
		ID:        uuid.NewString(),
		Kind:      kind,
		Resource:  resource,
		Timestamp: time.Now(),
	}
}

// hub tracks live websocket connections and fans reload events out to them.
type hub struct {
	logger logging.Logger

	mutex sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func newHub(logger logging.Logger) *hub {
	return &hub{
		logger: logger.WithComponent("ws"),
		conns:  make(map[*websocket.Conn]struct{}),
	}
}

// handleWS upgrades the request and holds the connection open until the
// client goes away.
func (h *hub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		CompressionMode: websocket.CompressionDisabled,
	})
	if err != nil {
		h.logger.Warn(r.Context(), err, "websocket accept failed")
		return
	}

	h.mutex.Lock()
	h.conns[conn] = struct{}{}
	h.mutex.Unlock()

	defer func() {
		h.mutex.Lock()
		delete(h.conns, conn)
		h.mutex.Unlock()
		conn.Close(websocket.StatusNormalClosure, "")
	}()

	// Reads are discarded; the socket exists for server pushes, and the
	// read loop surfaces disconnects.
	ctx := r.Context()
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			return
		}
	}
}

// Broadcast sends the event to every connected client, dropping clients
// whose writes fail.
func (h *hub) Broadcast(ctx context.Context, event ReloadEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error(ctx, err, "encoding reload event")
		return
	}

	h.mutex.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mutex.Unlock()

	for _, conn := range conns {
		writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := conn.Write(writeCtx, websocket.MessageText, payload)
		cancel()
		if err != nil {
			h.mutex.Lock()
			delete(h.conns, conn)
			h.mutex.Unlock()
			conn.Close(websocket.StatusNormalClosure, "")
		}
	}
}

// ClientCount returns the number of connected preview clients.
func (h *hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.conns)
}
