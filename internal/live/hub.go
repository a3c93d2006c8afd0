package live

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/monitor"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message is the envelope pushed to dashboard clients.
type Message struct {
	Type string           `json:"type"`
	Data monitor.Snapshot `json:"data"`
}

// Latest returns the snapshot sent to a client when it connects.
type Latest func() (monitor.Snapshot, bool)

// Hub pushes every recomputed snapshot to connected browsers.
type Hub struct {
	mux       *http.ServeMux
	latest    Latest
	clients   map[*websocket.Conn]bool
	clientsMu sync.RWMutex
	broadcast chan Message
}

func NewHub(latest Latest) *Hub {
	h := &Hub{
		mux:       http.NewServeMux(),
		latest:    latest,
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan Message, 256),
	}
	h.mux.HandleFunc("/healthz", h.handleHealthz)
	h.mux.HandleFunc("/ws", h.handleWebSocket)
	return h
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// Publish implements monitor.Sink. A full queue drops the update; the next
// recompute carries the newer state anyway.
func (h *Hub) Publish(_ context.Context, snap monitor.Snapshot) {
	select {
	case h.broadcast <- Message{Type: "update", Data: snap}:
	default:
		log.Warn().Msg("live hub queue full, dropping update")
	}
}

// Run delivers queued updates until ctx is done, then closes all clients.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case msg := <-h.broadcast:
			h.send(msg)
		}
	}
}

func (h *Hub) Clients() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

func (h *Hub) send(msg Message) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	for conn := range h.clients {
		if err := writeJSON(conn, msg); err != nil {
			log.Debug().Err(err).Msg("dropping websocket client")
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

func writeJSON(conn *websocket.Conn, msg Message) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(msg)
}

func (h *Hub) closeAll() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
}

func (h *Hub) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	// Register under the lock so the init message is ordered before any update.
	h.clientsMu.Lock()
	if snap, ok := h.latest(); ok {
		if err := writeJSON(conn, Message{Type: "init", Data: snap}); err != nil {
			log.Debug().Err(err).Msg("websocket init failed")
			h.clientsMu.Unlock()
			conn.Close()
			return
		}
	}
	h.clients[conn] = true
	h.clientsMu.Unlock()

	defer func() {
		h.clientsMu.Lock()
		delete(h.clients, conn)
		h.clientsMu.Unlock()
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (h *Hub) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"clients": h.Clients()})
}
