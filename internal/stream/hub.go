// Package stream broadcasts acquisition progress and results to monitoring
// clients over WebSocket.
package stream

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // any origin may connect; incoming messages are ignored
	},
}

// Message is the envelope for every broadcast.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// ResultPayload reports one acquisition outcome.
type ResultPayload struct {
	CodeOffset int     `json:"codeOffset"` // samples
	Doppler    float64 `json:"doppler"`    // Hz, after fine refinement
	CN0        float64 `json:"cn0"`        // dB-Hz
	Cycles     int     `json:"cycles"`     // non-coherently integrated code periods
}

// ProgressPayload reports sweep progress.
type ProgressPayload struct {
	Cycle  int `json:"cycle"`
	Cycles int `json:"cycles"`
}

// Hub manages the set of connected monitor clients.
type Hub struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
	log     *log.Logger
}

// NewHub creates an empty hub.
func NewHub(l *log.Logger) *Hub {
	if l == nil {
		l = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
		log:     l,
	}
}

// Handle upgrades an HTTP request to a monitor connection and keeps it
// registered until the peer goes away.
func (h *Hub) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("websocket upgrade failed", "err", err)
		return
	}
	h.add(conn)
	// drain the connection; monitors only listen
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.remove(conn)
				return
			}
		}
	}()
}

func (h *Hub) add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
	h.log.Info("monitor connected", "clients", len(h.clients))
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
	conn.Close()
	h.log.Info("monitor disconnected", "clients", len(h.clients))
}

// Broadcast sends a message to all connected clients.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error("marshal broadcast", "err", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.Warn("monitor write failed", "err", err)
			go h.remove(conn)
		}
	}
}

// BroadcastResult sends an acquisition result to all clients.
func (h *Hub) BroadcastResult(r ResultPayload) {
	h.Broadcast(Message{Type: "result", Payload: r})
}

// BroadcastProgress sends a sweep progress update to all clients.
func (h *Hub) BroadcastProgress(cycle, cycles int) {
	h.Broadcast(Message{Type: "progress", Payload: ProgressPayload{Cycle: cycle, Cycles: cycles}})
}
