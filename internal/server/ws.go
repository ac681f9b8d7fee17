package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/ayusman/astromind/internal/fatigue"
	"github.com/ayusman/astromind/internal/session"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// TelemetryHandler broadcasts per-frame decisions to WebSocket clients.
// It is fed by the pipeline through App.OnDecision rather than polling
// the camera itself, so the broadcast can never race the safety loop
// for frames.
type TelemetryHandler struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewTelemetryHandler creates a new TelemetryHandler.
func NewTelemetryHandler() *TelemetryHandler {
	return &TelemetryHandler{
		clients: make(map[*websocket.Conn]bool),
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *TelemetryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Broadcast sends one decision to all connected clients.
func (h *TelemetryHandler) Broadcast(d fatigue.Decision, snap session.Snapshot) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.clients) == 0 {
		return
	}

	msg, _ := json.Marshal(map[string]any{
		"timestamp":          d.Sample.Timestamp.UnixMilli(),
		"stage":              d.Stage.String(),
		"label":              d.Stage.Label(),
		"severity":           d.Severity.String(),
		"ear":                d.Sample.EAR,
		"mar":                d.Sample.MAR,
		"face_detected":      d.Sample.Detected,
		"eyes_closed_frames": d.EyesClosedFrames,
		"yawn_frames":        d.YawnFrames,
		"bpm":                d.BPM,
		"total_microsleeps":  snap.TotalMicrosleeps,
		"total_yawns":        snap.TotalYawns,
	})

	for conn := range h.clients {
		conn.WriteMessage(websocket.TextMessage, msg)
	}
}
