package hub

import (
	"sync"

	"rosechat/pkg/logger"
	"rosechat/pkg/models"
)

// DefaultSendBuffer is the per-connection outbound channel depth.
const DefaultSendBuffer = 32

// Hub owns one buffered outbound channel per connection and fans frames
// out to all of them. Delivery is best-effort: a frame for a connection
// whose buffer is full is dropped rather than blocking the sender, so
// the room can emit while holding its lock.
type Hub struct {
	mu     sync.RWMutex
	conns  map[string]chan models.Frame
	buffer int
}

func New(buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultSendBuffer
	}
	return &Hub{conns: make(map[string]chan models.Frame), buffer: buffer}
}

// Attach registers a connection and returns its outbound channel. An
// existing channel for the same id is closed first.
func (h *Hub) Attach(connID string) <-chan models.Frame {
	h.mu.Lock()
	defer h.mu.Unlock()
	if old, ok := h.conns[connID]; ok {
		close(old)
	}
	ch := make(chan models.Frame, h.buffer)
	h.conns[connID] = ch
	return ch
}

// Detach removes the connection and closes its channel.
func (h *Hub) Detach(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.conns[connID]; ok {
		delete(h.conns, connID)
		close(ch)
	}
}

// Broadcast delivers the frame to every connection, dropping per
// connection when its buffer is full.
func (h *Hub) Broadcast(f models.Frame) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, ch := range h.conns {
		select {
		case ch <- f:
		default:
			logger.Warn("frame_dropped", "conn", id, "event", f.Type)
		}
	}
}

// Send delivers the frame to a single connection, dropping when its
// buffer is full or the connection is unknown.
func (h *Hub) Send(connID string, f models.Frame) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ch, ok := h.conns[connID]
	if !ok {
		return
	}
	select {
	case ch <- f:
	default:
		logger.Warn("frame_dropped", "conn", connID, "event", f.Type)
	}
}

// Len returns the number of attached connections.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}
