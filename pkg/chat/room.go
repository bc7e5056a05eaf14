package chat

import (
	"encoding/json"
	"sync"
	"time"

	"rosechat/pkg/logger"
	"rosechat/pkg/metrics"
	"rosechat/pkg/models"
	"rosechat/pkg/utils"
)

// Emitter delivers outbound frames to connected sessions. Implementations
// must not block: the Room invokes it while holding its lock.
type Emitter interface {
	Broadcast(f models.Frame)
	Send(connID string, f models.Frame)
}

// Options tunes a Room. Zero values select the defaults.
type Options struct {
	HistoryLimit int
	MessageTTL   time.Duration
	RoseInterval time.Duration
}

// Room is the broadcast coordinator: the sole writer of the session
// registry, message ledger, reaction sets, and rose gate, and the only
// component that emits outbound events. A single mutex serializes every
// validate-mutate-broadcast sequence so the rose count of a message never
// observably diverges from its reaction set. No store method performs
// blocking I/O under the lock.
type Room struct {
	mu     sync.Mutex
	reg    *Registry
	ledger *Ledger
	gate   *RoseGate
	out    Emitter

	ttl time.Duration
	now func() time.Time
}

func NewRoom(out Emitter, opts Options) *Room {
	ttl := opts.MessageTTL
	if ttl <= 0 {
		ttl = DefaultMessageTTL
	}
	return &Room{
		reg:    NewRegistry(),
		ledger: NewLedger(opts.HistoryLimit),
		gate:   NewRoseGate(opts.RoseInterval),
		out:    out,
		ttl:    ttl,
		now:    time.Now,
	}
}

// SetClock overrides the room clock. Intended for tests.
func (r *Room) SetClock(now func() time.Time) { r.now = now }

// Join registers (or overwrites) the session for connID and announces it.
// The inventory is trusted; identity validation happens upstream.
func (r *Room) Join(connID, userName string, inv models.Inventory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reg.Register(connID, userName, inv)
	metrics.Sessions.Set(float64(r.reg.Len()))
	logger.Info("session_joined", "conn", connID, "user", userName, "vocab", len(inv))
	r.announce(userName + " joined the room")
	r.broadcastSnapshot()
}

// Leave removes the session for connID. Removal always triggers a
// registry-wide snapshot broadcast.
func (r *Room) Leave(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.reg.Remove(connID)
	if s == nil {
		return
	}
	metrics.Sessions.Set(float64(r.reg.Len()))
	logger.Info("session_left", "conn", connID, "user", s.UserName)
	r.announce(s.UserName + " left the room")
	r.broadcastSnapshot()
}

// UpdateInventory replaces the session's vocabulary and re-broadcasts the
// full snapshot (vocab counts changed).
func (r *Room) UpdateInventory(connID string, inv models.Inventory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.reg.UpdateInventory(connID, inv) {
		r.reject(connID, ErrNotAuthenticated)
		return ErrNotAuthenticated
	}
	logger.Debug("inventory_updated", "conn", connID, "vocab", len(inv))
	r.broadcastSnapshot()
	return nil
}

// SendMessage validates content tokens against the author's vocabulary
// and, on success, stores and broadcasts the message. Validation failures
// are reported only to the author as a system error message; the ledger
// is left untouched.
func (r *Room) SendMessage(connID, content string, requiredTokens []string) (*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.reg.Get(connID)
	if s == nil {
		r.reject(connID, ErrNotAuthenticated)
		return nil, ErrNotAuthenticated
	}
	if missing := s.MissingTokens(requiredTokens); len(missing) > 0 {
		verr := NewValidationError(missing)
		metrics.Rejected.WithLabelValues(verr.Code).Inc()
		logger.Debug("message_rejected", "user", s.UserName, "missing", missing)
		r.sendSystemError(connID, verr.Message)
		return nil, verr
	}

	m := &models.Message{
		ID:      utils.GenMessageID(),
		Type:    models.MessageUser,
		Author:  s.UserName,
		Content: content,
		TS:      r.now().UTC().UnixNano(),
	}
	r.ledger.Insert(m)
	metrics.Messages.Inc()
	logger.Info("message_stored", "id", m.ID, "author", m.Author)
	r.emitBroadcast(models.EventMessage, *m)
	if evicted := r.ledger.EvictOverCapacity(); len(evicted) > 0 {
		logger.Debug("ledger_evicted", "count", len(evicted), "oldest", evicted[0])
	}
	return m, nil
}

// ToggleRose applies the idempotent rose toggle protocol for the sender's
// session against the target user's message. On success it broadcasts the
// rose delta followed by a refreshed snapshot; on failure it reports the
// error only to the sender and mutates nothing.
func (r *Room) ToggleRose(connID, targetUserName, messageID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sender := r.reg.Get(connID)
	if sender == nil {
		r.reject(connID, ErrNotAuthenticated)
		return "", ErrNotAuthenticated
	}
	m := r.ledger.Get(messageID)
	if m == nil {
		r.reject(connID, ErrMessageNotFound)
		return "", ErrMessageNotFound
	}
	if m.Author == sender.UserName {
		r.reject(connID, ErrSelfReaction)
		return "", ErrSelfReaction
	}
	receiver := r.reg.FindByUserName(targetUserName)
	if receiver == nil {
		r.reject(connID, ErrReceiverOffline)
		return "", ErrReceiverOffline
	}

	now := r.now()
	held := r.ledger.HasReaction(messageID, sender.UserName)
	// Only new roses are throttled; taking one back is always allowed.
	if !held && !r.gate.AllowAdd(sender.UserName, now) {
		r.reject(connID, ErrRateLimited)
		return "", ErrRateLimited
	}

	var action string
	if held {
		r.ledger.RemoveReaction(messageID, sender.UserName)
		if receiver.TotalRoses > 0 {
			receiver.TotalRoses--
		}
		action = models.RoseRemoved
	} else {
		r.ledger.AddReaction(messageID, sender.UserName)
		receiver.TotalRoses++
		action = models.RoseAdded
	}
	r.gate.Stamp(sender.UserName, now)
	metrics.Roses.WithLabelValues(action).Inc()
	logger.Info("rose_toggled", "message", messageID, "sender", sender.UserName,
		"receiver", receiver.UserName, "action", action, "roses", m.Roses)

	r.emitBroadcast(models.EventRoseUpdate, models.RoseUpdatePayload{
		MessageID:  messageID,
		Roses:      m.Roses,
		TotalRoses: receiver.TotalRoses,
		Sender:     sender.UserName,
		Receiver:   receiver.UserName,
		Action:     action,
	})
	r.broadcastSnapshot()
	return action, nil
}

// SweepExpired removes messages older than the room TTL. It runs off the
// request path and is silent: evicted messages simply stop appearing.
func (r *Room) SweepExpired() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := r.ledger.SweepExpired(r.ttl, r.now())
	if removed > 0 {
		metrics.Swept.Add(float64(removed))
		logger.Info("ledger_swept", "removed", removed, "remaining", r.ledger.Len())
	}
	return removed
}

// Snapshot returns the current session list in registry order.
func (r *Room) Snapshot() []models.UserSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reg.Snapshot()
}

// Messages returns copies of the stored messages in insertion order.
func (r *Room) Messages() []models.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ledger.Messages()
}

// announce broadcasts a system message. Callers hold the room lock.
func (r *Room) announce(content string) {
	r.emitBroadcast(models.EventMessage, models.Message{
		ID:      utils.GenMessageID(),
		Type:    models.MessageSystem,
		Content: content,
		TS:      r.now().UTC().UnixNano(),
	})
}

// sendSystemError delivers an error-flagged system message to one session.
func (r *Room) sendSystemError(connID, content string) {
	r.emitTo(connID, models.EventMessage, models.Message{
		ID:      utils.GenMessageID(),
		Type:    models.MessageSystem,
		Content: content,
		TS:      r.now().UTC().UnixNano(),
		IsError: true,
	})
}

// reject reports a protocol error only to the originating session.
func (r *Room) reject(connID string, e *Error) {
	metrics.Rejected.WithLabelValues(e.Code).Inc()
	r.emitTo(connID, models.EventError, models.ErrorPayload{Code: e.Code, Message: e.Message})
}

func (r *Room) broadcastSnapshot() {
	r.emitBroadcast(models.EventUsersUpdate, models.UsersUpdatePayload{Users: r.reg.Snapshot()})
}

func (r *Room) emitBroadcast(event string, payload any) {
	f, err := encodeFrame(event, payload)
	if err != nil {
		logger.Error("frame_encode_failed", "event", event, "error", err)
		return
	}
	r.out.Broadcast(f)
}

func (r *Room) emitTo(connID, event string, payload any) {
	f, err := encodeFrame(event, payload)
	if err != nil {
		logger.Error("frame_encode_failed", "event", event, "error", err)
		return
	}
	r.out.Send(connID, f)
}

func encodeFrame(event string, payload any) (models.Frame, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return models.Frame{}, err
	}
	return models.Frame{Type: event, Payload: b}, nil
}
