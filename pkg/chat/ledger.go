package chat

import (
	"time"

	"rosechat/pkg/models"
)

// DefaultHistoryLimit caps the ledger when no explicit limit is set.
const DefaultHistoryLimit = 100

// DefaultMessageTTL is the maximum message age enforced by SweepExpired.
const DefaultMessageTTL = 24 * time.Hour

// Ledger is the bounded, insertion-ordered store of broadcast messages
// and their paired reaction sets. A message's Roses counter always
// equals the size of its reaction set; both are mutated only through
// the methods below and only by the owning Room.
type Ledger struct {
	byID      map[string]*models.Message
	order     []string
	reactions map[string]map[string]struct{}
	limit     int
}

func NewLedger(limit int) *Ledger {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &Ledger{
		byID:      make(map[string]*models.Message),
		reactions: make(map[string]map[string]struct{}),
		limit:     limit,
	}
}

// Insert appends the message in arrival order. Callers evict afterwards
// via EvictOverCapacity.
func (l *Ledger) Insert(m *models.Message) {
	l.byID[m.ID] = m
	l.order = append(l.order, m.ID)
}

// Get returns the message with the given id, or nil.
func (l *Ledger) Get(id string) *models.Message { return l.byID[id] }

// Len returns the number of stored messages.
func (l *Ledger) Len() int { return len(l.order) }

// Messages returns copies of all stored messages in insertion order.
func (l *Ledger) Messages() []models.Message {
	out := make([]models.Message, 0, len(l.order))
	for _, id := range l.order {
		if m := l.byID[id]; m != nil {
			out = append(out, *m)
		}
	}
	return out
}

// EvictOverCapacity drops the oldest entries (by insertion order, not
// timestamp) until the ledger is back within its limit, removing the
// paired reaction sets. Returns the evicted ids.
func (l *Ledger) EvictOverCapacity() []string {
	var evicted []string
	for len(l.order) > l.limit {
		id := l.order[0]
		l.order = l.order[1:]
		delete(l.byID, id)
		delete(l.reactions, id)
		evicted = append(evicted, id)
	}
	return evicted
}

// SweepExpired removes every message older than maxAge relative to now,
// with its reaction set. Returns the number removed.
func (l *Ledger) SweepExpired(maxAge time.Duration, now time.Time) int {
	if maxAge <= 0 {
		maxAge = DefaultMessageTTL
	}
	cutoff := now.Add(-maxAge).UnixNano()
	kept := l.order[:0]
	removed := 0
	for _, id := range l.order {
		m := l.byID[id]
		if m != nil && m.TS < cutoff {
			delete(l.byID, id)
			delete(l.reactions, id)
			removed++
			continue
		}
		kept = append(kept, id)
	}
	l.order = kept
	return removed
}

// HasReaction reports whether user currently holds a rose on the message.
func (l *Ledger) HasReaction(msgID, user string) bool {
	_, ok := l.reactions[msgID][user]
	return ok
}

// AddReaction records user's rose on the message and bumps its counter.
func (l *Ledger) AddReaction(msgID, user string) {
	set, ok := l.reactions[msgID]
	if !ok {
		set = make(map[string]struct{})
		l.reactions[msgID] = set
	}
	if _, dup := set[user]; dup {
		return
	}
	set[user] = struct{}{}
	if m := l.byID[msgID]; m != nil {
		m.Roses++
	}
}

// RemoveReaction clears user's rose on the message and drops its counter,
// floored at zero.
func (l *Ledger) RemoveReaction(msgID, user string) {
	set, ok := l.reactions[msgID]
	if !ok {
		return
	}
	if _, held := set[user]; !held {
		return
	}
	delete(set, user)
	if m := l.byID[msgID]; m != nil && m.Roses > 0 {
		m.Roses--
	}
}

// ReactionCount returns the size of the message's reaction set.
func (l *Ledger) ReactionCount(msgID string) int { return len(l.reactions[msgID]) }
