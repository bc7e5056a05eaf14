package chat

import (
	"strings"

	"rosechat/pkg/models"
)

// Session is one live connection and its in-memory state. Vocabulary is
// indexed by lower-cased word so membership checks are case-insensitive
// without scanning.
type Session struct {
	ConnID     string
	UserName   string
	TotalRoses int

	vocab map[string]models.WordMeta
}

// SetInventory replaces the session's vocabulary with a normalized copy.
func (s *Session) SetInventory(inv models.Inventory) {
	vocab := make(map[string]models.WordMeta, len(inv))
	for w, meta := range inv {
		vocab[strings.ToLower(w)] = meta
	}
	s.vocab = vocab
}

// HasWord reports case-insensitive vocabulary membership.
func (s *Session) HasWord(word string) bool {
	_, ok := s.vocab[strings.ToLower(word)]
	return ok
}

// VocabCount returns the number of owned words.
func (s *Session) VocabCount() int { return len(s.vocab) }

// MissingTokens returns the tokens not present in the vocabulary.
func (s *Session) MissingTokens(tokens []string) []string {
	var missing []string
	for _, t := range tokens {
		if !s.HasWord(t) {
			missing = append(missing, t)
		}
	}
	return missing
}

// Registry tracks live sessions keyed by connection id, preserving
// insertion order for snapshots. It is not safe for concurrent use; the
// owning Room serializes access.
type Registry struct {
	byConn map[string]*Session
	order  []string
}

func NewRegistry() *Registry {
	return &Registry{byConn: make(map[string]*Session)}
}

// Register creates or overwrites the session for connID. Duplicate user
// names are allowed; last join wins for name lookups is not enforced
// beyond first-match semantics in FindByUserName.
func (r *Registry) Register(connID, userName string, inv models.Inventory) *Session {
	s, ok := r.byConn[connID]
	if !ok {
		s = &Session{ConnID: connID}
		r.byConn[connID] = s
		r.order = append(r.order, connID)
	}
	s.UserName = userName
	s.SetInventory(inv)
	return s
}

// UpdateInventory replaces the inventory for connID and reports whether
// the session existed.
func (r *Registry) UpdateInventory(connID string, inv models.Inventory) bool {
	s, ok := r.byConn[connID]
	if !ok {
		return false
	}
	s.SetInventory(inv)
	return true
}

// Get returns the session for connID, or nil.
func (r *Registry) Get(connID string) *Session { return r.byConn[connID] }

// Remove deletes and returns the session for connID, or nil.
func (r *Registry) Remove(connID string) *Session {
	s, ok := r.byConn[connID]
	if !ok {
		return nil
	}
	delete(r.byConn, connID)
	for i, id := range r.order {
		if id == connID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return s
}

// FindByUserName returns the first session with the given user name in
// registry order, or nil. Linear scan; rooms are small.
func (r *Registry) FindByUserName(name string) *Session {
	for _, id := range r.order {
		if s := r.byConn[id]; s != nil && s.UserName == name {
			return s
		}
	}
	return nil
}

// Len returns the number of live sessions.
func (r *Registry) Len() int { return len(r.byConn) }

// Snapshot returns the full session list in registry order for the
// users-update broadcast.
func (r *Registry) Snapshot() []models.UserSnapshot {
	out := make([]models.UserSnapshot, 0, len(r.order))
	for _, id := range r.order {
		s := r.byConn[id]
		if s == nil {
			continue
		}
		out = append(out, models.UserSnapshot{
			ConnID:     s.ConnID,
			UserName:   s.UserName,
			VocabCount: s.VocabCount(),
			TotalRoses: s.TotalRoses,
		})
	}
	return out
}
