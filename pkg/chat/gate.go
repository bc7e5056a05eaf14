package chat

import "time"

// DefaultRoseInterval is the minimum gap between new roses from one user.
const DefaultRoseInterval = time.Second

// RoseGate throttles new rose reactions per user. It keeps only the last
// toggle instant per user name; entries are never expired, bounded by the
// distinct user population over the process lifetime. Removals are never
// throttled, but every toggle stamps the user regardless of direction.
type RoseGate struct {
	last     map[string]time.Time
	interval time.Duration
}

func NewRoseGate(interval time.Duration) *RoseGate {
	if interval <= 0 {
		interval = DefaultRoseInterval
	}
	return &RoseGate{last: make(map[string]time.Time), interval: interval}
}

// AllowAdd reports whether user may place a new rose at instant now.
func (g *RoseGate) AllowAdd(user string, now time.Time) bool {
	last, ok := g.last[user]
	if !ok {
		return true
	}
	return now.Sub(last) >= g.interval
}

// Stamp records a toggle (either direction) for user at instant now.
func (g *RoseGate) Stamp(user string, now time.Time) {
	g.last[user] = now
}
