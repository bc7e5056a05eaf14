package chat

import (
	"fmt"
	"testing"
	"time"

	"rosechat/pkg/models"
)

func msg(id, author string, ts int64) *models.Message {
	return &models.Message{ID: id, Type: models.MessageUser, Author: author, Content: "hi", TS: ts}
}

func TestLedger_Suite(t *testing.T) {
	t.Run("InsertOrderAndGet", func(t *testing.T) {
		l := NewLedger(10)
		l.Insert(msg("m1", "a", 1))
		l.Insert(msg("m2", "b", 2))
		if l.Len() != 2 {
			t.Fatalf("Len = %d, want 2", l.Len())
		}
		if m := l.Get("m1"); m == nil || m.Author != "a" {
			t.Fatalf("Get m1 = %+v", m)
		}
		if m := l.Get("missing"); m != nil {
			t.Fatalf("expected nil for unknown id")
		}
		msgs := l.Messages()
		if len(msgs) != 2 || msgs[0].ID != "m1" || msgs[1].ID != "m2" {
			t.Fatalf("order: %+v", msgs)
		}
	})

	t.Run("EvictionDropsOldestFirst", func(t *testing.T) {
		l := NewLedger(100)
		for i := 0; i < 101; i++ {
			l.Insert(msg(fmt.Sprintf("m%03d", i), "a", int64(i)))
		}
		evicted := l.EvictOverCapacity()
		if len(evicted) != 1 || evicted[0] != "m000" {
			t.Fatalf("evicted = %v, want [m000]", evicted)
		}
		if l.Len() != 100 {
			t.Fatalf("Len = %d, want 100", l.Len())
		}
		if l.Get("m000") != nil {
			t.Fatalf("m000 should be gone")
		}
		if l.Get("m001") == nil {
			t.Fatalf("m001 should survive")
		}
	})

	t.Run("EvictionDropsReactionSet", func(t *testing.T) {
		l := NewLedger(1)
		l.Insert(msg("old", "a", 1))
		l.AddReaction("old", "bob")
		l.Insert(msg("new", "a", 2))
		l.EvictOverCapacity()
		if l.HasReaction("old", "bob") {
			t.Fatalf("reaction set should be evicted with its message")
		}
	})

	t.Run("ReactionCountMatchesRoses", func(t *testing.T) {
		l := NewLedger(10)
		l.Insert(msg("m1", "a", 1))
		l.AddReaction("m1", "bob")
		l.AddReaction("m1", "carol")
		l.AddReaction("m1", "bob") // duplicate is a no-op
		m := l.Get("m1")
		if m.Roses != 2 || l.ReactionCount("m1") != 2 {
			t.Fatalf("roses = %d, set = %d, want 2/2", m.Roses, l.ReactionCount("m1"))
		}
		l.RemoveReaction("m1", "bob")
		l.RemoveReaction("m1", "bob") // absent remove is a no-op
		if m.Roses != 1 || l.ReactionCount("m1") != 1 {
			t.Fatalf("roses = %d, set = %d, want 1/1", m.Roses, l.ReactionCount("m1"))
		}
		if !l.HasReaction("m1", "carol") || l.HasReaction("m1", "bob") {
			t.Fatalf("membership after remove is wrong")
		}
	})

	t.Run("RemoveReactionUnknownMessage", func(t *testing.T) {
		l := NewLedger(10)
		l.RemoveReaction("nope", "bob") // must not panic
	})

	t.Run("SweepExpired", func(t *testing.T) {
		l := NewLedger(10)
		now := time.Now()
		stale := now.Add(-25 * time.Hour).UnixNano()
		fresh := now.Add(-1 * time.Hour).UnixNano()
		l.Insert(msg("old", "a", stale))
		l.AddReaction("old", "bob")
		l.Insert(msg("new", "a", fresh))
		removed := l.SweepExpired(24*time.Hour, now)
		if removed != 1 {
			t.Fatalf("removed = %d, want 1", removed)
		}
		if l.Get("old") != nil || l.Get("new") == nil {
			t.Fatalf("wrong messages swept")
		}
		if l.HasReaction("old", "bob") {
			t.Fatalf("reaction set should be swept with its message")
		}
		msgs := l.Messages()
		if len(msgs) != 1 || msgs[0].ID != "new" {
			t.Fatalf("order after sweep: %+v", msgs)
		}
	})
}
