package storage

import (
	"context"
	"sync"
	"testing"
)

func TestInMemoryRecordAndRecent(t *testing.T) {
	s := NewInMemoryStorage()
	ctx := context.Background()

	for _, q := range []string{"a", "b", "c"} {
		if err := s.Record(ctx, NewEntry(q)); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	entries, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 2 || entries[0].Query != "c" || entries[1].Query != "b" {
		t.Errorf("unexpected entries: %+v", entries)
	}

	all, _ := s.Recent(ctx, 0)
	if len(all) != 3 {
		t.Errorf("expected 3 entries, got %d", len(all))
	}
}

func TestInMemoryAssignsID(t *testing.T) {
	s := NewInMemoryStorage()
	ctx := context.Background()

	if err := s.Record(ctx, Entry{Query: "q"}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	entries, _ := s.Recent(ctx, 1)
	if entries[0].ID == "" {
		t.Error("expected an assigned ID")
	}
}

func TestInMemoryEmpty(t *testing.T) {
	s := NewInMemoryStorage()
	entries, err := s.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}

func TestInMemoryConcurrentRecord(t *testing.T) {
	s := NewInMemoryStorage()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Record(ctx, NewEntry("q"))
		}()
	}
	wg.Wait()

	entries, _ := s.Recent(ctx, 0)
	if len(entries) != 20 {
		t.Errorf("expected 20 entries, got %d", len(entries))
	}
}

func TestNewEntry(t *testing.T) {
	a := NewEntry("q")
	b := NewEntry("q")
	if a.ID == "" || a.ID == b.ID {
		t.Error("expected unique non-empty IDs")
	}
	if a.CreatedAt == 0 {
		t.Error("expected a creation timestamp")
	}
	if a.WithSession("s").SessionID != "s" || a.SessionID != "" {
		t.Error("WithSession must return a modified copy")
	}
}
