package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func sampleEntry(query string) Entry {
	e := NewEntry(query)
	e.Provider = "DeepSeek"
	e.Model = "deepseek-chat"
	e.Answer = "answer to " + query
	e.DurationMs = 42
	return e
}

func TestSqliteRecordAndRecent(t *testing.T) {
	storage, err := NewSqliteInMemory()
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	defer storage.Close()

	ctx := context.Background()

	first := sampleEntry("first")
	second := sampleEntry("weather in shenzhen").WithSession("chat-1")
	second.FunctionCall = `{"name":"get_weather","arguments":{"city":"shenzhen"}}`
	second.FunctionResult = `{"location":"Shenzhen"}`

	if err := storage.Record(ctx, first); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := storage.Record(ctx, second); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	entries, err := storage.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	got := entries[0]
	if got.ID != second.ID {
		t.Errorf("expected newest entry first, got %q", got.Query)
	}
	if got.SessionID != "chat-1" {
		t.Errorf("expected session 'chat-1', got %q", got.SessionID)
	}
	if got.FunctionCall != second.FunctionCall || got.FunctionResult != second.FunctionResult {
		t.Errorf("function fields not round-tripped: %+v", got)
	}
	if got.DurationMs != 42 || got.CreatedAt != second.CreatedAt {
		t.Errorf("numeric fields not round-tripped: %+v", got)
	}

	if entries[1].SessionID != "" || entries[1].FunctionCall != "" || entries[1].Failed() {
		t.Errorf("expected empty optional fields, got %+v", entries[1])
	}
}

func TestSqliteRecentLimit(t *testing.T) {
	storage, err := NewSqliteInMemory()
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	defer storage.Close()

	ctx := context.Background()
	for _, q := range []string{"a", "b", "c"} {
		if err := storage.Record(ctx, sampleEntry(q)); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	entries, err := storage.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 2 || entries[0].Query != "c" || entries[1].Query != "b" {
		t.Errorf("unexpected entries: %+v", entries)
	}

	all, err := storage.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected all 3 entries, got %d", len(all))
	}
}

func TestSqliteRecordAssignsID(t *testing.T) {
	storage, err := NewSqliteInMemory()
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	defer storage.Close()

	ctx := context.Background()
	entry := sampleEntry("q")
	entry.ID = ""
	entry.Error = "no LLM provider available"

	if err := storage.Record(ctx, entry); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	entries, _ := storage.Recent(ctx, 1)
	if len(entries) != 1 || entries[0].ID == "" {
		t.Fatalf("expected an assigned ID, got %+v", entries)
	}
	if !entries[0].Failed() {
		t.Error("expected entry to be marked failed")
	}
}

func TestSqliteRecentEmpty(t *testing.T) {
	storage, err := NewSqliteInMemory()
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	defer storage.Close()

	entries, err := storage.Recent(context.Background(), 5)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if entries == nil || len(entries) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", entries)
	}
}

func TestOpenSqlitePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	ctx := context.Background()

	storage, err := OpenSqlite(path)
	if err != nil {
		t.Fatalf("OpenSqlite failed: %v", err)
	}
	if err := storage.Record(ctx, sampleEntry("persisted")); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	storage.Close()

	reopened, err := OpenSqlite(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	entries, err := reopened.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Query != "persisted" {
		t.Errorf("expected persisted entry, got %+v", entries)
	}
}
