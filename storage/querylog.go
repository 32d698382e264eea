// Package storage provides the query audit log.
//
// Information Hiding:
// - Storage backend implementation details hidden behind interface
// - Allows swapping between memory and SQLite without API changes
// - Each implementation encapsulates its own data structures

package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Entry records one processed query.
type Entry struct {
	// ID is a unique identifier for this entry.
	ID string `json:"id"`
	// SessionID groups entries from one chat session (empty for one-shot queries).
	SessionID string `json:"session_id,omitempty"`
	// Query is the operator's text.
	Query string `json:"query"`
	// Provider and Model identify the backend active when the query finished.
	Provider string `json:"provider"`
	Model    string `json:"model"`
	// FunctionCall is the parsed call as JSON (empty if none).
	FunctionCall string `json:"function_call,omitempty"`
	// FunctionResult is the payload returned by the function (empty if none).
	FunctionResult string `json:"function_result,omitempty"`
	// Answer is the text shown to the operator.
	Answer string `json:"answer"`
	// Error is the failure description (empty on success).
	Error string `json:"error,omitempty"`
	// CreatedAt is the Unix timestamp when recorded.
	CreatedAt int64 `json:"created_at"`
	// DurationMs is the wall time spent on the query.
	DurationMs uint64 `json:"duration_ms"`
}

// NewEntry creates an entry for query with a fresh ID and timestamp.
func NewEntry(query string) Entry {
	return Entry{
		ID:        uuid.New().String(),
		Query:     query,
		CreatedAt: time.Now().Unix(),
	}
}

// WithSession sets the session ID.
func (e Entry) WithSession(sessionID string) Entry {
	e.SessionID = sessionID
	return e
}

// Failed reports whether the query ended in an error.
func (e Entry) Failed() bool {
	return e.Error != ""
}

// QueryLog stores processed queries.
type QueryLog interface {
	// Record stores an entry. Entries with an empty ID get one assigned.
	Record(ctx context.Context, entry Entry) error

	// Recent returns up to limit entries, newest first. limit <= 0 means all.
	Recent(ctx context.Context, limit int) ([]Entry, error)

	// Close releases the underlying resources.
	Close() error
}
