// Package storage provides SQLite query log storage.
//
// Information Hiding:
// - SQLite connection management hidden behind interface
// - Schema and migration details encapsulated
// - Thread-safe via sql.DB's built-in connection pooling

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// SqliteStorage implements QueryLog using SQLite.
// Thread-safe: sql.DB handles connection pooling and concurrent access.
type SqliteStorage struct {
	db *sql.DB
}

// OpenSqlite opens or creates a SQLite database at the given path.
// Creates parent directories if they don't exist.
func OpenSqlite(path string) (*SqliteStorage, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	storage := &SqliteStorage{db: db}
	if err := storage.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return storage, nil
}

// NewSqliteInMemory creates an in-memory database (useful for testing).
func NewSqliteInMemory() (*SqliteStorage, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory SQLite: %w", err)
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	storage := &SqliteStorage{db: db}
	if err := storage.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return storage, nil
}

// Close closes the database connection.
func (s *SqliteStorage) Close() error {
	return s.db.Close()
}

func (s *SqliteStorage) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS queries (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			session_id TEXT,
			query TEXT NOT NULL,
			provider TEXT NOT NULL,
			model TEXT NOT NULL,
			function_call TEXT,
			function_result TEXT,
			answer TEXT NOT NULL,
			error TEXT,
			created_at INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_queries_created
		ON queries(created_at DESC);

		CREATE INDEX IF NOT EXISTS idx_queries_session
		ON queries(session_id);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Record stores an entry.
func (s *SqliteStorage) Record(ctx context.Context, entry Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO queries
			(id, session_id, query, provider, model, function_call, function_result, answer, error, created_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		nullIfEmpty(entry.SessionID),
		entry.Query,
		entry.Provider,
		entry.Model,
		nullIfEmpty(entry.FunctionCall),
		nullIfEmpty(entry.FunctionResult),
		entry.Answer,
		nullIfEmpty(entry.Error),
		entry.CreatedAt,
		int64(entry.DurationMs),
	)
	if err != nil {
		return fmt.Errorf("failed to store query: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *SqliteStorage) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, query, provider, model, function_call, function_result,
		       answer, error, created_at, duration_ms
		FROM queries
		ORDER BY seq DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}
	return entries, nil
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var entry Entry
	var sessionID, functionCall, functionResult, errText sql.NullString
	var durationMs int64

	err := rows.Scan(
		&entry.ID,
		&sessionID,
		&entry.Query,
		&entry.Provider,
		&entry.Model,
		&functionCall,
		&functionResult,
		&entry.Answer,
		&errText,
		&entry.CreatedAt,
		&durationMs,
	)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to scan query row: %w", err)
	}

	entry.SessionID = sessionID.String
	entry.FunctionCall = functionCall.String
	entry.FunctionResult = functionResult.String
	entry.Error = errText.String
	entry.DurationMs = uint64(durationMs)
	return entry, nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Verify SqliteStorage implements QueryLog
var _ QueryLog = (*SqliteStorage)(nil)
