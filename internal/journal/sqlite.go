package journal

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"github.com/zaapr0x/mc-hook/pkg/event"
)

// SQLite journals events into a local database through a single writer
// goroutine. Appends never block the game tick: when the writer falls
// behind, events are dropped and counted.
type SQLite struct {
	db  *sql.DB
	log *slog.Logger

	ch   chan event.Event
	wg   sync.WaitGroup
	once sync.Once

	// mu orders Append sends before the channel close: producers hold
	// it shared, Close holds it exclusively.
	mu     sync.RWMutex
	closed bool

	dropped atomic.Int64
}

// Ensure SQLite implements the Journal interface
var _ Journal = (*SQLite)(nil)

// OpenSQLite opens or creates the database at path and starts the
// writer.
func OpenSQLite(path string, log *slog.Logger) (*SQLite, error) {
	if path == "" {
		return nil, fmt.Errorf("empty database path")
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLite{
		db:  db,
		log: log,
		ch:  make(chan event.Event, 4096),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	// WAL suits an append-only workload.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("failed to apply pragma: %w", err)
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id TEXT NOT NULL,
			type TEXT NOT NULL,
			player TEXT NOT NULL,
			at TEXT NOT NULL,
			raw_json TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_player ON events(player, id);`,
		`CREATE INDEX IF NOT EXISTS idx_events_type ON events(type, id);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// Append queues the event for the writer. It never blocks; events are
// dropped when the buffer is full. Safe to call concurrently with
// Close.
func (s *SQLite) Append(ctx context.Context, e event.Event) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil
	}
	select {
	case s.ch <- e:
	default:
		s.dropped.Add(1)
	}
	return nil
}

// Dropped returns how many events were discarded because the writer
// fell behind.
func (s *SQLite) Dropped() int64 {
	return s.dropped.Load()
}

func (s *SQLite) loop() {
	for e := range s.ch {
		raw, err := e.Marshal()
		if err != nil {
			s.log.Error("Failed to marshal event for journal", "error", err, "event_id", e.ID)
			continue
		}
		_, err = s.db.Exec(
			`INSERT INTO events (event_id, type, player, at, raw_json) VALUES (?, ?, ?, ?, ?)`,
			e.ID, string(e.Type), e.Player, e.At.UTC().Format(time.RFC3339Nano), string(raw),
		)
		if err != nil {
			s.log.Error("Failed to write event to journal", "error", err, "event_id", e.ID)
		}
	}
}

// Recent returns up to limit events, newest first.
func (s *SQLite) Recent(ctx context.Context, limit int) ([]event.Event, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT raw_json FROM events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []event.Event
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan journal row: %w", err)
		}
		e, err := event.Unmarshal([]byte(raw))
		if err != nil {
			s.log.Warn("Skipping unreadable journal entry", "error", err)
			continue
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Ping checks the database connection.
func (s *SQLite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close drains the writer and closes the database.
func (s *SQLite) Close() error {
	var err error
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		close(s.ch)
		s.mu.Unlock()
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}
