package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ashureev/salestwin/internal/domain"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (Repository, error) {
	return newSQLite(dbPath)
}

func newSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db, now: time.Now}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS training_sessions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL DEFAULT '',
		date TEXT NOT NULL,
		score INTEGER NOT NULL,
		config_json TEXT NOT NULL,
		metrics_json TEXT NOT NULL,
		insights_json TEXT NOT NULL,
		messages_json TEXT NOT NULL,
		feedback_json TEXT NOT NULL,
		archived_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_training_sessions_user ON training_sessions(user_id, archived_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// ArchiveSession stores a completed training session.
// Implements retry logic with exponential backoff to handle SQLITE_BUSY errors.
func (s *SQLiteStore) ArchiveSession(ctx context.Context, session domain.TrainingSession) error {
	row, err := encodeSession(session)
	if err != nil {
		return err
	}

	query := `
	INSERT INTO training_sessions (
		id, user_id, date, score, config_json, metrics_json,
		insights_json, messages_json, feedback_json, archived_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		user_id = excluded.user_id,
		date = excluded.date,
		score = excluded.score,
		config_json = excluded.config_json,
		metrics_json = excluded.metrics_json,
		insights_json = excluded.insights_json,
		messages_json = excluded.messages_json,
		feedback_json = excluded.feedback_json`

	archivedAt := s.now().UnixNano()
	err = withRetry(ctx, "archive_session", func() error {
		_, err := s.db.ExecContext(ctx, query,
			session.ID, session.UserID, session.Date, session.Score,
			row.config, row.metrics, row.insights, row.messages, row.feedback,
			archivedAt,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("archive session %s: %w", session.ID, err)
	}
	return nil
}

const selectSessions = `
	SELECT id, user_id, date, score, config_json, metrics_json,
	       insights_json, messages_json, feedback_json
	FROM training_sessions`

// GetSession retrieves an archived session by id.
func (s *SQLiteStore) GetSession(ctx context.Context, id string) (*domain.TrainingSession, error) {
	row := s.db.QueryRowContext(ctx, selectSessions+` WHERE id = ?`, id)
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

// ListSessions returns every archived session, oldest first.
func (s *SQLiteStore) ListSessions(ctx context.Context) ([]domain.TrainingSession, error) {
	return s.query(ctx, selectSessions+` ORDER BY archived_at, rowid`)
}

// ListUserSessions returns one user's archived sessions, oldest first.
func (s *SQLiteStore) ListUserSessions(ctx context.Context, userID string) ([]domain.TrainingSession, error) {
	return s.query(ctx, selectSessions+` WHERE user_id = ? ORDER BY archived_at, rowid`, userID)
}

func (s *SQLiteStore) query(ctx context.Context, query string, args ...any) ([]domain.TrainingSession, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close session rows", "error", closeErr)
		}
	}()

	sessions := []domain.TrainingSession{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

type sessionRow struct {
	config   string
	metrics  string
	insights string
	messages string
	feedback string
}

func encodeSession(session domain.TrainingSession) (sessionRow, error) {
	var row sessionRow
	fields := []struct {
		dst  *string
		name string
		v    any
	}{
		{&row.config, "config", session.Config},
		{&row.metrics, "metrics", session.Metrics},
		{&row.insights, "insights", nonNil(session.UsedInsights)},
		{&row.messages, "messages", nonNil(session.Messages)},
		{&row.feedback, "feedback", session.Feedback},
	}
	for _, f := range fields {
		b, err := json.Marshal(f.v)
		if err != nil {
			return sessionRow{}, fmt.Errorf("encode %s: %w", f.name, err)
		}
		*f.dst = string(b)
	}
	return row, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(sc scanner) (*domain.TrainingSession, error) {
	var session domain.TrainingSession
	var row sessionRow
	err := sc.Scan(
		&session.ID, &session.UserID, &session.Date, &session.Score,
		&row.config, &row.metrics, &row.insights, &row.messages, &row.feedback,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan session row: %w", err)
	}

	fields := []struct {
		src  string
		name string
		dst  any
	}{
		{row.config, "config", &session.Config},
		{row.metrics, "metrics", &session.Metrics},
		{row.insights, "insights", &session.UsedInsights},
		{row.messages, "messages", &session.Messages},
		{row.feedback, "feedback", &session.Feedback},
	}
	for _, f := range fields {
		if err := json.Unmarshal([]byte(f.src), f.dst); err != nil {
			return nil, fmt.Errorf("decode %s of session %s: %w", f.name, session.ID, err)
		}
	}
	return &session, nil
}
