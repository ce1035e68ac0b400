package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

var DB *sql.DB

// ErrTxConflict is returned by WithTx after the bounded retry budget for
// write conflicts is exhausted. Safe for callers to retry.
var ErrTxConflict = errors.New("transaction conflict after retries")

const txMaxAttempts = 5

func InitDatabase(dbPath string) error {
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}

	var err error
	DB, err = sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if err = DB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	log.Println("Database connection established")

	if _, err := DB.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		log.Printf("Warning: failed to enable foreign keys: %v", err)
	}

	if err = createTables(); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	log.Println("Database tables created successfully")
	return nil
}

func createTables() error {
	schema := `
    CREATE TABLE IF NOT EXISTS users (
        id TEXT PRIMARY KEY,
        username TEXT UNIQUE NOT NULL,
        email TEXT UNIQUE,
        password_hash TEXT NOT NULL,
        created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS series (
        id TEXT PRIMARY KEY,
        title TEXT NOT NULL,
        author TEXT,
        synopsis TEXT,
        cover_url TEXT,
        likes INTEGER NOT NULL DEFAULT 0,
        dislikes INTEGER NOT NULL DEFAULT 0,
        views INTEGER NOT NULL DEFAULT 0,
        created_by TEXT,
        created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS chapters (
        id TEXT PRIMARY KEY,
        series_id TEXT NOT NULL,
        number INTEGER NOT NULL DEFAULT 0,
        title TEXT NOT NULL,
        likes INTEGER NOT NULL DEFAULT 0,
        dislikes INTEGER NOT NULL DEFAULT 0,
        views INTEGER NOT NULL DEFAULT 0,
        created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (series_id) REFERENCES series(id) ON DELETE CASCADE
    );

    CREATE TABLE IF NOT EXISTS votes (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        target_kind TEXT NOT NULL CHECK (target_kind IN ('series', 'chapter')),
        target_id TEXT NOT NULL,
        value INTEGER NOT NULL CHECK (value IN (-1, 1)),
        recorded_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
        UNIQUE (user_id, target_kind, target_id)
    );

    CREATE TABLE IF NOT EXISTS views (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        series_id TEXT NOT NULL,
        chapter_id TEXT NOT NULL,
        recorded_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
        UNIQUE (user_id, chapter_id)
    );

    CREATE TABLE IF NOT EXISTS rankings (
        series_id TEXT PRIMARY KEY,
        score REAL NOT NULL DEFAULT 0,
        computed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
    );

    CREATE INDEX IF NOT EXISTS idx_series_created ON series(created_at);
    CREATE INDEX IF NOT EXISTS idx_chapters_series ON chapters(series_id);
    CREATE INDEX IF NOT EXISTS idx_votes_target ON votes(target_kind, target_id);
    CREATE INDEX IF NOT EXISTS idx_views_chapter ON views(chapter_id);
    `

	_, err := DB.Exec(schema)
	return err
}

// WithTx runs fn inside a transaction. The whole transaction is retried up
// to txMaxAttempts times when SQLite reports a write conflict (busy/locked).
// Any other error from fn aborts immediately and is returned unwrapped.
func WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	var lastErr error
	for attempt := 1; attempt <= txMaxAttempts; attempt++ {
		tx, err := DB.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}

		if err := fn(tx); err != nil {
			tx.Rollback()
			if !isConflict(err) {
				return err
			}
			lastErr = err
			time.Sleep(time.Duration(attempt) * 10 * time.Millisecond)
			continue
		}

		if err := tx.Commit(); err != nil {
			if !isConflict(err) {
				return fmt.Errorf("commit transaction: %w", err)
			}
			lastErr = err
			time.Sleep(time.Duration(attempt) * 10 * time.Millisecond)
			continue
		}
		return nil
	}
	return fmt.Errorf("%w: %v", ErrTxConflict, lastErr)
}

func isConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked")
}

func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
