package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	_ "github.com/mattn/go-sqlite3"

	"github.com/whoami-game/backend/internal/model/game"
)

// SQLiteStore keeps one row per session, with the full record as a JSON
// document. An alternative to the file backend for deployments that
// prefer a single database file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database and ensures the
// sessions table exists.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database %s: %w", dsn, err)
	}

	const schema = `
		CREATE TABLE IF NOT EXISTS sessions (
			id   TEXT PRIMARY KEY,
			data TEXT NOT NULL
		)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create sessions table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Save upserts the session record.
func (st *SQLiteStore) Save(ctx context.Context, sess *game.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sess.ID, err)
	}

	const query = `
		INSERT INTO sessions (id, data) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data`
	if _, err := st.db.ExecContext(ctx, query, sess.ID, string(data)); err != nil {
		return fmt.Errorf("write session %s: %w", sess.ID, err)
	}
	return nil
}

// Load reads a single session record.
func (st *SQLiteStore) Load(ctx context.Context, id string) (*game.Session, error) {
	var data string
	err := st.db.QueryRowContext(ctx, `SELECT data FROM sessions WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read session %s: %w", id, err)
	}

	var sess game.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &sess, nil
}

// LoadAll returns every stored session, skipping malformed rows with a
// warning.
func (st *SQLiteStore) LoadAll(ctx context.Context) ([]*game.Session, error) {
	rows, err := st.db.QueryContext(ctx, `SELECT id, data FROM sessions`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*game.Session
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			log.Printf("[storage] skipping session row: %v", err)
			continue
		}
		var sess game.Session
		if err := json.Unmarshal([]byte(data), &sess); err != nil {
			log.Printf("[storage] skipping session row %s: %v", id, err)
			continue
		}
		if sess.ID == "" {
			log.Printf("[storage] skipping session row %s: missing id", id)
			continue
		}
		sessions = append(sessions, &sess)
	}
	if err := rows.Err(); err != nil {
		return sessions, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// Delete removes the session record. Deleting a missing record is not an
// error.
func (st *SQLiteStore) Delete(ctx context.Context, id string) error {
	if _, err := st.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}

// Close releases the underlying database handle.
func (st *SQLiteStore) Close() error { return st.db.Close() }
