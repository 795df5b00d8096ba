package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/whoami-game/backend/internal/model/game"
)

// FileStore keeps one JSON file per session in a flat directory, named
// <ID>.json. Writes go through a uniquely named temp file and a rename,
// so a concurrent reader never observes a half-written record.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed and returns the store.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create session directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (fs *FileStore) path(id string) string {
	return filepath.Join(fs.dir, id+".json")
}

// Save writes the session record atomically.
func (fs *FileStore) Save(_ context.Context, sess *game.Session) error {
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sess.ID, err)
	}

	tmp := fs.path(sess.ID) + ".tmp-" + uuid.NewString()
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write session %s: %w", sess.ID, err)
	}
	if err := os.Rename(tmp, fs.path(sess.ID)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("commit session %s: %w", sess.ID, err)
	}
	return nil
}

// Load reads a single session record. ErrNotFound signals a missing
// record; callers treat it as a normal negative result.
func (fs *FileStore) Load(_ context.Context, id string) (*game.Session, error) {
	data, err := os.ReadFile(fs.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read session %s: %w", id, err)
	}

	var sess game.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &sess, nil
}

// LoadAll enumerates every session record in the directory. A record
// that cannot be read or decoded is skipped with a warning.
func (fs *FileStore) LoadAll(ctx context.Context) ([]*game.Session, error) {
	entries, err := os.ReadDir(fs.dir)
	if err != nil {
		return nil, fmt.Errorf("list session directory %s: %w", fs.dir, err)
	}

	var sessions []*game.Session
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		id := strings.TrimSuffix(name, ".json")
		sess, err := fs.Load(ctx, id)
		if err != nil {
			log.Printf("[storage] skipping session record %s: %v", name, err)
			continue
		}
		if sess.ID == "" {
			log.Printf("[storage] skipping session record %s: missing id", name)
			continue
		}
		sessions = append(sessions, sess)
	}
	return sessions, nil
}

// Delete removes the session record. Deleting a missing record is not an
// error.
func (fs *FileStore) Delete(_ context.Context, id string) error {
	if err := os.Remove(fs.path(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}

// Close is a no-op for the file backend.
func (fs *FileStore) Close() error { return nil }
