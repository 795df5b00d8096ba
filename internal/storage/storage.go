// Package storage persists one durable record per game session. The
// in-memory session registry remains the source of truth while the
// process runs; these backends exist so sessions survive restarts and
// can be re-read on demand.
package storage

import (
	"context"
	"errors"

	"github.com/whoami-game/backend/internal/model/game"
)

// ErrNotFound indicates no durable record exists for a session ID.
var ErrNotFound = errors.New("session record not found")

// Store is the durable per-session record store. Save overwrites any
// previous record for the same ID. LoadAll skips unreadable or malformed
// records with a logged warning instead of failing the whole load.
type Store interface {
	Save(ctx context.Context, sess *game.Session) error
	Load(ctx context.Context, id string) (*game.Session, error)
	LoadAll(ctx context.Context) ([]*game.Session, error)
	Delete(ctx context.Context, id string) error
	Close() error
}
