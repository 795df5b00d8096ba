package storage_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	game "github.com/whoami-game/backend/internal/model/game"
	"github.com/whoami-game/backend/internal/storage"
)

func newSQLiteStore(t *testing.T) *storage.SQLiteStore {
	t.Helper()
	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore err: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	sess := game.NewSession("AB12CD", time.Now())
	sess.AddPlayer("ana")
	sess.AddPlayer("bruno")
	sess.Activate(map[string]game.Assignment{
		"ANA":   {Character: "Batman", Context: "At the gym"},
		"BRUNO": {Character: "Cleopatra", Context: "At the dentist"},
	})

	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("Save err: %v", err)
	}
	loaded, err := store.Load(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	assertSessionsEqual(t, sess, loaded)
}

func TestSQLiteStoreSaveOverwrites(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	sess := game.NewSession("AB12CD", time.Now())
	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("Save err: %v", err)
	}
	sess.AddPlayer("ana")
	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("second Save err: %v", err)
	}

	loaded, err := store.Load(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if len(loaded.Players) != 1 || loaded.Players[0] != "ANA" {
		t.Fatalf("save must overwrite the previous record: %v", loaded.Players)
	}
}

func TestSQLiteStoreLoadMissing(t *testing.T) {
	store := newSQLiteStore(t)

	if _, err := store.Load(context.Background(), "NOPE99"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStoreLoadAllAndDelete(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	first := game.NewSession("AAAA11", time.Now())
	second := game.NewSession("BBBB22", time.Now())
	for _, sess := range []*game.Session{first, second} {
		if err := store.Save(ctx, sess); err != nil {
			t.Fatalf("Save err: %v", err)
		}
	}

	sessions, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll err: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}

	if err := store.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Delete err: %v", err)
	}
	sessions, err = store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll after delete err: %v", err)
	}
	if len(sessions) != 1 || sessions[0].ID != second.ID {
		t.Fatalf("expected only %s to remain, got %v", second.ID, sessions)
	}
}
