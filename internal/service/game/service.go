package game

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	game "github.com/whoami-game/backend/internal/model/game"
	"github.com/whoami-game/backend/internal/model/words"
	"github.com/whoami-game/backend/internal/storage"
)

// ErrSessionNotFound indicates an unknown session ID. Callers validating
// user-typed codes treat it as a normal negative result.
var ErrSessionNotFound = errors.New("session not found")

// Service is the registry of live game sessions. Every mutation runs
// inside the target session's critical section and is written to durable
// storage before success is reported; a failed durable write is logged
// and counted while the in-memory state stands. Operations on different
// sessions do not contend.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*entry

	store    storage.Store
	bank     *words.Bank
	assigner *Assigner

	idLength int
	idMu     sync.Mutex
	idRng    *rand.Rand
}

// entry pairs a session with its own lock so read-modify-persist
// sequences for one session cannot interleave.
type entry struct {
	mu   sync.Mutex
	sess *game.Session
}

// Status is the pull-based snapshot a front end renders for one player.
// Assignment is the requester's own pair, present only when they hold
// one; whether to actually reveal it is the presentation layer's call.
type Status struct {
	GameID         string            `json:"gameId"`
	Active         bool              `json:"active"`
	Players        []string          `json:"players"`
	VisibleRows    []game.VisibleRow `json:"visibleRows"`
	Assignment     *game.Assignment  `json:"assignment,omitempty"`
	IsPlayerInGame bool              `json:"isPlayerInGame"`
}

// NewService wires the session registry to its word bank, assigner and
// durable store. idLength <= 0 falls back to the default code length.
func NewService(store storage.Store, bank *words.Bank, assigner *Assigner, idLength int) *Service {
	if idLength <= 0 {
		idLength = DefaultIDLength
	}
	return &Service{
		sessions: make(map[string]*entry),
		store:    store,
		bank:     bank,
		assigner: assigner,
		idLength: idLength,
		idRng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// LoadAll populates the registry from durable storage. It runs once at
// startup, before the service accepts any other call. Malformed records
// were already skipped by the store; records are normalized so in-memory
// invariants hold even after external edits.
func (s *Service) LoadAll(ctx context.Context) error {
	sessions, err := s.store.LoadAll(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range sessions {
		sess.Normalize()
		s.sessions[sess.ID] = &entry{sess: sess}
	}
	log.Printf("[game] loaded %d session(s) from storage", len(sessions))
	return nil
}

// Create provisions an empty session under a fresh collision-checked ID
// and persists it immediately.
func (s *Service) Create(ctx context.Context) (*game.Session, error) {
	s.mu.Lock()
	var id string
	for {
		id = s.newID()
		if _, exists := s.sessions[id]; !exists {
			break
		}
	}
	sess := game.NewSession(id, time.Now())
	e := &entry{sess: sess}
	s.sessions[id] = e
	s.mu.Unlock()

	e.mu.Lock()
	s.persist(ctx, sess)
	clone := sess.Clone()
	e.mu.Unlock()

	metricSessionsCreated.Inc()
	return clone, nil
}

// Get returns a snapshot of a session, or ErrSessionNotFound.
func (s *Service) Get(_ context.Context, id string) (*game.Session, error) {
	e, ok := s.lookup(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sess.Clone(), nil
}

// Join adds a player to a session. joined is false when the name was
// already a member, which callers report as a successful rejoin.
func (s *Service) Join(ctx context.Context, id, playerName string) (sess *game.Session, joined bool, err error) {
	e, ok := s.lookup(id)
	if !ok {
		return nil, false, ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	joined, err = e.sess.AddPlayer(playerName)
	if err != nil {
		return nil, false, err
	}
	if joined {
		s.persist(ctx, e.sess)
		metricPlayersJoined.Inc()
	}
	return e.sess.Clone(), joined, nil
}

// Leave removes a player from a session. removed is false when the name
// was not a member.
func (s *Service) Leave(ctx context.Context, id, playerName string) (sess *game.Session, removed bool, err error) {
	e, ok := s.lookup(id)
	if !ok {
		return nil, false, ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if removed = e.sess.RemovePlayer(playerName); removed {
		s.persist(ctx, e.sess)
		metricPlayersLeft.Inc()
	}
	return e.sess.Clone(), removed, nil
}

// Start deals a fresh round to the current member list, replacing any
// prior assignments. Fewer than two players is reported via
// game.ErrInsufficientPlayers without mutating the session.
func (s *Service) Start(ctx context.Context, id string) (*game.Session, error) {
	e, ok := s.lookup(id)
	if !ok {
		return nil, ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.sess.Players) < game.MinPlayers {
		return nil, game.ErrInsufficientPlayers
	}
	e.sess.Activate(s.assigner.Assign(e.sess.Players, s.bank))
	s.persist(ctx, e.sess)
	metricRoundsStarted.Inc()
	return e.sess.Clone(), nil
}

// Reset returns a session to a freshly created empty state. Always
// available, whatever state the session is in.
func (s *Service) Reset(ctx context.Context, id string) (*game.Session, error) {
	e, ok := s.lookup(id)
	if !ok {
		return nil, ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.sess.Reset(time.Now())
	s.persist(ctx, e.sess)
	metricSessionsReset.Inc()
	return e.sess.Clone(), nil
}

// Remove drops a session from the registry and deletes its durable
// record.
func (s *Service) Remove(ctx context.Context, id string) error {
	normalized := normalizeID(id)

	s.mu.Lock()
	_, ok := s.sessions[normalized]
	delete(s.sessions, normalized)
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	if err := s.store.Delete(ctx, normalized); err != nil {
		log.Printf("[game] delete session record %s: %v", normalized, err)
	}
	return nil
}

// Reload replaces the in-memory session wholesale with its durable copy,
// recovering from external edits to the record. A session missing from
// memory but present in storage is re-adopted. storage.ErrNotFound is
// returned when no durable copy exists.
func (s *Service) Reload(ctx context.Context, id string) (*game.Session, error) {
	normalized := normalizeID(id)

	loaded, err := s.store.Load(ctx, normalized)
	if err != nil {
		return nil, err
	}
	loaded.Normalize()

	// The entry is published with its session already set: a concurrent
	// lookup must never observe an entry without one.
	s.mu.Lock()
	e, ok := s.sessions[normalized]
	if !ok {
		e = &entry{sess: loaded}
		s.sessions[normalized] = e
	}
	s.mu.Unlock()

	e.mu.Lock()
	e.sess = loaded
	clone := loaded.Clone()
	e.mu.Unlock()

	log.Printf("[game] session %s reloaded from storage", normalized)
	return clone, nil
}

// Status returns the per-player view of a session: member list, the rows
// the requester may see, and the requester's own assignment if any.
func (s *Service) Status(_ context.Context, id, playerName string) (Status, error) {
	e, ok := s.lookup(id)
	if !ok {
		return Status{}, ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	normalized := game.NormalizeName(playerName)
	status := Status{
		GameID:         e.sess.ID,
		Active:         e.sess.Active,
		Players:        append([]string{}, e.sess.Players...),
		VisibleRows:    e.sess.VisibleRows(normalized),
		IsPlayerInGame: e.sess.HasPlayer(normalized),
	}
	if a, ok := e.sess.AssignmentFor(normalized); ok {
		status.Assignment = &a
	}
	return status, nil
}

func (s *Service) lookup(id string) (*entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[normalizeID(id)]
	return e, ok
}

func (s *Service) newID() string {
	s.idMu.Lock()
	defer s.idMu.Unlock()
	return randomID(s.idRng, s.idLength)
}

// persist writes the session to durable storage inside the caller's
// critical section. A failed write degrades persistence but does not
// fail the operation: the in-memory mutation stands.
func (s *Service) persist(ctx context.Context, sess *game.Session) {
	if err := s.store.Save(ctx, sess); err != nil {
		metricPersistFailures.Inc()
		log.Printf("[game] persist session %s: %v (keeping in-memory state)", sess.ID, err)
	}
}
