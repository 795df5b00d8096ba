package game

import (
	"errors"
	"strings"
	"time"
)

// MinPlayers is the smallest table a round can be dealt to.
const MinPlayers = 2

var (
	ErrInvalidPlayer       = errors.New("player name is required")
	ErrInsufficientPlayers = errors.New("at least 2 players are required to start")
)

// Assignment is the secret character/context pair dealt to one player.
type Assignment struct {
	Character string `json:"character"`
	Context   string `json:"context"`
}

// Session is one independent game: its member list in join order, the
// assignments dealt to them, and whether a round is in progress. Keys of
// Assignments are always a subset of Players.
type Session struct {
	ID          string                `json:"id"`
	Players     []string              `json:"players"`
	Assignments map[string]Assignment `json:"assignments"`
	Active      bool                  `json:"active"`
	CreatedAt   time.Time             `json:"createdAt"`
}

// NewSession returns an empty, inactive session.
func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:          id,
		Players:     []string{},
		Assignments: map[string]Assignment{},
		CreatedAt:   now.UTC(),
	}
}

// NormalizeName uppercases and trims a player name. All membership and
// visibility comparisons happen on normalized names.
func NormalizeName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// AddPlayer appends a player to the member list. It reports joined=false
// with a nil error when the player is already a member; joining does not
// touch assignments or the active flag.
func (s *Session) AddPlayer(name string) (joined bool, err error) {
	normalized := NormalizeName(name)
	if normalized == "" {
		return false, ErrInvalidPlayer
	}
	if s.HasPlayer(normalized) {
		return false, nil
	}
	s.Players = append(s.Players, normalized)
	return true, nil
}

// RemovePlayer drops a player from the member list along with any
// assignment they held. A session whose last assignment goes with the
// departing player falls back to inactive, keeping the rule that an
// active session always has assignments.
func (s *Session) RemovePlayer(name string) bool {
	normalized := NormalizeName(name)
	for i, p := range s.Players {
		if p == normalized {
			s.Players = append(s.Players[:i], s.Players[i+1:]...)
			delete(s.Assignments, normalized)
			if len(s.Assignments) == 0 {
				s.Active = false
			}
			return true
		}
	}
	return false
}

// HasPlayer reports membership of an already-normalized name.
func (s *Session) HasPlayer(name string) bool {
	for _, p := range s.Players {
		if p == name {
			return true
		}
	}
	return false
}

// Activate replaces the current assignments and marks a round in
// progress. Callers are responsible for the minimum-player check.
func (s *Session) Activate(assignments map[string]Assignment) {
	s.Assignments = assignments
	s.Active = true
}

// Reset returns the session to a freshly created empty state. The ID is
// kept; players, assignments and the active flag are dropped.
func (s *Session) Reset(now time.Time) {
	s.Players = []string{}
	s.Assignments = map[string]Assignment{}
	s.Active = false
	s.CreatedAt = now.UTC()
}

// AssignmentFor returns the assignment held by a player, if any.
func (s *Session) AssignmentFor(name string) (Assignment, bool) {
	a, ok := s.Assignments[NormalizeName(name)]
	return a, ok
}

// Clone returns a deep copy safe to hand out after the session lock is
// released.
func (s *Session) Clone() *Session {
	clone := &Session{
		ID:          s.ID,
		Players:     make([]string, len(s.Players)),
		Assignments: make(map[string]Assignment, len(s.Assignments)),
		Active:      s.Active,
		CreatedAt:   s.CreatedAt,
	}
	copy(clone.Players, s.Players)
	for name, a := range s.Assignments {
		clone.Assignments[name] = a
	}
	return clone
}

// Normalize repairs a session decoded from storage: nil collections
// become empty ones and assignments held by non-members are dropped, so
// the in-memory invariants hold regardless of what the record contained.
func (s *Session) Normalize() {
	if s.Players == nil {
		s.Players = []string{}
	}
	if s.Assignments == nil {
		s.Assignments = map[string]Assignment{}
	}
	for name := range s.Assignments {
		if !s.HasPlayer(name) {
			delete(s.Assignments, name)
		}
	}
	if len(s.Assignments) == 0 {
		s.Active = false
	}
}
