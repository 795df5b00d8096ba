package game

import (
	"math/rand"
	"sync"
	"time"

	game "github.com/whoami-game/backend/internal/model/game"
	"github.com/whoami-game/backend/internal/model/words"
)

// Assigner deals character/context pairs to players. Draws are made
// without replacement so values do not repeat while the pool lasts, with
// two exceptions: a pool holding a single value keeps it (it is dealt but
// never removed), and a pool drained by removal is refilled from the full
// bank before the next draw.
type Assigner struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewAssigner returns an assigner seeded with the given value. A zero
// seed falls back to the current time.
func NewAssigner(seed int64) *Assigner {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Assigner{rng: rand.New(rand.NewSource(seed))}
}

// Assign deals one assignment per player, in player order. Character and
// context pools are drawn from independently. An empty player list yields
// an empty map.
func (a *Assigner) Assign(players []string, bank *words.Bank) map[string]game.Assignment {
	a.mu.Lock()
	defer a.mu.Unlock()

	assignments := make(map[string]game.Assignment, len(players))
	characters := append([]string(nil), bank.Characters...)
	contexts := append([]string(nil), bank.Contexts...)

	for _, player := range players {
		assignments[player] = game.Assignment{
			Character: a.draw(&characters, bank.Characters),
			Context:   a.draw(&contexts, bank.Contexts),
		}
	}
	return assignments
}

// draw picks uniformly from the pool, removes the pick unless the pool
// holds exactly one value, and refills an emptied pool from the full
// bank list.
func (a *Assigner) draw(pool *[]string, full []string) string {
	i := a.rng.Intn(len(*pool))
	value := (*pool)[i]
	if len(*pool) > 1 {
		*pool = append((*pool)[:i], (*pool)[i+1:]...)
	}
	if len(*pool) == 0 {
		*pool = append([]string(nil), full...)
	}
	return value
}
