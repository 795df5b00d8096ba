package game

import (
	"math/rand"
	"strings"
)

// Session IDs are short uppercase codes players type or read aloud, e.g.
// "ABC123".
const (
	idAlphabet      = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	DefaultIDLength = 6
)

// randomID draws an ID of the given length from the fixed alphabet.
// Uniqueness is the caller's concern: Create resamples until the ID is
// free among live sessions.
func randomID(rng *rand.Rand, length int) string {
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		b.WriteByte(idAlphabet[rng.Intn(len(idAlphabet))])
	}
	return b.String()
}

// normalizeID uppercases and trims a user-supplied session ID so lookups
// match regardless of how the code was typed.
func normalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}
