// Package random provides the single randomness source shared by dice rolls,
// room codes and objective selection.
//
// The source is non-cryptographic. It is seeded once at startup (from
// crypto/rand unless a fixed seed is configured) so tests and local runs can
// replay identical games.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"sync"
)

// Source is the randomness provider used by the game core.
//
// Implementations must be safe for concurrent use.
type Source interface {
	// Intn returns a random int in [0, n). n must be > 0.
	Intn(n int) int
}

// Seeded is a Source backed by a math/rand generator.
type Seeded struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a Source seeded with seed.
func New(seed int64) *Seeded {
	return &Seeded{rng: rand.New(rand.NewSource(seed))}
}

// Intn implements Source.
func (s *Seeded) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// RollDie returns a die face in [1, 6].
func RollDie(src Source) int {
	return src.Intn(6) + 1
}
