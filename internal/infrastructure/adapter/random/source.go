package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"

	coreport "github.com/amirhossein-jamali/spin-rewards/internal/domain/port/core"
)

// Source is a goroutine-safe PCG generator
type Source struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSource returns a source seeded from crypto/rand
func NewSource() *Source {
	var seed [16]byte
	if _, err := crand.Read(seed[:]); err != nil {
		// crypto/rand.Read does not fail on supported platforms
		panic("random: cannot seed generator: " + err.Error())
	}
	return NewSeededSource(binary.LittleEndian.Uint64(seed[:8]), binary.LittleEndian.Uint64(seed[8:]))
}

// NewSeededSource returns a reproducible source
func NewSeededSource(seed1, seed2 uint64) *Source {
	return &Source{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

var _ coreport.RandomSource = (*Source)(nil)

// Int63n returns a uniform value in [0,n). It panics if n <= 0.
func (s *Source) Int63n(n int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Int64N(n)
}
