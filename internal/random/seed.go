// Package random provides cryptographic seed generation helpers.
//
// It uses crypto/rand to generate high-entropy seeds suitable for
// initializing pseudo-random number generators in deterministic systems,
// such as the pitch variation applied to networked sounds.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"time"
)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// SeedOrNow returns a crypto/rand seed, falling back to the wall clock when
// entropy is unavailable. Callers that need a hard failure use NewSeed.
func SeedOrNow() int64 {
	seed, err := NewSeed()
	if err != nil {
		return time.Now().UnixNano()
	}
	return seed
}
