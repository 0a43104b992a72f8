// Package rng provides the deterministic random source used to lay out rooms.
//
// A Generator is a 32-bit counter mixed through two xor-shift/multiply
// rounds (mulberry32). The same seed always yields the same sequence and
// generators share no state, so a layout can be recomputed at any time.
package rng

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
)

// Source yields floats in [0, 1).
type Source interface {
	Float64() float64
}

// Generator is a seeded pseudo-random source. The zero value is a valid
// generator seeded with 0.
type Generator struct {
	state uint32
}

// New returns a generator seeded with seed.
func New(seed uint32) *Generator {
	return &Generator{state: seed}
}

// Float64 returns the next value in [0, 1).
func (g *Generator) Float64() float64 {
	g.state += 0x6D2B79F5
	t := g.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return float64(t^(t>>14)) / 4294967296.0
}

// Shuffle returns a permuted copy of items using a Fisher–Yates pass from the
// last index down to 1. It draws exactly len(items)-1 values from src.
func Shuffle[T any](items []T, src Source) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := int(src.Float64() * float64(i+1))
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// NewSeed returns a fresh session seed from crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	// Keep seeds small and positive so they read well in logs.
	return int64(binary.LittleEndian.Uint32(b[:4])), nil
}
