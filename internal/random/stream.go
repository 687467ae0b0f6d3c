// Package random provides the seeded uniform streams consumed by the samplers.
//
// A Stream is not safe for concurrent use; every worker owns its own.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// Uniform is a source of independent draws in [0,1).
type Uniform interface {
	Float64() float64
}

type Stream = rand.Rand

// New returns a PCG stream for the seed and stream selector.
func New(seed, stream uint64) *Stream {
	return rand.New(rand.NewPCG(seed, stream))
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// DeriveSeed mixes a parent seed and a worker index into a new seed
// (SplitMix64 finalizer).
func DeriveSeed(parent uint64, worker uint64) uint64 {
	x := parent ^ (worker + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// ForWorker returns the stream owned by the given worker of a run.
func ForWorker(seed uint64, worker int) *Stream {
	return New(DeriveSeed(seed, uint64(worker)), uint64(worker))
}
