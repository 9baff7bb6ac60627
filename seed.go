package orrery

import (
	"hash/fnv"
	"math/rand/v2"
)

// Seed drives every pseudo-random draw a generator makes. Identical seeds
// and parameters produce identical buffers.
type Seed uint64

// Stream identifiers keep sub-streams of different generators apart even
// when they share a seed.
const (
	streamSurface uint64 = 0x5375_7266 // "Surf"
)

// splitmix64 is the finalizer from Steele et al., used to turn
// (seed, stream, row) into well-separated PCG states.
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// rowRand returns the random generator owned by scanline row of the given
// stream. Each row has its own generator, advanced left to right, so a row's
// draws never depend on which goroutine renders it or in what order.
func (s Seed) rowRand(stream uint64, row int) *rand.Rand {
	hi := splitmix64(uint64(s) ^ splitmix64(stream))
	lo := splitmix64(hi ^ uint64(row))
	return rand.New(rand.NewPCG(hi, lo))
}

// Derive returns the seed of a named stream, e.g. one body's surface. The
// result depends only on s and name, so adding or reordering other names
// leaves it unchanged.
func (s Seed) Derive(name string) Seed {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name)) // fnv.Write never returns an error
	return Seed(splitmix64(uint64(s) ^ h.Sum64()))
}
