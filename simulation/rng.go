package simulation

import "golang.org/x/exp/rand"

// derivePathSeed maps (masterSeed, pathIndex) to an independent stream seed
// using a SplitMix64 finalizer. The whole run is reproducible from the
// master seed alone, and any single path can be regenerated in isolation
// from its index.
func derivePathSeed(masterSeed uint64, pathIndex int) uint64 {
	z := masterSeed + (uint64(pathIndex)+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// pathSource builds the seeded random source for one path. Every component
// that samples takes such an explicit source; nothing in the engine touches
// global random state.
func pathSource(masterSeed uint64, pathIndex int) *rand.Rand {
	return rand.New(rand.NewSource(derivePathSeed(masterSeed, pathIndex)))
}
