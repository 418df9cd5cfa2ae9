// Package rng implements the stateless integer hash that every random
// decision in the automaton derives from. There is no PRNG state that
// traverses the kernel boundary: two calls with the same seed always
// produce the same word, which is what makes the block kernel safe to
// run on an arbitrary number of parallel threads (§4.2, §5).
package rng

// Hash applies the multiply-shift mixing sequence from spec §4.2.
func Hash(x uint32) uint32 {
	x ^= x >> 16
	x *= 0x45d9f3b
	x ^= x >> 16
	x *= 0x45d9f3b
	x ^= x >> 16
	return x
}

// Seed combines a block's base coordinates and the frame/pass counter
// into a single word before hashing, so that every block in every pass
// of every frame samples an independent-looking stream. salt lets a
// single rule derive several unrelated decisions from the same block
// without the outcomes correlating.
func Seed(blockX, blockY int, frameAndPass uint32, salt uint32) uint32 {
	h := uint32(blockX)*0x9e3779b1 ^ uint32(blockY)*0x85ebca6b
	h ^= frameAndPass * 0xc2b2ae35
	h ^= salt * 0x27d4eb2f
	return Hash(h)
}
