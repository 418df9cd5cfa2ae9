package scheduler

import "github.com/ardentgrid/powdersim/rng"

// marolusOffsets are the four offsets that tile the grid with 2x2
// blocks (§4.7 glossary: "Margolus offset").
var marolusOffsets = [4][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}}

// Offsets returns a permutation of the four Margolus offsets for the
// given sweep within a frame, seeded by hash(frame*2 + sweep) per §4.7.
// A sweep is one group of (up to) four passes; re-shuffling per sweep
// rather than using a fixed order is what keeps the simulation free of
// directional bias and horizontal banding.
func Offsets(frameCounter uint32, sweep int) [4][2]int {
	seed := rng.Hash(frameCounter*2 + uint32(sweep))
	order := [4]int{0, 1, 2, 3}

	// Fisher-Yates, consuming one hash word per swap from a stream
	// derived from seed so the permutation is a pure function of
	// (frameCounter, sweep).
	s := rng.NewStream(seed)
	for i := 3; i > 0; i-- {
		j := int(s.IntRange(0, uint32(i)))
		order[i], order[j] = order[j], order[i]
	}

	var out [4][2]int
	for i, idx := range order {
		out[i] = marolusOffsets[idx]
	}
	return out
}
