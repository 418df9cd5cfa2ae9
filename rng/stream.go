package rng

// Stream is a small convenience wrapper around repeated hashing so rule
// code reads as a sequence of probability/range queries instead of
// inline modulo arithmetic at every call site. Each call to Next
// re-hashes the running state, so a Stream produces a deterministic but
// independent-looking sequence from a single starting seed.
type Stream struct {
	state uint32
}

// NewStream starts a stream from a seed, typically produced by Seed.
func NewStream(seed uint32) *Stream {
	return &Stream{state: seed}
}

// Next returns the next pseudo-random word and advances the stream.
func (s *Stream) Next() uint32 {
	s.state = Hash(s.state + 0x9e3779b9)
	return s.state
}

// Chance reports true with probability numerator/denominator.
// denominator must be non-zero; a denominator of 0 always returns false.
func (s *Stream) Chance(numerator, denominator uint32) bool {
	if denominator == 0 {
		return false
	}
	return s.Next()%denominator < numerator
}

// IntRange returns a value in [lo, hi] inclusive.
func (s *Stream) IntRange(lo, hi uint32) uint32 {
	if hi <= lo {
		return lo
	}
	span := hi - lo + 1
	return lo + s.Next()%span
}

// Bool returns a fair coin flip.
func (s *Stream) Bool() bool {
	return s.Next()&1 == 0
}

// Sub derives an independent child stream for a distinct rule, keyed by
// a constant salt, so unrelated rules reading from the same parent seed
// don't see correlated outcomes.
func (s *Stream) Sub(salt uint32) *Stream {
	return &Stream{state: Hash(s.state ^ salt*0x27d4eb2f)}
}
