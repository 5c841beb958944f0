package generator

import "math/rand"

// Shuffle returns a new slice containing the elements of in under a uniform
// random permutation (Fisher–Yates over a private copy). The input slice is
// never modified: the same base question list is reused across every form of
// an assessment, so mutating it would leak order between forms.
//
// The random source is injected so callers can seed it deterministically in
// tests. Empty and single-element inputs are returned as copies unchanged.
func Shuffle[T any](rnd *rand.Rand, in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	for i := len(out) - 1; i >= 1; i-- {
		j := rnd.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
