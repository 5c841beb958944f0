package generator

import (
	"math/rand"
	"sort"
	"testing"
)

func TestShuffleIsPermutation(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	for _, size := range []int{0, 1, 2, 5, 50} {
		in := make([]int, size)
		for i := range in {
			in[i] = i
		}

		out := Shuffle(rnd, in)
		if len(out) != len(in) {
			t.Fatalf("size %d: got %d elements", size, len(out))
		}

		sorted := append([]int(nil), out...)
		sort.Ints(sorted)
		for i, v := range sorted {
			if v != i {
				t.Fatalf("size %d: result is not a permutation: %v", size, out)
			}
		}
	}
}

func TestShuffleDoesNotMutateInput(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	in := []string{"a", "b", "c", "d", "e", "f", "g", "h"}

	for i := 0; i < 100; i++ {
		_ = Shuffle(rnd, in)
	}

	want := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	for i := range want {
		if in[i] != want[i] {
			t.Fatalf("input mutated at %d: %v", i, in)
		}
	}
}

func TestShuffleReturnsFreshBacking(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	in := []int{1, 2, 3}

	out := Shuffle(rnd, in)
	out[0] = 99

	if in[0] == 99 || in[1] == 99 || in[2] == 99 {
		t.Fatal("modifying the result leaked into the input slice")
	}
}

// Every permutation of a 3-element input should appear with roughly equal
// frequency. With 6000 draws each of the 6 permutations expects ~1000 hits;
// the tolerance is loose enough to make flakes practically impossible.
func TestShuffleUniformity(t *testing.T) {
	rnd := rand.New(rand.NewSource(4))
	const draws = 6000

	counts := make(map[[3]int]int)
	for i := 0; i < draws; i++ {
		out := Shuffle(rnd, []int{0, 1, 2})
		counts[[3]int{out[0], out[1], out[2]}]++
	}

	if len(counts) != 6 {
		t.Fatalf("expected all 6 permutations, saw %d", len(counts))
	}
	for perm, n := range counts {
		if n < 700 || n > 1300 {
			t.Fatalf("permutation %v count %d outside [700, 1300]", perm, n)
		}
	}
}
