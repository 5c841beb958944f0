package generator

import (
	"math/rand"

	"github.com/Herramientasdocentes/Herrmaientas-evaluaci-n/internal/model"
)

// FormItem is one question instance inside a generated form, carrying its
// shuffled option display order. CorrectIndex records which display slot
// holds the correct text; the quiz artifact needs it for grading, the
// document artifact never sees it.
type FormItem struct {
	Question     model.Question
	Options      [4]string
	CorrectIndex int
}

// Form is one randomized variant of an assessment: a question order plus a
// per-question option order. Forms are ephemeral — only the resulting
// artifact links are persisted.
type Form struct {
	Items []FormItem
}

// Builder produces independently randomized forms from a base question set.
type Builder struct {
	rnd *rand.Rand
}

// NewBuilder creates a Builder around the given random source. Inject a
// seeded source in tests for reproducible forms.
func NewBuilder(rnd *rand.Rand) *Builder {
	return &Builder{rnd: rnd}
}

// Build produces one form: a fresh shuffle of the base question order and an
// independent shuffle of each question's four options. The base slice is
// never mutated, so repeated calls yield independently randomized forms.
// Item count always equals len(base).
func (b *Builder) Build(base []model.Question) Form {
	shuffled := Shuffle(b.rnd, base)

	items := make([]FormItem, len(shuffled))
	for i, q := range shuffled {
		items[i] = b.buildItem(q)
	}
	return Form{Items: items}
}

// buildItem shuffles the option positions of a single question. Positions
// are permuted rather than texts so duplicate option texts cannot confuse
// the correct-slot bookkeeping.
func (b *Builder) buildItem(q model.Question) FormItem {
	perm := Shuffle(b.rnd, []int{0, 1, 2, 3})
	original := q.Options()
	correctOriginal := originalIndex(q.CorrectOption)

	item := FormItem{Question: q, CorrectIndex: -1}
	for pos, src := range perm {
		item.Options[pos] = original[src]
		if src == correctOriginal {
			item.CorrectIndex = pos
		}
	}
	return item
}

func originalIndex(label model.OptionLabel) int {
	switch label {
	case model.OptionA:
		return 0
	case model.OptionB:
		return 1
	case model.OptionC:
		return 2
	default:
		return 3
	}
}
