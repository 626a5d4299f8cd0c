package summary

import (
	"cmp"
	"slices"
)

// Select picks at most n sentences and returns them in document order.
//
// With scores == nil the first n sentences are kept (truncation). Otherwise
// the n highest-scoring sentences win, scores being indexed by
// Sentence.Index, and equal scores go to the earlier sentence.
// n < 1 selects nothing; n >= len(sentences) selects everything.
func Select(sentences []Sentence, scores []int, n int) []Sentence {
	if n < 1 || len(sentences) == 0 {
		return nil
	}
	if n >= len(sentences) {
		return slices.Clone(sentences)
	}
	if scores == nil {
		return slices.Clone(sentences[:n])
	}

	ranked := slices.Clone(sentences)
	slices.SortFunc(ranked, func(a, b Sentence) int {
		return cmp.Or(
			cmp.Compare(scores[b.Index], scores[a.Index]),
			cmp.Compare(a.Index, b.Index),
		)
	})

	chosen := ranked[:n]
	slices.SortFunc(chosen, func(a, b Sentence) int {
		return cmp.Compare(a.Index, b.Index)
	})
	return chosen
}
