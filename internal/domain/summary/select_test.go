package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func texts(sentences []Sentence) []string {
	out := make([]string, len(sentences))
	for i, s := range sentences {
		out[i] = s.Text
	}
	return out
}

func TestSelect(t *testing.T) {
	sentences := Segment("A one. B two. C three. D four.")

	tests := []struct {
		name   string
		scores []int
		n      int
		want   []string
	}{
		{name: "truncation keeps the lead", scores: nil, n: 2, want: []string{"A one.", "B two."}},
		{name: "n equal to count keeps all", scores: nil, n: 4, want: []string{"A one.", "B two.", "C three.", "D four."}},
		{name: "n above count keeps all", scores: []int{1, 2, 3, 4}, n: 10, want: []string{"A one.", "B two.", "C three.", "D four."}},
		{name: "zero selects nothing", scores: nil, n: 0, want: nil},
		{name: "negative selects nothing", scores: []int{1, 1, 1, 1}, n: -1, want: nil},
		{name: "highest scores in document order", scores: []int{1, 9, 2, 8}, n: 2, want: []string{"B two.", "D four."}},
		{name: "ties go to the earlier sentence", scores: []int{5, 5, 5, 5}, n: 2, want: []string{"A one.", "B two."}},
		{name: "tie at the cut-off", scores: []int{1, 7, 7, 7}, n: 2, want: []string{"B two.", "C three."}},
		{name: "zero scores remain eligible", scores: []int{0, 0, 3, 0}, n: 2, want: []string{"A one.", "C three."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Select(sentences, tt.scores, tt.n)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, texts(got))
		})
	}
}

func TestSelect_DoesNotReorderInput(t *testing.T) {
	sentences := Segment("A. B. C.")
	_ = Select(sentences, []int{1, 3, 2}, 2)
	assert.Equal(t, []string{"A.", "B.", "C."}, texts(sentences))
}

func TestSelect_EmptyInput(t *testing.T) {
	assert.Empty(t, Select(nil, nil, 3))
}
