package summary

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{in: "", want: ModeFrequency},
		{in: "frequency", want: ModeFrequency},
		{in: " FREQ ", want: ModeFrequency},
		{in: "truncation", want: ModeTruncation},
		{in: "truncate", want: ModeTruncation},
		{in: "lead", want: ModeTruncation},
		{in: "none", want: ModeTruncation},
		{in: "abstractive", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownMode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSummarizer_Summarize(t *testing.T) {
	fourSentences := "This is sentence one. This is sentence two. This is sentence three. This is sentence four."

	tests := []struct {
		name string
		mode Mode
		text string
		n    int
		want string
	}{
		{
			name: "truncation keeps the first three",
			mode: ModeTruncation,
			text: fourSentences,
			n:    3,
			want: "This is sentence one. This is sentence two. This is sentence three.",
		},
		{
			name: "empty text gives empty summary",
			mode: ModeTruncation,
			text: "",
			n:    3,
			want: "",
		},
		{
			name: "frequency ties broken by position",
			mode: ModeFrequency,
			text: "Cats chase mice. Mice flee cats. Dogs chase cats.",
			n:    2,
			want: "Cats chase mice. Mice flee cats.",
		},
		{
			name: "no terminal punctuation",
			mode: ModeFrequency,
			text: "hello world",
			n:    1,
			want: "hello world",
		},
		{
			name: "no terminal punctuation with large n",
			mode: ModeTruncation,
			text: "hello world",
			n:    10,
			want: "hello world",
		},
		{
			name: "n above count returns the cleaned text",
			mode: ModeFrequency,
			text: "  First one.   Second one!\n\nThird one?  ",
			n:    5,
			want: "First one. Second one! Third one?",
		},
		{
			name: "frequency output stays in document order",
			mode: ModeFrequency,
			text: "Weather was mild. Rust compilers compile Rust code. Lunch was fine. Rust code compiles slowly.",
			n:    2,
			want: "Rust compilers compile Rust code. Rust code compiles slowly.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(WithMode(tt.mode)).Summarize(tt.text, tt.n)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSummarizer_InvalidCount(t *testing.T) {
	for _, n := range []int{0, -1} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			_, err := New().Summarize("Some text.", n)
			assert.ErrorIs(t, err, ErrInvalidSentenceCount)
		})
	}
}

func TestSummarizer_InvalidMode(t *testing.T) {
	_, err := New(WithMode("bogus")).Extract("Some text.", 1)
	assert.True(t, errors.Is(err, ErrUnknownMode))
}

func TestSummarizer_Extract(t *testing.T) {
	res, err := New().Extract("Cats chase mice. Mice flee cats. Dogs chase cats.", 2)
	require.NoError(t, err)

	assert.Equal(t, ModeFrequency, res.Mode)
	assert.Equal(t, 3, res.TotalSentences)
	require.Len(t, res.Sentences, 2)
	assert.Equal(t, ScoredSentence{Sentence: Sentence{Index: 0, Text: "Cats chase mice."}, Score: 7}, res.Sentences[0])
	assert.Equal(t, ScoredSentence{Sentence: Sentence{Index: 1, Text: "Mice flee cats."}, Score: 6}, res.Sentences[1])

	trunc, err := New(WithMode(ModeTruncation)).Extract("A. B.", 1)
	require.NoError(t, err)
	assert.Equal(t, "A.", trunc.Summary)
	assert.Zero(t, trunc.Sentences[0].Score)
}

func TestSummarizer_Idempotent(t *testing.T) {
	text := "Alpha beta gamma. Beta gamma delta. Gamma delta alpha. Delta alpha beta. Epsilon."
	s := New()

	first, err := s.Summarize(text, 2)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := s.Summarize(text, 2)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestSummarizer_ConcurrentUse(t *testing.T) {
	s := New()
	text := "Cats chase mice. Mice flee cats. Dogs chase cats."

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := s.Summarize(text, 2)
			assert.NoError(t, err)
			assert.Equal(t, "Cats chase mice. Mice flee cats.", got)
		}()
	}
	wg.Wait()
}

func TestSummarizer_WithoutStopwords(t *testing.T) {
	// "the" dominates once filtering is off.
	text := "The the the end. Cats chase mice."
	got, err := New(WithStopwords(nil)).Summarize(text, 1)
	require.NoError(t, err)
	assert.Equal(t, "The the the end.", got)

	got, err = New().Summarize(text, 1)
	require.NoError(t, err)
	assert.Equal(t, "Cats chase mice.", got)
}
