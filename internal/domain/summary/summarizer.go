// Package summary implements extractive summarization: the input is split
// into sentences, sentences are ranked by word frequency (or simply by
// position), and the chosen ones are joined back in document order.
//
// Everything in this package is synchronous and allocation-local. The only
// shared data is the read-only StopwordRegistry.
package summary

import (
	"fmt"
	"strings"
)

// DefaultSentenceCount is the summary length used when callers do not ask
// for a specific one.
const DefaultSentenceCount = 3

// Mode selects how sentences are chosen.
type Mode string

const (
	// ModeFrequency keeps the sentences whose words occur most often in the text.
	ModeFrequency Mode = "frequency"
	// ModeTruncation keeps the leading sentences.
	ModeTruncation Mode = "truncation"
)

// IsValid reports whether m is a supported mode.
func (m Mode) IsValid() bool {
	return m == ModeFrequency || m == ModeTruncation
}

// ParseMode resolves a user supplied mode name. The empty string maps to
// ModeFrequency; "truncate", "lead" and "none" are accepted for truncation.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "frequency", "freq":
		return ModeFrequency, nil
	case "truncation", "truncate", "lead", "none":
		return ModeTruncation, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// ScoredSentence is a selected sentence with the score it was ranked by.
// Score is always zero in truncation mode.
type ScoredSentence struct {
	Sentence
	Score int
}

// Result describes a completed summarization.
type Result struct {
	Summary        string
	Sentences      []ScoredSentence
	TotalSentences int
	Mode           Mode
}

// Summarizer runs the segment, score and select pipeline.
// A Summarizer holds no per-call state and may be shared between goroutines.
type Summarizer struct {
	mode      Mode
	stopwords *StopwordSet
}

// Option configures a Summarizer.
type Option func(*Summarizer)

// WithMode sets the selection mode.
func WithMode(m Mode) Option {
	return func(s *Summarizer) { s.mode = m }
}

// WithStopwords sets the stopword list used in frequency mode. A nil set
// disables filtering.
func WithStopwords(set *StopwordSet) Option {
	return func(s *Summarizer) { s.stopwords = set }
}

// New returns a Summarizer in frequency mode using the built-in English
// stopwords unless overridden by opts.
func New(opts ...Option) *Summarizer {
	s := &Summarizer{
		mode:      ModeFrequency,
		stopwords: DefaultStopwords().Lookup(DefaultLanguage),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mode returns the configured selection mode.
func (s *Summarizer) Mode() Mode {
	return s.mode
}

// Summarize returns the n most relevant sentences of text joined by single
// spaces. Blank text produces an empty summary.
func (s *Summarizer) Summarize(text string, n int) (string, error) {
	res, err := s.Extract(text, n)
	if err != nil {
		return "", err
	}
	return res.Summary, nil
}

// Extract is Summarize with the selected sentences and their scores.
func (s *Summarizer) Extract(text string, n int) (*Result, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSentenceCount, n)
	}
	if !s.mode.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, s.mode)
	}

	sentences := Segment(text)
	res := &Result{TotalSentences: len(sentences), Mode: s.mode}
	if len(sentences) == 0 {
		return res, nil
	}

	var scores []int
	if s.mode == ModeFrequency {
		scores = NewScorer(s.stopwords).Score(sentences)
	}

	chosen := Select(sentences, scores, n)
	res.Summary = Join(chosen)
	res.Sentences = make([]ScoredSentence, len(chosen))
	for i, c := range chosen {
		res.Sentences[i] = ScoredSentence{Sentence: c}
		if scores != nil {
			res.Sentences[i].Score = scores[c.Index]
		}
	}
	return res, nil
}
