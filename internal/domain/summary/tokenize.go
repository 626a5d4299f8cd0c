package summary

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// tokenizer turns sentences into lower-cased word tokens.
// It wraps a cases.Caser, which keeps internal state, so each summarization
// call builds its own tokenizer.
type tokenizer struct {
	caser cases.Caser
}

func newTokenizer(tag language.Tag) *tokenizer {
	return &tokenizer{caser: cases.Lower(tag)}
}

// tokens returns the alphanumeric runs of s after NFC normalisation and
// lower-casing. Combining marks stay attached to the word they modify.
// Punctuation and whitespace separate tokens and are dropped.
func (t *tokenizer) tokens(s string) []string {
	s = t.caser.String(norm.NFC.String(s))
	return strings.FieldsFunc(s, isSeparator)
}

// Tokenize splits s into lower-cased word tokens using language-neutral
// case mapping.
func Tokenize(s string) []string {
	return newTokenizer(language.Und).tokens(s)
}

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsNumber(r) && !unicode.IsMark(r)
}
