package summary

import (
	"strings"
	"unicode"
)

// Sentence is one segmented unit of the input text.
// Index is the sentence's position in the document and is the key used by
// the scorer and the selector, so repeated sentence strings never collide.
type Sentence struct {
	Index int
	Text  string
}

// Segment splits text into sentences in document order.
//
// A sentence ends at '.', '!' or '?' when the next rune is whitespace. The
// terminator stays with the sentence and the whitespace run after it is
// dropped. Empty and whitespace-only pieces are discarded, so text without
// terminal punctuation yields a single sentence and blank text yields none.
func Segment(text string) []Sentence {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var (
		sentences []Sentence
		start     int
		inGap     bool
		prev      rune
	)
	for i, r := range text {
		switch {
		case inGap:
			if !unicode.IsSpace(r) {
				start = i
				inGap = false
			}
		case unicode.IsSpace(r) && isTerminal(prev):
			sentences = appendSentence(sentences, text[start:i])
			inGap = true
		}
		prev = r
	}
	if !inGap {
		sentences = appendSentence(sentences, text[start:])
	}
	return sentences
}

// Join concatenates sentences with a single space in the order given.
func Join(sentences []Sentence) string {
	var b strings.Builder
	for i, s := range sentences {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s.Text)
	}
	return b.String()
}

func appendSentence(sentences []Sentence, raw string) []Sentence {
	text := strings.TrimSpace(raw)
	if text == "" {
		return sentences
	}
	return append(sentences, Sentence{Index: len(sentences), Text: text})
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
