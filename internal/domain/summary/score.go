package summary

// Scorer ranks sentences by the document-wide frequency of their words.
type Scorer struct {
	stopwords *StopwordSet
}

// NewScorer returns a Scorer that ignores the words in stopwords.
// A nil set disables filtering.
func NewScorer(stopwords *StopwordSet) *Scorer {
	return &Scorer{stopwords: stopwords}
}

// Frequencies counts every non-stopword token across all sentences.
func (s *Scorer) Frequencies(sentences []Sentence) map[string]int {
	_, freq := s.tabulate(sentences)
	return freq
}

// Score returns one score per sentence, indexed by Sentence.Index.
// A sentence scores the sum of the document frequencies of its tokens;
// stopwords contribute nothing and repeated tokens count each time.
func (s *Scorer) Score(sentences []Sentence) []int {
	tokens, freq := s.tabulate(sentences)

	scores := make([]int, scoreTableSize(sentences))
	for i, sent := range sentences {
		total := 0
		for _, tok := range tokens[i] {
			total += freq[tok]
		}
		scores[sent.Index] = total
	}
	return scores
}

func (s *Scorer) tabulate(sentences []Sentence) ([][]string, map[string]int) {
	tok := newTokenizer(s.stopwords.Tag())
	tokens := make([][]string, len(sentences))
	freq := make(map[string]int)
	for i, sent := range sentences {
		tokens[i] = tok.tokens(sent.Text)
		for _, w := range tokens[i] {
			if s.stopwords.Contains(w) {
				continue
			}
			freq[w]++
		}
	}
	return tokens, freq
}

func scoreTableSize(sentences []Sentence) int {
	size := len(sentences)
	for _, s := range sentences {
		if s.Index >= size {
			size = s.Index + 1
		}
	}
	return size
}
