package summary

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// DefaultLanguage is the stopword language used when none is requested.
const DefaultLanguage = "english"

//go:embed stopwords.yaml
var builtinStopwords []byte

// StopwordSet is an immutable set of words excluded from frequency scoring.
// The zero value and a nil *StopwordSet are both valid empty sets.
type StopwordSet struct {
	language string
	tag      language.Tag
	words    map[string]struct{}
}

// Contains reports whether word is a stopword. word must already be
// normalised the way Tokenize normalises tokens.
func (s *StopwordSet) Contains(word string) bool {
	if s == nil {
		return false
	}
	_, ok := s.words[word]
	return ok
}

// Len returns the number of words in the set.
func (s *StopwordSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.words)
}

// Language returns the name the set was registered under.
func (s *StopwordSet) Language() string {
	if s == nil {
		return ""
	}
	return s.language
}

// Tag returns the BCP 47 tag used for case mapping. Empty sets report language.Und.
func (s *StopwordSet) Tag() language.Tag {
	if s == nil {
		return language.Und
	}
	return s.tag
}

// StopwordRegistry maps language names to stopword sets. It is built once
// at startup and only read afterwards, so it is safe for concurrent use.
type StopwordRegistry struct {
	sets map[string]*StopwordSet
}

type stopwordFile struct {
	Languages map[string]struct {
		Tag   string   `yaml:"tag"`
		Words []string `yaml:"words"`
	} `yaml:"languages"`
}

var defaultStopwords = sync.OnceValues(func() (*StopwordRegistry, error) {
	return ParseStopwords(builtinStopwords)
})

// DefaultStopwords returns the registry built from the embedded lists.
// The embedded file is parsed once per process.
func DefaultStopwords() *StopwordRegistry {
	reg, err := defaultStopwords()
	if err != nil {
		// The embedded file is part of the binary; failing to parse it is a build defect.
		panic(fmt.Sprintf("parse embedded stopwords: %v", err))
	}
	return reg
}

// ParseStopwords parses a YAML stopword document of the form
//
//	languages:
//	  english:
//	    tag: "en"
//	    words: ["a", "the"]
//
// Language names are case-insensitive. Words are normalised with the same
// case mapping the tokenizer applies for that language's tag.
func ParseStopwords(data []byte) (*StopwordRegistry, error) {
	var doc stopwordFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode stopwords: %w", err)
	}

	reg := &StopwordRegistry{sets: make(map[string]*StopwordSet, len(doc.Languages))}
	for name, entry := range doc.Languages {
		key := normalizeLanguage(name)
		if key == "" {
			return nil, fmt.Errorf("stopword language name cannot be empty")
		}

		tag := language.Und
		if entry.Tag != "" {
			parsed, err := language.Parse(entry.Tag)
			if err != nil {
				return nil, fmt.Errorf("stopwords %q: invalid tag %q: %w", name, entry.Tag, err)
			}
			tag = parsed
		}

		caser := cases.Lower(tag)
		words := make(map[string]struct{}, len(entry.Words))
		for _, w := range entry.Words {
			w = strings.TrimSpace(caser.String(norm.NFC.String(w)))
			if w != "" {
				words[w] = struct{}{}
			}
		}
		reg.sets[key] = &StopwordSet{language: key, tag: tag, words: words}
	}
	return reg, nil
}

// Merge returns a new registry containing the sets of r overlaid with the
// sets of other. Neither input is modified.
func (r *StopwordRegistry) Merge(other *StopwordRegistry) *StopwordRegistry {
	merged := &StopwordRegistry{sets: make(map[string]*StopwordSet)}
	for _, src := range []*StopwordRegistry{r, other} {
		if src == nil {
			continue
		}
		for k, v := range src.sets {
			merged.sets[k] = v
		}
	}
	return merged
}

// Lookup returns the set registered for lang. Unknown languages resolve to
// an empty set so that scoring proceeds without filtering.
func (r *StopwordRegistry) Lookup(lang string) *StopwordSet {
	key := normalizeLanguage(lang)
	if r != nil {
		if set, ok := r.sets[key]; ok {
			return set
		}
	}
	return &StopwordSet{language: key, tag: language.Und}
}

// Has reports whether a list is registered for lang.
func (r *StopwordRegistry) Has(lang string) bool {
	if r == nil {
		return false
	}
	_, ok := r.sets[normalizeLanguage(lang)]
	return ok
}

// Languages returns the registered language names in sorted order.
func (r *StopwordRegistry) Languages() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.sets))
	for k := range r.sets {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

func normalizeLanguage(lang string) string {
	return strings.ToLower(strings.TrimSpace(lang))
}
