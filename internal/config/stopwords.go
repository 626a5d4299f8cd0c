package config

import (
	"fmt"
	"os"

	"text-summarizer/internal/domain/summary"
)

// LoadStopwords returns the built-in stopword lists, merged with the YAML
// file at path when path is not empty. Languages in the file replace the
// built-in list of the same name.
func LoadStopwords(path string) (*summary.StopwordRegistry, error) {
	reg := summary.DefaultStopwords()
	if path == "" {
		return reg, nil
	}

	// #nosec G304 -- path is operator supplied
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stopwords file: %w", err)
	}
	extra, err := summary.ParseStopwords(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stopwords file %s: %w", path, err)
	}
	return reg.Merge(extra), nil
}
