package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadStopwords_BuiltInOnly(t *testing.T) {
	reg, err := LoadStopwords("")
	require.NoError(t, err)
	assert.True(t, reg.Has("english"))
}

func TestLoadStopwords_MergesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stopwords.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
languages:
  pirate:
    tag: "en"
    words: ["arr", "ye"]
`), 0o600))

	reg, err := LoadStopwords(path)
	require.NoError(t, err)

	assert.True(t, reg.Has("english"))
	assert.True(t, reg.Lookup("pirate").Contains("arr"))
}

func TestLoadStopwords_Errors(t *testing.T) {
	_, err := LoadStopwords(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read stopwords file")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("languages: [unclosed"), 0o600))
	_, err = LoadStopwords(bad)
	assert.ErrorContains(t, err, "failed to parse stopwords file")
}
