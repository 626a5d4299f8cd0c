package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	pkgconfig "text-summarizer/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvVars = []string{
	"CONFIG_FILE",
	"SUMMARY_DEFAULT_SENTENCES", "SUMMARY_MAX_SENTENCES", "SUMMARY_DEFAULT_MODE",
	"SUMMARY_LANGUAGE", "MAX_TEXT_BYTES", "STOPWORDS_FILE",
	"PORT", "GRPC_PORT", "REQUEST_TIMEOUT", "SHUTDOWN_TIMEOUT",
	"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "CORS_ALLOWED_ORIGINS", "TRACING_ENABLED",
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnvVars {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearConfigEnv(t)

	c := pkgconfig.NewCollector(nil)
	cfg, err := Load(c)
	require.NoError(t, err)
	assert.Empty(t, c.Warnings())

	assert.Equal(t, 3, cfg.Summarizer.DefaultSentences)
	assert.Equal(t, 50, cfg.Summarizer.MaxSentences)
	assert.Equal(t, "frequency", cfg.Summarizer.DefaultMode)
	assert.Equal(t, "english", cfg.Summarizer.Language)
	assert.Equal(t, 1<<20, cfg.Summarizer.MaxTextBytes)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, 0, cfg.Server.GRPCPort)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowedOrigins)
	assert.False(t, cfg.Server.TracingEnabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("SUMMARY_DEFAULT_SENTENCES", "5")
	t.Setenv("SUMMARY_DEFAULT_MODE", "truncation")
	t.Setenv("PORT", "8080")
	t.Setenv("GRPC_PORT", "9090")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("TRACING_ENABLED", "true")

	c := pkgconfig.NewCollector(nil)
	cfg, err := Load(c)
	require.NoError(t, err)
	assert.Empty(t, c.Warnings())

	assert.Equal(t, 5, cfg.Summarizer.DefaultSentences)
	assert.Equal(t, "truncation", cfg.Summarizer.DefaultMode)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 9090, cfg.Server.GRPCPort)
	assert.Equal(t, 5*time.Second, cfg.Server.RequestTimeout)
	assert.InDelta(t, 2.5, cfg.Server.RateLimitRPS, 1e-9)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSAllowedOrigins)
	assert.True(t, cfg.Server.TracingEnabled)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PORT", "http")
	t.Setenv("SUMMARY_DEFAULT_MODE", "random")
	t.Setenv("RATE_LIMIT_RPS", "-1")

	c := pkgconfig.NewCollector(nil)
	cfg, err := Load(c)
	require.NoError(t, err)

	assert.Len(t, c.Warnings(), 3)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "frequency", cfg.Summarizer.DefaultMode)
	assert.InDelta(t, 10.0, cfg.Server.RateLimitRPS, 1e-9)
}

func TestLoad_InconsistentLimits(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("SUMMARY_DEFAULT_SENTENCES", "10")
	t.Setenv("SUMMARY_MAX_SENTENCES", "5")

	_, err := Load(pkgconfig.NewCollector(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SUMMARY_MAX_SENTENCES")
}

func TestLoad_File(t *testing.T) {
	clearConfigEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
summarizer:
  default_sentences: 4
  language: french
server:
  port: 7000
  request_timeout: 15s
`), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7001")

	cfg, err := Load(pkgconfig.NewCollector(nil))
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Summarizer.DefaultSentences)
	assert.Equal(t, "french", cfg.Summarizer.Language)
	assert.Equal(t, 50, cfg.Summarizer.MaxSentences, "keys absent from the file keep their defaults")
	assert.Equal(t, 15*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 7001, cfg.Server.Port, "environment wins over the file")
}

func TestLoadFile_Errors(t *testing.T) {
	cfg := Default()

	err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), &cfg)
	assert.ErrorContains(t, err, "failed to read config file")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  prot: 1\n"), 0o600))
	err = LoadFile(path, &cfg)
	assert.ErrorContains(t, err, "failed to parse config file")

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	assert.NoError(t, LoadFile(empty, &cfg))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "zero default", mutate: func(c *Config) { c.Summarizer.DefaultSentences = 0 }, wantErr: "at least 1"},
		{name: "bad mode", mutate: func(c *Config) { c.Summarizer.DefaultMode = "lead" }, wantErr: "SUMMARY_DEFAULT_MODE"},
		{name: "empty language", mutate: func(c *Config) { c.Summarizer.Language = "" }, wantErr: "SUMMARY_LANGUAGE"},
		{name: "same ports", mutate: func(c *Config) { c.Server.GRPCPort = c.Server.Port }, wantErr: "GRPC_PORT"},
		{name: "zero timeout", mutate: func(c *Config) { c.Server.RequestTimeout = 0 }, wantErr: "REQUEST_TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
