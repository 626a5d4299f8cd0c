package config

import (
	"fmt"
	"os"
	"time"

	pkgconfig "text-summarizer/internal/pkg/config"
)

// Config is the API server configuration.
type Config struct {
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Server     ServerConfig     `yaml:"server"`
}

// SummarizerConfig holds summarization defaults and input limits.
type SummarizerConfig struct {
	// DefaultSentences is used when a request omits sentence_count. Default: 3
	DefaultSentences int `yaml:"default_sentences"`
	// MaxSentences caps sentence_count. Default: 50
	MaxSentences int `yaml:"max_sentences"`
	// DefaultMode is "frequency" or "truncation". Default: frequency
	DefaultMode string `yaml:"default_mode"`
	// Language selects the default stopword list. Default: english
	Language string `yaml:"language"`
	// MaxTextBytes bounds request text. Default: 1 MiB
	MaxTextBytes int `yaml:"max_text_bytes"`
	// StopwordsFile is an optional YAML file merged over the built-in lists.
	StopwordsFile string `yaml:"stopwords_file"`
}

// ServerConfig holds listener and HTTP middleware settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	GRPCPort        int           `yaml:"grpc_port"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	// RateLimitRPS is the per-client token refill rate. Zero disables limiting.
	RateLimitRPS       float64  `yaml:"rate_limit_rps"`
	RateLimitBurst     int      `yaml:"rate_limit_burst"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	// TrustedProxies lists proxy IPs or CIDRs whose X-Forwarded-For is
	// believed when identifying clients. Empty means RemoteAddr only.
	TrustedProxies []string `yaml:"trusted_proxies"`
	TracingEnabled bool     `yaml:"tracing_enabled"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Summarizer: SummarizerConfig{
			DefaultSentences: 3,
			MaxSentences:     50,
			DefaultMode:      "frequency",
			Language:         "english",
			MaxTextBytes:     1 << 20,
		},
		Server: ServerConfig{
			Port:               5000,
			GRPCPort:           0,
			RequestTimeout:     30 * time.Second,
			ShutdownTimeout:    10 * time.Second,
			RateLimitRPS:       10,
			RateLimitBurst:     20,
			CORSAllowedOrigins: []string{"*"},
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file named
// by CONFIG_FILE, and then environment variables, in that order of precedence.
// Invalid environment values fall back with a warning recorded on c. An
// unreadable config file or an inconsistent result is an error.
func Load(c *pkgconfig.Collector) (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := LoadFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	s := &cfg.Summarizer
	s.DefaultSentences = c.Int("SUMMARY_DEFAULT_SENTENCES", s.DefaultSentences, pkgconfig.IntRange(1, 1000))
	s.MaxSentences = c.Int("SUMMARY_MAX_SENTENCES", s.MaxSentences, pkgconfig.IntRange(1, 1000))
	s.DefaultMode = c.String("SUMMARY_DEFAULT_MODE", s.DefaultMode, pkgconfig.OneOf("frequency", "truncation"))
	s.Language = c.String("SUMMARY_LANGUAGE", s.Language, nil)
	s.MaxTextBytes = c.Int("MAX_TEXT_BYTES", s.MaxTextBytes, pkgconfig.IntRange(0, 64<<20))
	s.StopwordsFile = pkgconfig.LoadEnvString("STOPWORDS_FILE", s.StopwordsFile)

	srv := &cfg.Server
	srv.Port = c.Int("PORT", srv.Port, pkgconfig.IntRange(1, 65535))
	srv.GRPCPort = c.Int("GRPC_PORT", srv.GRPCPort, pkgconfig.IntRange(0, 65535))
	srv.RequestTimeout = c.Duration("REQUEST_TIMEOUT", srv.RequestTimeout, pkgconfig.DurationRange(time.Second, 10*time.Minute))
	srv.ShutdownTimeout = c.Duration("SHUTDOWN_TIMEOUT", srv.ShutdownTimeout, pkgconfig.ValidatePositiveDuration)
	srv.RateLimitRPS = c.Float("RATE_LIMIT_RPS", srv.RateLimitRPS, nonNegative)
	srv.RateLimitBurst = c.Int("RATE_LIMIT_BURST", srv.RateLimitBurst, pkgconfig.IntRange(1, 10000))
	srv.CORSAllowedOrigins = pkgconfig.LoadEnvList("CORS_ALLOWED_ORIGINS", srv.CORSAllowedOrigins)
	srv.TrustedProxies = pkgconfig.LoadEnvList("TRUSTED_PROXIES", srv.TrustedProxies)
	srv.TracingEnabled = c.Bool("TRACING_ENABLED", srv.TracingEnabled)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks cross-field consistency.
func (c *Config) Validate() error {
	s := c.Summarizer
	if s.DefaultSentences < 1 {
		return fmt.Errorf("SUMMARY_DEFAULT_SENTENCES must be at least 1")
	}
	if s.MaxSentences < s.DefaultSentences {
		return fmt.Errorf("SUMMARY_MAX_SENTENCES (%d) must be >= SUMMARY_DEFAULT_SENTENCES (%d)",
			s.MaxSentences, s.DefaultSentences)
	}
	if s.DefaultMode != "frequency" && s.DefaultMode != "truncation" {
		return fmt.Errorf("SUMMARY_DEFAULT_MODE must be frequency or truncation, got %q", s.DefaultMode)
	}
	if s.Language == "" {
		return fmt.Errorf("SUMMARY_LANGUAGE cannot be empty")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	if c.Server.GRPCPort != 0 && c.Server.GRPCPort == c.Server.Port {
		return fmt.Errorf("GRPC_PORT must differ from PORT")
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	return nil
}

func nonNegative(f float64) error {
	if f < 0 {
		return fmt.Errorf("must be non-negative, got %v", f)
	}
	return nil
}
