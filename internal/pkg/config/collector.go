package config

import (
	"log/slog"
	"strings"
	"time"
)

// Collector loads a group of values for one component and keeps track of
// every fallback that was applied along the way.
type Collector struct {
	metrics  *ConfigMetrics
	warnings []string
}

// NewCollector returns a Collector. metrics may be nil.
func NewCollector(metrics *ConfigMetrics) *Collector {
	return &Collector{metrics: metrics}
}

func (c *Collector) String(envKey, defaultValue string, validator func(string) error) string {
	return track(c, envKey, LoadEnvWithFallback(envKey, defaultValue, validator))
}

func (c *Collector) Int(envKey string, defaultValue int, validator func(int) error) int {
	return track(c, envKey, LoadEnvInt(envKey, defaultValue, validator))
}

func (c *Collector) Int64(envKey string, defaultValue int64, validator func(int64) error) int64 {
	return track(c, envKey, LoadEnvInt64(envKey, defaultValue, validator))
}

func (c *Collector) Float(envKey string, defaultValue float64, validator func(float64) error) float64 {
	return track(c, envKey, LoadEnvFloat(envKey, defaultValue, validator))
}

func (c *Collector) Duration(envKey string, defaultValue time.Duration, validator func(time.Duration) error) time.Duration {
	return track(c, envKey, LoadEnvDuration(envKey, defaultValue, validator))
}

func (c *Collector) Bool(envKey string, defaultValue bool) bool {
	return track(c, envKey, LoadEnvBool(envKey, defaultValue))
}

// Warn records a fallback decided by the caller, for cross-field checks.
func (c *Collector) Warn(field, warning string) {
	c.warnings = append(c.warnings, warning)
	if c.metrics != nil {
		c.metrics.RecordValidationError(field)
		c.metrics.RecordFallback(field, "default")
	}
}

// Warnings returns every fallback warning collected so far.
func (c *Collector) Warnings() []string {
	return c.warnings
}

// Finish logs the collected warnings and updates the load metrics.
func (c *Collector) Finish(component string) []string {
	for _, w := range c.warnings {
		slog.Warn("configuration fallback applied",
			slog.String("component", component),
			slog.String("warning", w))
	}
	if c.metrics != nil {
		c.metrics.RecordLoadTimestamp()
		c.metrics.SetFallbackActive("", len(c.warnings) > 0)
	}
	return c.warnings
}

func track[T any](c *Collector, envKey string, r Result[T]) T {
	if r.FallbackApplied {
		c.Warn(strings.ToLower(envKey), r.Warning)
	}
	return r.Value
}
