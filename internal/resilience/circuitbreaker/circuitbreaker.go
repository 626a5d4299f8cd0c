// Package circuitbreaker stops calling a remote host for a while once too
// many calls to it have failed. It wraps github.com/sony/gobreaker.
package circuitbreaker

import (
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// ErrOpen is returned without running the call while the breaker is open.
var ErrOpen = gobreaker.ErrOpenState

// Settings describe when a breaker trips and how it recovers.
type Settings struct {
	Name string
	// Probes is how many calls may pass while half-open.
	Probes uint32
	// Window is how often the closed-state counters reset.
	Window time.Duration
	// Cooldown is how long the breaker stays open before probing.
	Cooldown time.Duration
	// TripRatio is the failure share that opens the breaker once
	// MinCalls calls have been seen in the window.
	TripRatio float64
	MinCalls  uint32
	// Ignore marks errors that say nothing about the remote host's health,
	// such as a malformed URL from the caller.
	Ignore func(error) bool
	// OnTransition runs after each state change.
	OnTransition func(name string, to gobreaker.State)
}

// PageSettings guard readability page downloads.
func PageSettings() Settings {
	return Settings{
		Name:      "content-fetch",
		Probes:    3,
		Window:    time.Minute,
		Cooldown:  45 * time.Second,
		TripRatio: 0.5,
		MinCalls:  6,
	}
}

// FeedSettings guard feed downloads.
func FeedSettings() Settings {
	return Settings{
		Name:      "feed-fetch",
		Probes:    2,
		Window:    2 * time.Minute,
		Cooldown:  2 * time.Minute,
		TripRatio: 0.7,
		MinCalls:  8,
	}
}

// Breaker guards calls to one remote dependency.
type Breaker struct {
	cb *gobreaker.CircuitBreaker
}

// New builds a closed breaker.
func New(s Settings) *Breaker {
	st := gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.Probes,
		Interval:    s.Window,
		Timeout:     s.Cooldown,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.Requests >= s.MinCalls &&
				float64(c.TotalFailures) >= s.TripRatio*float64(c.Requests)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
			if s.OnTransition != nil {
				s.OnTransition(name, to)
			}
		},
	}
	if s.Ignore != nil {
		st.IsSuccessful = func(err error) bool { return err == nil || s.Ignore(err) }
	}
	return &Breaker{cb: gobreaker.NewCircuitBreaker(st)}
}

// Call runs fn through b and returns its typed result.
func Call[T any](b *Breaker, fn func() (T, error)) (T, error) {
	v, err := b.cb.Execute(func() (any, error) { return fn() })
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

func (b *Breaker) Name() string { return b.cb.Name() }

func (b *Breaker) State() gobreaker.State { return b.cb.State() }

// Open reports whether calls are currently being rejected.
func (b *Breaker) Open() bool { return b.cb.State() == gobreaker.StateOpen }

// Counts returns the calls seen in the current window.
func (b *Breaker) Counts() gobreaker.Counts { return b.cb.Counts() }
