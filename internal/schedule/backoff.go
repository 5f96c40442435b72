package schedule

import "time"

// BackoffConfig controls how an endpoint's poll interval stretches after
// consecutive "no data" responses.
type BackoffConfig struct {
	Factor         float64 `koanf:"factor"`
	MaxMultiplier  float64 `koanf:"max_multiplier"`
	ResetOnSuccess bool    `koanf:"reset_on_success"`
}

// DefaultBackoffConfig doubles the interval per empty response, capped at 8x.
func DefaultBackoffConfig() BackoffConfig {
	return BackoffConfig{
		Factor:         2,
		MaxMultiplier:  8,
		ResetOnSuccess: true,
	}
}

// Backoff tracks one endpoint's poll-interval multiplier. It is owned by the
// endpoint's poll worker and never shared.
type Backoff struct {
	base       time.Duration
	cfg        BackoffConfig
	multiplier float64
	errors     int
}

// NewBackoff creates a backoff starting at the base interval.
func NewBackoff(base time.Duration, cfg BackoffConfig) *Backoff {
	if cfg.Factor <= 1 {
		cfg.Factor = 2
	}
	if cfg.MaxMultiplier < 1 {
		cfg.MaxMultiplier = 1
	}
	return &Backoff{base: base, cfg: cfg, multiplier: 1}
}

// Interval returns the current wait before the next poll.
func (b *Backoff) Interval() time.Duration {
	return time.Duration(float64(b.base) * b.multiplier)
}

// Failure records an empty response and stretches the interval.
func (b *Backoff) Failure() {
	b.errors++
	b.multiplier *= b.cfg.Factor
	if b.multiplier > b.cfg.MaxMultiplier {
		b.multiplier = b.cfg.MaxMultiplier
	}
}

// Success records a data-bearing response, resetting the multiplier when
// configured to.
func (b *Backoff) Success() {
	b.errors = 0
	if b.cfg.ResetOnSuccess {
		b.multiplier = 1
	}
}

// BackedOff reports whether the endpoint is currently past its base interval.
func (b *Backoff) BackedOff() bool { return b.multiplier > 1 }

// ConsecutiveErrors returns the current empty-response streak.
func (b *Backoff) ConsecutiveErrors() int { return b.errors }
