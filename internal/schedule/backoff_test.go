package schedule

import (
	"testing"
	"time"
)

func TestBackoff_FailureStretchesInterval(t *testing.T) {
	b := NewBackoff(10*time.Second, DefaultBackoffConfig())

	if got := b.Interval(); got != 10*time.Second {
		t.Fatalf("initial interval = %v, want 10s", got)
	}
	if b.BackedOff() {
		t.Fatal("fresh backoff reports BackedOff")
	}

	b.Failure()
	if got := b.Interval(); got != 20*time.Second {
		t.Errorf("interval after one failure = %v, want 20s", got)
	}
	b.Failure()
	if got := b.Interval(); got != 40*time.Second {
		t.Errorf("interval after two failures = %v, want 40s", got)
	}
	if !b.BackedOff() {
		t.Error("BackedOff = false after failures")
	}
	if got := b.ConsecutiveErrors(); got != 2 {
		t.Errorf("ConsecutiveErrors = %d, want 2", got)
	}
}

func TestBackoff_CapsAtMaxMultiplier(t *testing.T) {
	b := NewBackoff(time.Second, BackoffConfig{Factor: 2, MaxMultiplier: 4, ResetOnSuccess: true})

	for i := 0; i < 10; i++ {
		b.Failure()
	}
	if got := b.Interval(); got != 4*time.Second {
		t.Errorf("capped interval = %v, want 4s", got)
	}
	if got := b.ConsecutiveErrors(); got != 10 {
		t.Errorf("ConsecutiveErrors = %d, want 10", got)
	}
}

func TestBackoff_SuccessResets(t *testing.T) {
	b := NewBackoff(time.Second, DefaultBackoffConfig())

	b.Failure()
	b.Failure()
	b.Success()

	if got := b.Interval(); got != time.Second {
		t.Errorf("interval after success = %v, want 1s", got)
	}
	if got := b.ConsecutiveErrors(); got != 0 {
		t.Errorf("ConsecutiveErrors after success = %d, want 0", got)
	}
}

func TestBackoff_SuccessKeepsMultiplierWhenConfigured(t *testing.T) {
	b := NewBackoff(time.Second, BackoffConfig{Factor: 2, MaxMultiplier: 8, ResetOnSuccess: false})

	b.Failure()
	b.Success()

	if got := b.Interval(); got != 2*time.Second {
		t.Errorf("interval = %v, want 2s (multiplier retained)", got)
	}
	if got := b.ConsecutiveErrors(); got != 0 {
		t.Errorf("ConsecutiveErrors = %d, want 0", got)
	}
}

func TestNewBackoff_SanitizesConfig(t *testing.T) {
	b := NewBackoff(time.Second, BackoffConfig{Factor: 0.5, MaxMultiplier: 0})

	b.Failure()
	if got := b.Interval(); got != time.Second {
		t.Errorf("interval = %v, want 1s (multiplier clamped to 1)", got)
	}
}
