package livematches

import "time"

// Config contains live-matches polling configuration
type Config struct {
	// Upstream path and display name
	Path        string
	DisplayName string

	// Base polling cadence; live scores move fast
	PollInterval time.Duration

	// Snapshot cache freshness
	CacheTTL time.Duration

	// Whether the endpoint is permanently event-monitored
	MonitorEvents bool
}

// DefaultConfig returns the live-matches defaults
func DefaultConfig() *Config {
	return &Config{
		Path:          "live-matches",
		DisplayName:   "Live Matches",
		PollInterval:  15 * time.Second,
		CacheTTL:      30 * time.Second,
		MonitorEvents: true,
	}
}
