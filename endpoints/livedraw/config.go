package livedraw

import "time"

// Config contains live-draw polling configuration
type Config struct {
	// Upstream path and display name
	Path        string
	DisplayName string

	// Base polling cadence; draws advance slowly between matches
	PollInterval time.Duration

	// Snapshot cache freshness
	CacheTTL time.Duration

	// Whether the endpoint is permanently event-monitored
	MonitorEvents bool
}

// DefaultConfig returns the live-draw defaults
func DefaultConfig() *Config {
	return &Config{
		Path:          "live-draw",
		DisplayName:   "Live Draw",
		PollInterval:  60 * time.Second,
		CacheTTL:      5 * time.Minute,
		MonitorEvents: true,
	}
}
