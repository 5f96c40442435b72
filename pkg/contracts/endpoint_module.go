package contracts

import "time"

// EndpointKind selects which detection algorithm applies to a snapshot.
type EndpointKind string

const (
	KindMatches EndpointKind = "matches"
	KindDraw    EndpointKind = "draw"
)

// EndpointModule defines the interface for endpoint-specific polling behavior.
// This enables Argus to monitor multiple feeds dynamically.
type EndpointModule interface {
	// GetPath returns the upstream path for this endpoint (e.g., "live-matches")
	GetPath() string

	// GetDisplayName returns the human-readable name (e.g., "Live Matches")
	GetDisplayName() string

	// GetKind returns which snapshot shape and detection rules apply
	GetKind() EndpointKind

	// GetBaseInterval returns the base poll interval before backoff
	GetBaseInterval() time.Duration

	// GetCacheTTL returns how long cached snapshots stay fresh
	GetCacheTTL() time.Duration

	// MonitorEvents returns whether this endpoint is on the permanent
	// event-monitoring roster (the "events" polling reason)
	MonitorEvents() bool
}
