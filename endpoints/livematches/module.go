package livematches

import (
	"time"

	"github.com/XavierBriggs/Argus/pkg/contracts"
)

// Module implements the EndpointModule interface for the live matches feed
type Module struct {
	config *Config
}

var _ contracts.EndpointModule = (*Module)(nil)

// NewModule creates a new live-matches endpoint module
func NewModule() *Module {
	return &Module{
		config: DefaultConfig(),
	}
}

// NewModuleWithConfig creates the module with operator-supplied settings
func NewModuleWithConfig(config *Config) *Module {
	return &Module{config: config}
}

// GetPath returns the upstream endpoint path
func (m *Module) GetPath() string {
	return m.config.Path
}

// GetDisplayName returns the human-readable name
func (m *Module) GetDisplayName() string {
	return m.config.DisplayName
}

// GetKind returns the snapshot shape handled by this endpoint
func (m *Module) GetKind() contracts.EndpointKind {
	return contracts.KindMatches
}

// GetBaseInterval returns the base poll interval before backoff
func (m *Module) GetBaseInterval() time.Duration {
	return m.config.PollInterval
}

// GetCacheTTL returns how long cached snapshots stay fresh
func (m *Module) GetCacheTTL() time.Duration {
	return m.config.CacheTTL
}

// MonitorEvents returns whether this endpoint is on the event roster
func (m *Module) MonitorEvents() bool {
	return m.config.MonitorEvents
}
