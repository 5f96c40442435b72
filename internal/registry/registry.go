package registry

import (
	"fmt"
	"sync"

	"github.com/XavierBriggs/Argus/pkg/contracts"
)

// EndpointRegistry manages registered endpoint modules
type EndpointRegistry struct {
	endpoints map[string]contracts.EndpointModule
	mu        sync.RWMutex
}

// NewEndpointRegistry creates a new endpoint registry
func NewEndpointRegistry() *EndpointRegistry {
	return &EndpointRegistry{
		endpoints: make(map[string]contracts.EndpointModule),
	}
}

// Register adds an endpoint module to the registry
func (r *EndpointRegistry) Register(endpoint contracts.EndpointModule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	path := endpoint.GetPath()
	if _, exists := r.endpoints[path]; exists {
		return fmt.Errorf("endpoint %s is already registered", path)
	}

	r.endpoints[path] = endpoint
	return nil
}

// Get retrieves an endpoint module by path
func (r *EndpointRegistry) Get(path string) (contracts.EndpointModule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	endpoint, exists := r.endpoints[path]
	return endpoint, exists
}

// GetAll returns all registered endpoints
func (r *EndpointRegistry) GetAll() []contracts.EndpointModule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	endpoints := make([]contracts.EndpointModule, 0, len(r.endpoints))
	for _, endpoint := range r.endpoints {
		endpoints = append(endpoints, endpoint)
	}
	return endpoints
}

// Count returns the number of registered endpoints
func (r *EndpointRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.endpoints)
}
