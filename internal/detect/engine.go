// Package detect is the event detection engine: it retains the last seen
// snapshot per endpoint and classifies the differences between consecutive
// snapshots into typed domain events.
package detect

import (
	"sort"
	"sync"
	"time"

	"github.com/XavierBriggs/Argus/internal/extract"
	"github.com/XavierBriggs/Argus/internal/registry"
	"github.com/XavierBriggs/Argus/pkg/contracts"
	"github.com/XavierBriggs/Argus/pkg/models"
	"github.com/rs/zerolog"
)

// endpointState is the process-lifetime comparison state for one endpoint.
type endpointState struct {
	prev     *models.Snapshot
	finished map[string]bool // match ids already reported as finished
	cycles   int
	emitted  int
}

// Engine compares snapshots and emits domain events. All state is owned by
// the instance; ClearStates gives tests and operators an explicit reset.
type Engine struct {
	mu        sync.Mutex
	registry  *registry.EndpointRegistry
	extractor *extract.Extractor
	states    map[string]*endpointState
	enabled   bool
	meta      models.Metadata
	log       zerolog.Logger
}

// NewEngine creates a detection engine over the registered endpoints.
func NewEngine(reg *registry.EndpointRegistry, log zerolog.Logger) *Engine {
	return &Engine{
		registry:  reg,
		extractor: extract.NewExtractor(log),
		states:    make(map[string]*endpointState),
		enabled:   true,
		meta:      models.Metadata{Source: "argus", Version: "1.0"},
		log:       log.With().Str("component", "detect").Logger(),
	}
}

// SetEnabled toggles event detection globally. Snapshots are still retained
// while disabled so detection resumes with fresh comparisons.
func (e *Engine) SetEnabled(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.enabled = enabled
}

// ProcessData compares a fresh snapshot against the endpoint's retained one
// and returns the derived events. A zero `at` means wall clock; replay
// passes the historical timestamp explicitly and every produced event
// carries it. The first observation of an endpoint only seeds state.
func (e *Engine) ProcessData(endpoint string, data any, at time.Time) []models.DomainEvent {
	if data == nil {
		return nil
	}
	if at.IsZero() {
		at = time.Now().UTC()
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	state, ok := e.states[endpoint]
	if !ok {
		state = &endpointState{finished: make(map[string]bool)}
		e.states[endpoint] = state
	}

	snap := &models.Snapshot{Endpoint: endpoint, Data: data, FetchedAt: at}
	prev := state.prev
	state.prev = snap
	state.cycles++

	module, monitored := e.registry.Get(endpoint)
	if !e.enabled || !monitored || prev == nil {
		return nil
	}

	events := e.classify(module.GetKind(), state, prev, snap, at)
	events = e.dedupe(events)
	state.emitted += len(events)
	return events
}

// classify runs the endpoint-specific rules, containing any panic from a
// malformed entity so a bad cycle degrades to zero events instead of
// killing the polling loop.
func (e *Engine) classify(kind contracts.EndpointKind, state *endpointState, prev, cur *models.Snapshot, at time.Time) (events []models.DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().
				Str("endpoint", cur.Endpoint).
				Interface("panic", r).
				Msg("classification failed, dropping cycle")
			events = nil
		}
	}()

	switch kind {
	case contracts.KindDraw:
		return e.detectDraw(prev, cur, at)
	default:
		return e.detectMatches(state, prev, cur, at)
	}
}

// dedupe keeps the first event per (type, subject) pair within one cycle.
func (e *Engine) dedupe(events []models.DomainEvent) []models.DomainEvent {
	if len(events) < 2 {
		return events
	}

	type key struct {
		typ models.EventType
		id  string
	}
	seen := make(map[key]bool, len(events))
	out := events[:0]
	for _, ev := range events {
		k := key{ev.Type, ev.MatchID}
		if seen[k] {
			e.log.Debug().
				Str("event_type", string(ev.Type)).
				Str("match_id", ev.MatchID).
				Msg("dropping duplicate event")
			continue
		}
		seen[k] = true
		out = append(out, ev)
	}
	return out
}

func (e *Engine) newEvent(typ models.EventType, pri models.Priority, matchID, tournamentID, desc string, data map[string]any, at time.Time) models.DomainEvent {
	return models.DomainEvent{
		Type:         typ,
		Timestamp:    at,
		MatchID:      matchID,
		TournamentID: tournamentID,
		Description:  desc,
		Data:         data,
		Priority:     pri,
		Metadata:     e.meta,
	}
}

// EndpointStats is a point-in-time view of one endpoint's engine state.
type EndpointStats struct {
	Cycles          int  `json:"cycles"`
	EventsEmitted   int  `json:"events_emitted"`
	FinishedMatches int  `json:"finished_matches"`
	HasPrevious     bool `json:"has_previous"`
}

// GetStats returns per-endpoint counters for operational introspection.
func (e *Engine) GetStats() map[string]EndpointStats {
	e.mu.Lock()
	defer e.mu.Unlock()

	stats := make(map[string]EndpointStats, len(e.states))
	for endpoint, state := range e.states {
		stats[endpoint] = EndpointStats{
			Cycles:          state.cycles,
			EventsEmitted:   state.emitted,
			FinishedMatches: len(state.finished),
			HasPrevious:     state.prev != nil,
		}
	}
	return stats
}

// ClearStates discards all retained snapshots and finished-sets. This is the
// only way the finished-set is ever cleared.
func (e *Engine) ClearStates() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.states = make(map[string]*endpointState)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
