// Package schedule owns the per-endpoint polling loops: fetch a snapshot,
// run detection, write through to the cache, publish to subscribers, then
// schedule the next cycle. Cycles for one endpoint never overlap.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/XavierBriggs/Argus/internal/cache"
	"github.com/XavierBriggs/Argus/internal/detect"
	"github.com/XavierBriggs/Argus/internal/registry"
	"github.com/XavierBriggs/Argus/pkg/contracts"
	"github.com/XavierBriggs/Argus/pkg/models"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// Reason is a justification keeping an endpoint's poll loop alive.
type Reason string

const (
	// ReasonSubscription means a live client asked for this endpoint.
	ReasonSubscription Reason = "subscription"
	// ReasonEvents means the endpoint is on the event-monitoring roster.
	ReasonEvents Reason = "events"
)

// EventOutput is where derived events go (the delivery pipeline).
type EventOutput interface {
	Output(ctx context.Context, events []models.DomainEvent)
}

// endpointPoll is the scheduler-owned state for one active endpoint.
type endpointPoll struct {
	reasons map[Reason]bool
	backoff *Backoff
	cancel  context.CancelFunc
}

// Scheduler orchestrates polling for all registered endpoints.
type Scheduler struct {
	adapter    contracts.FeedAdapter
	engine     *detect.Engine
	output     EventOutput
	cache      contracts.CacheProvider
	directory  contracts.SubscriberDirectory
	publisher  contracts.SnapshotPublisher
	registry   *registry.EndpointRegistry
	backoffCfg BackoffConfig
	log        zerolog.Logger

	mu      sync.Mutex
	polls   map[string]*endpointPoll
	baseCtx context.Context
	wg      sync.WaitGroup
}

// NewScheduler creates a polling scheduler.
func NewScheduler(
	adapter contracts.FeedAdapter,
	engine *detect.Engine,
	output EventOutput,
	cacheProvider contracts.CacheProvider,
	directory contracts.SubscriberDirectory,
	publisher contracts.SnapshotPublisher,
	endpointRegistry *registry.EndpointRegistry,
	backoffCfg BackoffConfig,
	log zerolog.Logger,
) *Scheduler {
	return &Scheduler{
		adapter:    adapter,
		engine:     engine,
		output:     output,
		cache:      cacheProvider,
		directory:  directory,
		publisher:  publisher,
		registry:   endpointRegistry,
		backoffCfg: backoffCfg,
		log:        log.With().Str("component", "schedule").Logger(),
		polls:      make(map[string]*endpointPoll),
	}
}

// Start begins polling every endpoint on the event-monitoring roster.
// The context is the parent of all poll workers started later as well.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	s.baseCtx = ctx
	s.mu.Unlock()

	modules := s.registry.GetAll()
	if len(modules) == 0 {
		return fmt.Errorf("no endpoints registered")
	}

	for _, module := range modules {
		if !module.MonitorEvents() {
			continue
		}
		if err := s.StartPollingForEndpoint(module.GetPath(), ReasonEvents); err != nil {
			return err
		}
	}
	return nil
}

// StartPollingForEndpoint adds a reason to the endpoint's reason set and,
// if it is the first one, starts the endpoint's poll worker.
func (s *Scheduler) StartPollingForEndpoint(endpoint string, reason Reason) error {
	module, ok := s.registry.Get(endpoint)
	if !ok {
		return fmt.Errorf("endpoint %s is not registered", endpoint)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.baseCtx == nil {
		return fmt.Errorf("scheduler not started")
	}

	if poll, active := s.polls[endpoint]; active {
		poll.reasons[reason] = true
		return nil
	}

	ctx, cancel := context.WithCancel(s.baseCtx)
	poll := &endpointPoll{
		reasons: map[Reason]bool{reason: true},
		backoff: NewBackoff(module.GetBaseInterval(), s.backoffCfg),
		cancel:  cancel,
	}
	s.polls[endpoint] = poll

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.pollLoop(ctx, module, poll)
	}()

	s.log.Info().
		Str("endpoint", endpoint).
		Str("reason", string(reason)).
		Dur("interval", module.GetBaseInterval()).
		Msg("polling started")
	return nil
}

// StopPollingForEndpoint removes a reason; when the set empties, the poll
// worker is cancelled and its backoff state discarded. The detection
// engine's state for the endpoint is owned by the engine and stays put.
func (s *Scheduler) StopPollingForEndpoint(endpoint string, reason Reason) {
	s.mu.Lock()
	defer s.mu.Unlock()

	poll, active := s.polls[endpoint]
	if !active {
		return
	}

	delete(poll.reasons, reason)
	if len(poll.reasons) > 0 {
		return
	}

	poll.cancel()
	delete(s.polls, endpoint)
	s.log.Info().Str("endpoint", endpoint).Msg("polling stopped")
}

// Reasons returns the current reason set for an endpoint.
func (s *Scheduler) Reasons(endpoint string) []Reason {
	s.mu.Lock()
	defer s.mu.Unlock()

	poll, active := s.polls[endpoint]
	if !active {
		return nil
	}
	out := make([]Reason, 0, len(poll.reasons))
	for r := range poll.reasons {
		out = append(out, r)
	}
	return out
}

// Stop cancels every poll worker and waits for in-flight cycles to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	for endpoint, poll := range s.polls {
		poll.cancel()
		delete(s.polls, endpoint)
	}
	s.mu.Unlock()

	s.wg.Wait()
}

// pollLoop is the self-rescheduling cycle for one endpoint. The next cycle
// is scheduled only after the current one completes, so a slow upstream
// can never cause overlapping fetches for the same endpoint.
func (s *Scheduler) pollLoop(ctx context.Context, module contracts.EndpointModule, poll *endpointPoll) {
	for {
		s.runCycle(ctx, module, poll)

		timer := time.NewTimer(poll.backoff.Interval())
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
}

// runCycle executes one fetch→detect→output→cache→publish pass.
func (s *Scheduler) runCycle(ctx context.Context, module contracts.EndpointModule, poll *endpointPoll) {
	endpoint := module.GetPath()

	snap, err := s.adapter.FetchSnapshot(ctx, endpoint)
	if err != nil {
		if errors.Is(err, contracts.ErrNoData) {
			poll.backoff.Failure()
			s.log.Debug().
				Str("endpoint", endpoint).
				Int("consecutive", poll.backoff.ConsecutiveErrors()).
				Dur("next_interval", poll.backoff.Interval()).
				Msg("upstream empty, backing off")
		} else if ctx.Err() == nil {
			s.log.Warn().Err(err).Str("endpoint", endpoint).Msg("fetch failed, skipping cycle")
		}
		return
	}

	poll.backoff.Success()

	events := s.engine.ProcessData(endpoint, snap.Data, time.Time{})
	if len(events) > 0 {
		s.output.Output(ctx, events)
	}

	if payload, err := json.Marshal(snap.Data); err != nil {
		s.log.Error().Err(err).Str("endpoint", endpoint).Msg("marshal snapshot for cache")
	} else if err := s.cache.Set(ctx, cache.Key(endpoint, ""), payload, module.GetCacheTTL()); err != nil {
		// Cache failures don't abort the cycle; the next poll rewrites it.
		s.log.Error().Err(err).Str("endpoint", endpoint).Msg("cache write failed")
	}

	if len(s.directory.Subscribers(endpoint)) > 0 {
		if err := s.publisher.Publish(ctx, endpoint, snap); err != nil {
			s.log.Error().Err(err).Str("endpoint", endpoint).Msg("publish failed")
		}
	}
}
