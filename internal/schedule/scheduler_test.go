package schedule_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/XavierBriggs/Argus/endpoints/livematches"
	"github.com/XavierBriggs/Argus/internal/cache"
	"github.com/XavierBriggs/Argus/internal/detect"
	"github.com/XavierBriggs/Argus/internal/registry"
	"github.com/XavierBriggs/Argus/internal/schedule"
	"github.com/XavierBriggs/Argus/pkg/contracts"
	"github.com/XavierBriggs/Argus/pkg/models"
	"github.com/XavierBriggs/Argus/pkg/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdapter struct {
	mu      sync.Mutex
	fetches int
	fetch   func(call int) (*models.Snapshot, error)
}

func (f *fakeAdapter) FetchSnapshot(_ context.Context, endpoint string) (*models.Snapshot, error) {
	f.mu.Lock()
	f.fetches++
	call := f.fetches
	fn := f.fetch
	f.mu.Unlock()

	if fn != nil {
		return fn(call)
	}
	return &models.Snapshot{
		Endpoint:  endpoint,
		Data:      testutil.MatchSnapshot("580", "US Open"),
		FetchedAt: time.Now().UTC(),
	}, nil
}

func (f *fakeAdapter) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

type captureOutput struct {
	mu     sync.Mutex
	events []models.DomainEvent
}

func (c *captureOutput) Output(_ context.Context, events []models.DomainEvent) {
	c.mu.Lock()
	c.events = append(c.events, events...)
	c.mu.Unlock()
}

func (c *captureOutput) all() []models.DomainEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.DomainEvent(nil), c.events...)
}

type staticDirectory struct{ ids []string }

func (d staticDirectory) Subscribers(string) []string { return d.ids }

type countingPublisher struct{ published atomic.Int64 }

func (p *countingPublisher) Publish(context.Context, string, *models.Snapshot) error {
	p.published.Add(1)
	return nil
}

func fastModule() contracts.EndpointModule {
	return livematches.NewModuleWithConfig(&livematches.Config{
		Path:          "live-matches",
		DisplayName:   "Live Matches",
		PollInterval:  2 * time.Millisecond,
		CacheTTL:      time.Minute,
		MonitorEvents: true,
	})
}

func newTestScheduler(t *testing.T, adapter contracts.FeedAdapter, output schedule.EventOutput, directory contracts.SubscriberDirectory, publisher contracts.SnapshotPublisher) (*schedule.Scheduler, *cache.MemoryProvider) {
	t.Helper()

	reg := registry.NewEndpointRegistry()
	require.NoError(t, reg.Register(fastModule()))

	engine := detect.NewEngine(reg, zerolog.Nop())
	memory := cache.NewMemoryProvider()

	sched := schedule.NewScheduler(
		adapter, engine, output, memory, directory, publisher, reg,
		schedule.DefaultBackoffConfig(), zerolog.Nop())
	return sched, memory
}

func TestScheduler_StartWithoutEndpoints(t *testing.T) {
	reg := registry.NewEndpointRegistry()
	engine := detect.NewEngine(reg, zerolog.Nop())
	sched := schedule.NewScheduler(
		&fakeAdapter{}, engine, &captureOutput{}, cache.NewNoopProvider(),
		staticDirectory{}, &countingPublisher{}, reg,
		schedule.DefaultBackoffConfig(), zerolog.Nop())

	assert.Error(t, sched.Start(context.Background()))
}

func TestScheduler_StartBeforeStartErrors(t *testing.T) {
	adapter := &fakeAdapter{}
	sched, _ := newTestScheduler(t, adapter, &captureOutput{}, staticDirectory{}, &countingPublisher{})

	err := sched.StartPollingForEndpoint("live-matches", schedule.ReasonSubscription)
	assert.Error(t, err)
}

func TestScheduler_UnknownEndpoint(t *testing.T) {
	adapter := &fakeAdapter{}
	sched, _ := newTestScheduler(t, adapter, &captureOutput{}, staticDirectory{}, &countingPublisher{})

	require.NoError(t, sched.Start(context.Background()))
	defer sched.Stop()

	assert.Error(t, sched.StartPollingForEndpoint("no-such-endpoint", schedule.ReasonSubscription))
}

func TestScheduler_PollsAndCaches(t *testing.T) {
	adapter := &fakeAdapter{}
	sched, memory := newTestScheduler(t, adapter, &captureOutput{}, staticDirectory{}, &countingPublisher{})

	require.NoError(t, sched.Start(context.Background()))
	time.Sleep(50 * time.Millisecond)
	sched.Stop()

	assert.GreaterOrEqual(t, adapter.calls(), 2, "expected repeated polling")
	assert.Equal(t, []schedule.Reason(nil), sched.Reasons("live-matches"), "reasons cleared after Stop")

	payload, err := memory.Get(context.Background(), cache.Key("live-matches", ""))
	require.NoError(t, err)
	assert.NotEmpty(t, payload)
}

func TestScheduler_OutputsDetectedEvents(t *testing.T) {
	adapter := &fakeAdapter{
		fetch: func(call int) (*models.Snapshot, error) {
			// First snapshot has no matches; the second introduces one.
			data := testutil.MatchSnapshot("580", "US Open")
			if call > 1 {
				data = testutil.MatchSnapshot("580", "US Open",
					testutil.NewMatch("ms001", "W", "", "Court 1"))
			}
			return &models.Snapshot{Endpoint: "live-matches", Data: data, FetchedAt: time.Now().UTC()}, nil
		},
	}
	output := &captureOutput{}
	sched, _ := newTestScheduler(t, adapter, output, staticDirectory{}, &countingPublisher{})

	require.NoError(t, sched.Start(context.Background()))
	time.Sleep(50 * time.Millisecond)
	sched.Stop()

	events := output.all()
	require.NotEmpty(t, events)
	assert.Equal(t, models.EventMatchStarted, events[0].Type)
	assert.Equal(t, "ms001", events[0].MatchID)
}

func TestScheduler_NoDataBacksOffWithoutOutput(t *testing.T) {
	adapter := &fakeAdapter{
		fetch: func(int) (*models.Snapshot, error) { return nil, contracts.ErrNoData },
	}
	output := &captureOutput{}
	sched, memory := newTestScheduler(t, adapter, output, staticDirectory{}, &countingPublisher{})

	require.NoError(t, sched.Start(context.Background()))
	time.Sleep(50 * time.Millisecond)
	sched.Stop()

	assert.GreaterOrEqual(t, adapter.calls(), 1)
	assert.Empty(t, output.all())

	_, err := memory.Get(context.Background(), cache.Key("live-matches", ""))
	assert.ErrorIs(t, err, contracts.ErrCacheMiss, "empty cycles must not write the cache")
}

func TestScheduler_PublishesOnlyWithSubscribers(t *testing.T) {
	publisher := &countingPublisher{}
	adapter := &fakeAdapter{}
	sched, _ := newTestScheduler(t, adapter, &captureOutput{}, staticDirectory{ids: []string{"client-1"}}, publisher)

	require.NoError(t, sched.Start(context.Background()))
	time.Sleep(30 * time.Millisecond)
	sched.Stop()

	assert.Greater(t, publisher.published.Load(), int64(0))
}

func TestScheduler_NoSubscribersNoPublish(t *testing.T) {
	publisher := &countingPublisher{}
	adapter := &fakeAdapter{}
	sched, _ := newTestScheduler(t, adapter, &captureOutput{}, staticDirectory{}, publisher)

	require.NoError(t, sched.Start(context.Background()))
	time.Sleep(30 * time.Millisecond)
	sched.Stop()

	assert.Equal(t, int64(0), publisher.published.Load())
}

func TestScheduler_ReasonSetCollapse(t *testing.T) {
	adapter := &fakeAdapter{}
	sched, _ := newTestScheduler(t, adapter, &captureOutput{}, staticDirectory{}, &countingPublisher{})

	require.NoError(t, sched.Start(context.Background()))
	defer sched.Stop()

	// Event monitoring already holds the endpoint; a subscription piles on.
	require.NoError(t, sched.StartPollingForEndpoint("live-matches", schedule.ReasonSubscription))
	assert.ElementsMatch(t,
		[]schedule.Reason{schedule.ReasonEvents, schedule.ReasonSubscription},
		sched.Reasons("live-matches"))

	// Dropping one reason keeps the loop alive.
	sched.StopPollingForEndpoint("live-matches", schedule.ReasonSubscription)
	assert.ElementsMatch(t, []schedule.Reason{schedule.ReasonEvents}, sched.Reasons("live-matches"))

	before := adapter.calls()
	time.Sleep(20 * time.Millisecond)
	assert.Greater(t, adapter.calls(), before, "polling must continue while a reason remains")

	// Dropping the last reason stops it.
	sched.StopPollingForEndpoint("live-matches", schedule.ReasonEvents)
	assert.Nil(t, sched.Reasons("live-matches"))
}

func TestScheduler_StopPollingUnknownEndpointIsNoop(t *testing.T) {
	adapter := &fakeAdapter{}
	sched, _ := newTestScheduler(t, adapter, &captureOutput{}, staticDirectory{}, &countingPublisher{})

	require.NoError(t, sched.Start(context.Background()))
	defer sched.Stop()

	sched.StopPollingForEndpoint("never-started", schedule.ReasonSubscription)
}
