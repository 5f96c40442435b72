// Package pubsub tracks live subscribers per endpoint and fans fresh
// snapshots out to them over Redis pub/sub.
package pubsub

import (
	"sync"

	"github.com/XavierBriggs/Argus/internal/schedule"
	"github.com/XavierBriggs/Argus/pkg/contracts"
	"github.com/rs/zerolog"
)

// PollControl is the scheduler surface the directory drives: a first
// subscriber starts polling for an endpoint, the last one leaving stops it.
type PollControl interface {
	StartPollingForEndpoint(endpoint string, reason schedule.Reason) error
	StopPollingForEndpoint(endpoint string, reason schedule.Reason)
}

// Directory is an in-memory endpoint→subscriber-ids map.
type Directory struct {
	mu          sync.RWMutex
	subscribers map[string]map[string]bool
	control     PollControl
	log         zerolog.Logger
}

var _ contracts.SubscriberDirectory = (*Directory)(nil)

// NewDirectory creates a subscriber directory with no poll control bound.
func NewDirectory(log zerolog.Logger) *Directory {
	return &Directory{
		subscribers: make(map[string]map[string]bool),
		log:         log.With().Str("component", "pubsub").Logger(),
	}
}

// BindControl attaches the scheduler after construction. The directory and
// the scheduler reference each other, so one of the two hookups has to
// happen late; this is it.
func (d *Directory) BindControl(control PollControl) {
	d.mu.Lock()
	d.control = control
	d.mu.Unlock()
}

// Subscribe registers a subscriber id for an endpoint, activating the
// endpoint's subscription polling reason on the first one.
func (d *Directory) Subscribe(endpoint, subscriberID string) {
	d.mu.Lock()
	set, ok := d.subscribers[endpoint]
	if !ok {
		set = make(map[string]bool)
		d.subscribers[endpoint] = set
	}
	set[subscriberID] = true
	first := len(set) == 1
	control := d.control
	d.mu.Unlock()

	if first && control != nil {
		if err := control.StartPollingForEndpoint(endpoint, schedule.ReasonSubscription); err != nil {
			d.log.Warn().Err(err).Str("endpoint", endpoint).Msg("could not start subscription polling")
		}
	}
}

// Unsubscribe removes a subscriber id, releasing the subscription polling
// reason when the endpoint has no subscribers left.
func (d *Directory) Unsubscribe(endpoint, subscriberID string) {
	d.mu.Lock()
	set, ok := d.subscribers[endpoint]
	if ok {
		delete(set, subscriberID)
		if len(set) == 0 {
			delete(d.subscribers, endpoint)
		}
	}
	empty := ok && len(set) == 0
	control := d.control
	d.mu.Unlock()

	if empty && control != nil {
		control.StopPollingForEndpoint(endpoint, schedule.ReasonSubscription)
	}
}

// Subscribers returns the subscriber ids currently attached to an endpoint.
func (d *Directory) Subscribers(endpoint string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	set := d.subscribers[endpoint]
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}
