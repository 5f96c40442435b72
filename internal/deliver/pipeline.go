// Package deliver is the event delivery pipeline: it validates derived
// events and fans them out to the configured sinks.
package deliver

import (
	"context"

	"github.com/XavierBriggs/Argus/pkg/contracts"
	"github.com/XavierBriggs/Argus/pkg/models"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Pipeline validates events and forwards them to every registered sink.
type Pipeline struct {
	sinks    []contracts.EventSink
	validate *validator.Validate
	log      zerolog.Logger
}

// NewPipeline creates a delivery pipeline over the given sinks.
func NewPipeline(log zerolog.Logger, sinks ...contracts.EventSink) *Pipeline {
	return &Pipeline{
		sinks:    sinks,
		validate: validator.New(),
		log:      log.With().Str("component", "deliver").Logger(),
	}
}

// Output filters out structurally invalid events and hands the remainder to
// every sink. Invalid events are dropped with a warning, never raised.
func (p *Pipeline) Output(ctx context.Context, events []models.DomainEvent) {
	if len(events) == 0 {
		return
	}

	valid := make([]models.DomainEvent, 0, len(events))
	for _, ev := range events {
		if !models.KnownEventTypes[ev.Type] {
			p.log.Warn().
				Str("event_type", string(ev.Type)).
				Str("match_id", ev.MatchID).
				Msg("dropping event with unrecognized type")
			continue
		}
		if err := p.validate.Struct(ev); err != nil {
			p.log.Warn().Err(err).
				Str("event_type", string(ev.Type)).
				Str("match_id", ev.MatchID).
				Msg("dropping structurally invalid event")
			continue
		}
		valid = append(valid, ev)
	}

	if len(valid) == 0 {
		return
	}

	for _, sink := range p.sinks {
		if err := sink.Deliver(ctx, valid); err != nil {
			p.log.Error().Err(err).Msg("sink delivery failed")
		}
	}
}

// Close flushes and closes every sink.
func (p *Pipeline) Close(ctx context.Context) {
	for _, sink := range p.sinks {
		if err := sink.Close(ctx); err != nil {
			p.log.Error().Err(err).Msg("sink close failed")
		}
	}
}
