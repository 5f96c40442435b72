package deliver

import (
	"context"

	"github.com/XavierBriggs/Argus/pkg/contracts"
	"github.com/XavierBriggs/Argus/pkg/models"
	"github.com/rs/zerolog"
)

// ConsoleSink writes events to the structured log: one line per event, with
// a grouped summary line when a cycle produced several.
type ConsoleSink struct {
	log zerolog.Logger
}

var _ contracts.EventSink = (*ConsoleSink)(nil)

func NewConsoleSink(log zerolog.Logger) *ConsoleSink {
	return &ConsoleSink{log: log.With().Str("component", "events").Logger()}
}

func (s *ConsoleSink) Deliver(_ context.Context, events []models.DomainEvent) error {
	if len(events) > 3 {
		counts := make(map[string]int, len(events))
		for _, ev := range events {
			counts[string(ev.Type)]++
		}
		s.log.Info().Int("count", len(events)).Interface("types", counts).Msg("event batch")
	}

	for _, ev := range events {
		s.log.Info().
			Str("event_type", string(ev.Type)).
			Str("match_id", ev.MatchID).
			Str("tournament_id", ev.TournamentID).
			Str("priority", string(ev.Priority)).
			Time("at", ev.Timestamp).
			Msg(ev.Description)
	}
	return nil
}

func (s *ConsoleSink) Close(context.Context) error { return nil }
