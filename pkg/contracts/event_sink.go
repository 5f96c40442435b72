package contracts

import (
	"context"

	"github.com/XavierBriggs/Argus/pkg/models"
)

// EventSink receives validated domain events from the delivery pipeline.
type EventSink interface {
	// Deliver hands a batch of events to the sink. Sinks may buffer;
	// delivery errors are the sink's to log, never the pipeline's to raise.
	Deliver(ctx context.Context, events []models.DomainEvent) error

	// Close flushes any buffered events and releases resources.
	Close(ctx context.Context) error
}
