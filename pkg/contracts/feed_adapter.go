package contracts

import (
	"context"
	"errors"

	"github.com/XavierBriggs/Argus/pkg/models"
)

// ErrNoData is the distinguishable "upstream has nothing for this endpoint"
// condition (404-equivalent). It is not an error in the operational sense:
// the scheduler backs off instead of logging a failure.
var ErrNoData = errors.New("upstream returned no data")

// FeedAdapter defines the interface for fetching snapshots from the live feed.
// This keeps the polling core stable across upstream providers.
type FeedAdapter interface {
	// FetchSnapshot retrieves the current snapshot for an endpoint path.
	// Returns an error wrapping ErrNoData when the upstream has no payload.
	FetchSnapshot(ctx context.Context, endpoint string) (*models.Snapshot, error)
}
