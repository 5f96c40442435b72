package contracts

import (
	"context"

	"github.com/XavierBriggs/Argus/pkg/models"
)

// SubscriberDirectory maps endpoint paths to currently connected subscriber
// ids. The scheduler consults it to skip publishing when nobody is listening.
type SubscriberDirectory interface {
	Subscribers(endpoint string) []string
}

// SnapshotPublisher fans a fresh snapshot out to live subscribers.
type SnapshotPublisher interface {
	Publish(ctx context.Context, endpoint string, snap *models.Snapshot) error
}
