package pubsub

import (
	"context"
	"fmt"
	"time"

	"github.com/XavierBriggs/Argus/pkg/contracts"
	"github.com/XavierBriggs/Argus/pkg/models"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const channelPrefix = "argus:live:"

// snapshotMessage is the wire envelope pushed to subscriber channels.
type snapshotMessage struct {
	Endpoint  string    `json:"endpoint"`
	FetchedAt time.Time `json:"fetched_at"`
	Data      any       `json:"data"`
}

// RedisPublisher fans snapshots out over Redis pub/sub, one channel per
// endpoint.
type RedisPublisher struct {
	client *redis.Client
}

var _ contracts.SnapshotPublisher = (*RedisPublisher)(nil)

// NewRedisPublisher wraps an existing Redis client.
func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

// Publish pushes a snapshot to the endpoint's channel.
func (p *RedisPublisher) Publish(ctx context.Context, endpoint string, snap *models.Snapshot) error {
	payload, err := json.Marshal(snapshotMessage{
		Endpoint:  endpoint,
		FetchedAt: snap.FetchedAt,
		Data:      snap.Data,
	})
	if err != nil {
		return fmt.Errorf("marshal snapshot message: %w", err)
	}

	if err := p.client.Publish(ctx, channelPrefix+endpoint, payload).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

// NoopPublisher drops everything; used when live fan-out is disabled.
type NoopPublisher struct{}

var _ contracts.SnapshotPublisher = NoopPublisher{}

func (NoopPublisher) Publish(context.Context, string, *models.Snapshot) error { return nil }
