package deliver

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/XavierBriggs/Argus/pkg/contracts"
	"github.com/XavierBriggs/Argus/pkg/models"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SignatureHeader carries the hex HMAC-SHA256 of payload‖timestamp.
const SignatureHeader = "X-ATP-Live-Signature"

// TimestampHeader carries the timestamp the signature covers.
const TimestampHeader = "X-ATP-Live-Timestamp"

// WebhookConfig configures the webhook sink.
type WebhookConfig struct {
	URL            string        `koanf:"url"`
	Secret         string        `koanf:"secret"`
	BatchSize      int           `koanf:"batch_size"`
	FlushInterval  time.Duration `koanf:"flush_interval"`
	MaxAttempts    int           `koanf:"max_attempts"`
	RetryBaseDelay time.Duration `koanf:"retry_base_delay"`
	RetryMaxDelay  time.Duration `koanf:"retry_max_delay"`
	Timeout        time.Duration `koanf:"timeout"`
}

// DefaultWebhookConfig returns the sink defaults (URL and secret must be
// provided by the operator).
func DefaultWebhookConfig() WebhookConfig {
	return WebhookConfig{
		BatchSize:      10,
		FlushInterval:  5 * time.Second,
		MaxAttempts:    3,
		RetryBaseDelay: 2 * time.Second,
		RetryMaxDelay:  30 * time.Second,
		Timeout:        10 * time.Second,
	}
}

// batchEnvelope wraps multiple events in one webhook request.
type batchEnvelope struct {
	BatchID   string               `json:"batch_id"`
	Timestamp time.Time            `json:"timestamp"`
	Events    []models.DomainEvent `json:"events"`
}

// WebhookSink batches validated events and POSTs them, HMAC-signed, to the
// configured receiver. The queue flushes when it reaches the configured
// size or after the idle interval, whichever comes first.
type WebhookSink struct {
	cfg        WebhookConfig
	httpClient *http.Client
	log        zerolog.Logger

	mu     sync.Mutex
	queue  []models.DomainEvent
	timer  *time.Timer
	closed bool
}

var _ contracts.EventSink = (*WebhookSink)(nil)

// NewWebhookSink creates a webhook sink.
func NewWebhookSink(cfg WebhookConfig, log zerolog.Logger) *WebhookSink {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 1
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	return &WebhookSink{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log.With().Str("component", "webhook").Logger(),
	}
}

// Deliver enqueues events, flushing immediately once the batch is full.
func (s *WebhookSink) Deliver(ctx context.Context, events []models.DomainEvent) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return fmt.Errorf("webhook sink closed")
	}

	s.queue = append(s.queue, events...)

	if len(s.queue) >= s.cfg.BatchSize {
		batch := s.takeLocked()
		s.mu.Unlock()
		s.send(ctx, batch)
		return nil
	}

	// Arm the idle-flush timer for a partial batch.
	if s.timer == nil && s.cfg.FlushInterval > 0 {
		s.timer = time.AfterFunc(s.cfg.FlushInterval, s.flushIdle)
	}
	s.mu.Unlock()
	return nil
}

// Close drains whatever is still queued before shutting the sink down.
func (s *WebhookSink) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	batch := s.takeLocked()
	s.mu.Unlock()

	if len(batch) > 0 {
		s.send(ctx, batch)
	}
	return nil
}

// takeLocked empties the queue and disarms the idle timer. Callers hold mu.
func (s *WebhookSink) takeLocked() []models.DomainEvent {
	batch := s.queue
	s.queue = nil
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	return batch
}

func (s *WebhookSink) flushIdle() {
	s.mu.Lock()
	batch := s.takeLocked()
	s.mu.Unlock()

	if len(batch) > 0 {
		s.send(context.Background(), batch)
	}
}

// send builds the payload (bare event for one, batch envelope for several)
// and delivers it with the retry policy.
func (s *WebhookSink) send(ctx context.Context, batch []models.DomainEvent) {
	now := time.Now().UTC()

	var payload any
	if len(batch) == 1 {
		ev := batch[0]
		ev.Timestamp = now
		payload = ev
	} else {
		payload = batchEnvelope{
			BatchID:   uuid.NewString(),
			Timestamp: now,
			Events:    batch,
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		s.log.Error().Err(err).Msg("marshal webhook payload")
		return
	}

	if err := s.post(ctx, body, now.Format(time.RFC3339)); err != nil {
		s.log.Error().Err(err).Int("events", len(batch)).Msg("webhook delivery failed, dropping batch")
	}
}

// post delivers one signed request. Client errors other than 429 abort
// immediately; 429, 5xx and network errors retry with capped exponential
// backoff until the attempt budget runs out.
func (s *WebhookSink) post(ctx context.Context, body []byte, timestamp string) error {
	signature := s.sign(body, timestamp)

	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			delay := s.retryDelay(attempt)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		status, err := s.attempt(ctx, body, timestamp, signature)
		if err == nil {
			return nil
		}
		lastErr = err

		if status >= 400 && status < 500 && status != http.StatusTooManyRequests {
			return fmt.Errorf("non-retryable: %w", err)
		}
	}
	return fmt.Errorf("max attempts exceeded: %w", lastErr)
}

func (s *WebhookSink) attempt(ctx context.Context, body []byte, timestamp, signature string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SignatureHeader, signature)
	req.Header.Set(TimestampHeader, timestamp)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp.StatusCode, nil
	}
	return resp.StatusCode, fmt.Errorf("webhook responded %d", resp.StatusCode)
}

// sign computes the hex HMAC-SHA256 over payload‖timestamp.
func (s *WebhookSink) sign(body []byte, timestamp string) string {
	mac := hmac.New(sha256.New, []byte(s.cfg.Secret))
	mac.Write(body)
	mac.Write([]byte(timestamp))
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func (s *WebhookSink) retryDelay(attempt int) time.Duration {
	delay := s.cfg.RetryBaseDelay * time.Duration(1<<uint(attempt-2))
	if delay > s.cfg.RetryMaxDelay {
		delay = s.cfg.RetryMaxDelay
	}
	if delay <= 0 {
		delay = s.cfg.RetryBaseDelay
	}
	return delay
}
