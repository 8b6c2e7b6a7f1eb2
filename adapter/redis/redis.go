// Package redis publishes message events to a Redis pub/sub channel.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/parley-im/parley/adapter"
)

const (
	// DefaultChannel is the pub/sub channel when none is configured.
	DefaultChannel = "parley:message_received"
	// DefaultTimeout bounds each PUBLISH attempt.
	DefaultTimeout = 5 * time.Second
	// DefaultRetries is the retry count after the initial attempt.
	DefaultRetries = 3

	retryBase = 500 * time.Millisecond
)

// Config configures the Redis pub/sub adapter.
type Config struct {
	// URL is the connection URL (required),
	// redis://[:password@]host:port[/db].
	URL string
	// Channel is the pub/sub channel (default parley:message_received).
	Channel string
	// Timeout is the per-publish timeout (default 5s).
	Timeout time.Duration
	// Retries is the retry count on failure (default 3).
	Retries int
}

// Adapter delivers message events with PUBLISH, retrying connection
// errors with exponential backoff.
type Adapter struct {
	cfg    Config
	client *goredis.Client
}

func New(cfg Config) (*Adapter, error) {
	if cfg.URL == "" {
		return nil, errors.New("redis adapter requires a URL")
	}
	if cfg.Retries < 0 {
		return nil, fmt.Errorf("retries must be >= 0, got %d", cfg.Retries)
	}
	opts, err := goredis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("redis adapter: invalid URL: %w", err)
	}
	if cfg.Channel == "" {
		cfg.Channel = DefaultChannel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Adapter{cfg: cfg, client: goredis.NewClient(opts)}, nil
}

// Publish sends the event as JSON on the configured channel.
func (a *Adapter) Publish(ctx context.Context, event *adapter.MessageEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("redis: marshal event: %w", err)
	}

	attempts := 1 + a.cfg.Retries
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			t := time.NewTimer(retryBase << uint(i-1))
			select {
			case <-ctx.Done():
				t.Stop()
				return fmt.Errorf("redis: %w", ctx.Err())
			case <-t.C:
			}
		} else if err := ctx.Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}

		lastErr = a.publish(ctx, body)
		if lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("redis: failed after %d attempts: %w", attempts, lastErr)
}

func (a *Adapter) publish(ctx context.Context, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()
	return a.client.Publish(ctx, a.cfg.Channel, body).Err()
}

func (a *Adapter) Close() error {
	return a.client.Close()
}

var _ adapter.Adapter = (*Adapter)(nil)
