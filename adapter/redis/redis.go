// Package redis implements a Redis pub/sub completion adapter.
//
// Publishes import completion events as JSON to a configurable channel.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/arrecife-io/ocimport/adapter"
)

// DefaultChannel is the default pub/sub channel name.
const DefaultChannel = "ocimport:import_completed"

// DefaultTimeout is the default per-publish timeout.
const DefaultTimeout = 5 * time.Second

// Config configures the Redis pub/sub adapter.
type Config struct {
	// URL is the Redis connection URL (required).
	// Format: redis://[:password@]host:port[/db]
	URL string
	// Channel is the pub/sub channel name (default: ocimport:import_completed).
	Channel string
	// Timeout is the per-publish timeout (default 5s).
	Timeout time.Duration
}

// Adapter publishes import completion events via Redis PUBLISH.
type Adapter struct {
	config Config
	client *goredis.Client
}

// New creates a Redis pub/sub adapter from the given config.
// Returns an error if the URL is empty or invalid.
func New(cfg Config) (*Adapter, error) {
	if cfg.URL == "" {
		return nil, errors.New("redis adapter requires a URL")
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

	return &Adapter{
		config: cfg,
		client: goredis.NewClient(opts),
	}, nil
}

// Publish sends the event as a single JSON PUBLISH to the configured
// channel.
func (a *Adapter) Publish(ctx context.Context, event *adapter.ImportCompletedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("redis: marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()

	if err := a.client.Publish(ctx, a.config.Channel, body).Err(); err != nil {
		return fmt.Errorf("redis: publish to %s: %w", a.config.Channel, err)
	}
	return nil
}

// Close releases the Redis connection.
func (a *Adapter) Close() error {
	return a.client.Close()
}

// Verify Adapter implements adapter.Adapter.
var _ adapter.Adapter = (*Adapter)(nil)
