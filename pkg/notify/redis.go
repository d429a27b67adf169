package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/transkit/pkg/logger"
)

// DefaultChannel is the pub/sub channel used when none is configured.
const DefaultChannel = "transkit:builds"

// Config describes the Redis connection used for build events.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL"`                                  // ConnectionURL is in the format "redis://:password@localhost:6379/0". Empty disables Redis.
	Channel        string        `env:"REDIS_CHANNEL" envDefault:"transkit:builds"` // Channel is the pub/sub channel events are published on.
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`        // RetryAttempts is the number of connection attempts.
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`       // RetryInterval is the delay between connection attempts.
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`     // ConnectTimeout bounds the whole connection phase.
}

// Connect establishes a connection to a Redis server, retrying up to
// cfg.RetryAttempts times with cfg.RetryInterval between attempts.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	opts, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseRedisConnString, err)
	}

	for range max(cfg.RetryAttempts, 1) {
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err == nil {
			return client, nil
		}
		_ = client.Close()

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrRedisNotReady, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}
	return nil, ErrRedisNotReady
}

// Publisher is the subset of the go-redis client used by RedisPublisher.
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// RedisPublisher publishes events as JSON on a pub/sub channel.
type RedisPublisher struct {
	client  Publisher
	channel string
	logger  *slog.Logger
}

// RedisOption configures a RedisPublisher.
type RedisOption func(*RedisPublisher)

// WithChannel overrides DefaultChannel.
func WithChannel(channel string) RedisOption {
	return func(p *RedisPublisher) {
		p.channel = channel
	}
}

// WithLogger sets the logger. A discard logger is used by default.
func WithLogger(l *slog.Logger) RedisOption {
	return func(p *RedisPublisher) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewRedisPublisher returns a publisher writing to client.
func NewRedisPublisher(client Publisher, opts ...RedisOption) (*RedisPublisher, error) {
	p := &RedisPublisher{
		client:  client,
		channel: DefaultChannel,
		logger:  logger.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if strings.TrimSpace(p.channel) == "" {
		return nil, ErrEmptyChannel
	}
	return p, nil
}

// Channel returns the pub/sub channel name.
func (p *RedisPublisher) Channel() string {
	return p.channel
}

// Notify publishes ev. The receiver count is logged at debug level.
func (p *RedisPublisher) Notify(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return errors.Join(ErrFailedToEncodeEvent, err)
	}
	receivers, err := p.client.Publish(ctx, p.channel, payload).Result()
	if err != nil {
		return fmt.Errorf("%w: channel %s: %w", ErrFailedToPublish, p.channel, err)
	}
	p.logger.DebugContext(ctx, "Build event published",
		logger.Event(string(ev.Type)),
		slog.String("channel", p.channel),
		logger.Count(int(receivers)),
	)
	return nil
}

// DecodeEvent parses a payload published by RedisPublisher.
func DecodeEvent(payload string) (Event, error) {
	var ev Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return Event{}, errors.Join(ErrFailedToDecodeEvent, err)
	}
	return ev, nil
}
