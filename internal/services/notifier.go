package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mediashelf/mediashelf-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// Change tells cache collaborators that a subject's relationships or
// aggregates changed. A mutation emits exactly one Change. Paths are
// locale-agnostic hints, e.g. /media/<id>; the first one is the subject's own.
type Change struct {
	Subject string    `json:"subject"`
	Paths   []string  `json:"paths"`
	At      time.Time `json:"at"`
}

func mediaPath(id string) string   { return "/media/" + id }
func reviewPath(id string) string  { return "/review/" + id }
func profilePath(id string) string { return "/profile/" + id }

func newChange(subject, path string, also []string) Change {
	return Change{Subject: subject, Paths: append([]string{path}, also...)}
}

func mediaChange(id string, also ...string) Change {
	return newChange(id, mediaPath(id), also)
}

func reviewChange(id string, also ...string) Change {
	return newChange(id, reviewPath(id), also)
}

func profileChange(id string, also ...string) Change {
	return newChange(id, profilePath(id), also)
}

// Notifier receives changes after a mutation has committed.
type Notifier interface {
	Notify(ctx context.Context, change Change) error
}

// NopNotifier drops every change.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Change) error { return nil }

// RedisNotifier publishes changes as JSON on a pub/sub channel.
type RedisNotifier struct {
	client  *redis.Client
	channel string
	timeout time.Duration
}

func NewRedisNotifier(redisURL, channel string, timeout time.Duration) (*RedisNotifier, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisNotifier{client: client, channel: channel, timeout: timeout}, nil
}

func (n *RedisNotifier) Notify(ctx context.Context, change Change) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()
	if err := n.client.Publish(ctx, n.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

func (n *RedisNotifier) Close() error {
	return n.client.Close()
}

// notify fires after commit. A failure is logged and never changes the
// result of the mutation that produced it.
func notify(ctx context.Context, n Notifier, c Change) {
	c.At = time.Now().UTC()
	if err := n.Notify(context.WithoutCancel(ctx), c); err != nil {
		logger.WithFields(map[string]interface{}{
			"subject": c.Subject,
			"paths":   c.Paths,
		}).Warn("change notification failed: ", err)
	}
}

var (
	_ Notifier = NopNotifier{}
	_ Notifier = (*RedisNotifier)(nil)
)
