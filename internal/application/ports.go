package application

import (
	"context"
	"time"
)

// Cache is the key/value collaborator used for read-state markers and
// memoized external-API results. A missing key is (value, false, nil),
// never an error; eviction must read the same as never-written.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Publisher enqueues fire-and-forget jobs (welcome and reset emails).
// Satisfied by helpers.RabbitPublisher.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}
