// Package cache is the Redis-backed read-through accelerator in front of
// the credential store. It is a derived, disposable layer: a missing or
// unreachable cache must never affect correctness, only latency.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/danial-baraty/express-todo-api/internal/server/users"
)

// ErrUnavailable wraps Redis transport/connectivity failures so callers
// can tell them apart from a legitimate cache miss.
var ErrUnavailable = errors.New("cache: redis unavailable")

// LookupState is the three-valued outcome of a cache read. Hit and Miss
// mean the cache answered; Unreachable means the read itself failed and
// must not be conflated with a confirmed absence.
type LookupState int

const (
	// Hit means a usable snapshot was found.
	Hit LookupState = iota
	// Miss means the cache is reachable and holds no usable value for
	// the key. A miss is not proof the user does not exist.
	Miss
	// Unreachable means the cache operation itself failed.
	Unreachable
)

// cachedUser is the serialized snapshot stored per user. The password
// hash is deliberately excluded: login always bypasses the cache, so
// caching it would only widen the blast radius of a cache compromise.
type cachedUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserCache caches user snapshots under "user:<id>" keys with a fixed
// TTL set at write time. Safe for concurrent use; the underlying client
// is shared process-wide.
type UserCache struct {
	redis redis.UniversalClient
	ttl   time.Duration
}

// New creates a UserCache over the given Redis client. ttl bounds the
// staleness of any served snapshot.
func New(rdb redis.UniversalClient, ttl time.Duration) *UserCache {
	return &UserCache{redis: rdb, ttl: ttl}
}

// Connect dials Redis and health-checks it with a PING bounded by
// timeout. Startup must fail when this returns an error: an instance
// that cannot reach its cache at boot is treated as misconfigured.
func Connect(ctx context.Context, addr string, timeout time.Duration) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: timeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return rdb, nil
}

func (c *UserCache) key(id string) string {
	return "user:" + id
}

// Lookup reads the snapshot for id. A corrupted (undecodable) value is
// reported as a Miss rather than an error, so a bad cache entry degrades
// to a store lookup instead of denying service.
func (c *UserCache) Lookup(ctx context.Context, id string) (*users.User, LookupState, error) {
	data, err := c.redis.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, Miss, nil
		}
		return nil, Unreachable, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var snap cachedUser
	if err := json.Unmarshal(data, &snap); err != nil || snap.ID == "" {
		return nil, Miss, nil
	}

	return &users.User{
		ID:        snap.ID,
		Email:     snap.Email,
		CreatedAt: snap.CreatedAt,
		UpdatedAt: snap.UpdatedAt,
	}, Hit, nil
}

// Put writes a fresh snapshot for user with the configured TTL. Writes
// are best-effort: the caller logs failures and never aborts the request.
func (c *UserCache) Put(ctx context.Context, user *users.User) error {
	data, err := json.Marshal(cachedUser{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("cache: encoding snapshot: %w", err)
	}

	if err := c.redis.Set(ctx, c.key(user.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return nil
}
