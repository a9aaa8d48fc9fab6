package cache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/danial-baraty/express-todo-api/internal/server/users"
)

func newTestCache(t *testing.T, ttl time.Duration) (*UserCache, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return New(rdb, ttl), mr
}

func testUser() *users.User {
	now := time.Now().UTC().Truncate(time.Second)
	return &users.User{
		ID:           "9b9c3f9e-3a63-4e08-9b5f-0a8f2a8c1d11",
		Email:        "a@example.com",
		PasswordHash: "$argon2id$v=19$m=65536,t=2,p=2$c2FsdA$aGFzaA",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestPutThenLookup_Hit(t *testing.T) {
	c, _ := newTestCache(t, time.Hour)
	ctx := context.Background()
	user := testUser()

	require.NoError(t, c.Put(ctx, user))

	got, state, err := c.Lookup(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, Hit, state)
	require.Equal(t, user.ID, got.ID)
	require.Equal(t, user.Email, got.Email)
	require.True(t, user.CreatedAt.Equal(got.CreatedAt))
}

func TestPut_ExcludesPasswordHash(t *testing.T) {
	c, mr := newTestCache(t, time.Hour)
	ctx := context.Background()
	user := testUser()

	require.NoError(t, c.Put(ctx, user))

	raw, err := mr.Get("user:" + user.ID)
	require.NoError(t, err)
	require.False(t, strings.Contains(raw, user.PasswordHash),
		"cached snapshot must not carry the password hash")

	got, state, err := c.Lookup(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, Hit, state)
	require.Empty(t, got.PasswordHash)
}

func TestLookup_Miss(t *testing.T) {
	c, _ := newTestCache(t, time.Hour)

	got, state, err := c.Lookup(context.Background(), "unknown-id")
	require.NoError(t, err)
	require.Equal(t, Miss, state)
	require.Nil(t, got)
}

func TestLookup_ExpiresAfterTTL(t *testing.T) {
	c, mr := newTestCache(t, time.Hour)
	ctx := context.Background()
	user := testUser()

	require.NoError(t, c.Put(ctx, user))

	ttl := mr.TTL("user:" + user.ID)
	require.Equal(t, time.Hour, ttl)

	mr.FastForward(time.Hour + time.Minute)

	_, state, err := c.Lookup(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, Miss, state)
}

func TestLookup_CorruptedValueIsMiss(t *testing.T) {
	c, mr := newTestCache(t, time.Hour)

	require.NoError(t, mr.Set("user:some-id", "{not json"))

	got, state, err := c.Lookup(context.Background(), "some-id")
	require.NoError(t, err)
	require.Equal(t, Miss, state)
	require.Nil(t, got)
}

func TestLookup_Unreachable(t *testing.T) {
	c, mr := newTestCache(t, time.Hour)
	mr.SetError("redis is down")

	got, state, err := c.Lookup(context.Background(), "any-id")
	require.Nil(t, got)
	require.Equal(t, Unreachable, state)
	require.True(t, errors.Is(err, ErrUnavailable))
}

func TestPut_Unreachable(t *testing.T) {
	c, mr := newTestCache(t, time.Hour)
	mr.SetError("redis is down")

	err := c.Put(context.Background(), testUser())
	require.True(t, errors.Is(err, ErrUnavailable))
}

func TestConnect_Unreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = Connect(context.Background(), addr, 200*time.Millisecond)
	require.Error(t, err)
}

func TestConnect_HealthCheck(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb, err := Connect(context.Background(), mr.Addr(), time.Second)
	require.NoError(t, err)
	require.NoError(t, rdb.Close())
}
