package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/danial-baraty/express-todo-api/internal/server/auth"
	"github.com/danial-baraty/express-todo-api/internal/server/cache"
	"github.com/danial-baraty/express-todo-api/internal/server/users"
)

type countingRepo struct {
	users map[string]*users.User
	gets  int
}

func (r *countingRepo) Create(_ context.Context, u *users.User) (*users.User, error) {
	r.users[u.ID] = u
	return u, nil
}

func (r *countingRepo) GetByID(_ context.Context, id string) (*users.User, error) {
	r.gets++
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, users.ErrNotFound
}

func (r *countingRepo) GetByEmail(_ context.Context, email string) (*users.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, users.ErrNotFound
}

// recordingCache wraps a UserCache and counts Put attempts.
type recordingCache struct {
	inner UserCache
	puts  int
}

func (c *recordingCache) Lookup(ctx context.Context, id string) (*users.User, cache.LookupState, error) {
	return c.inner.Lookup(ctx, id)
}

func (c *recordingCache) Put(ctx context.Context, u *users.User) error {
	c.puts++
	return c.inner.Put(ctx, u)
}

type gateFixture struct {
	tokens  *auth.Manager
	repo    *countingRepo
	cache   *recordingCache
	mr      *miniredis.Miniredis
	handler http.Handler
	user    *users.User
}

func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	tokens, err := auth.NewManager([]byte("gate-secret"), time.Hour)
	require.NoError(t, err)

	user := &users.User{
		ID:           "11111111-2222-3333-4444-555555555555",
		Email:        "a@example.com",
		PasswordHash: "hash",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	repo := &countingRepo{users: map[string]*users.User{user.ID: user}}
	recorder := &recordingCache{inner: cache.New(rdb, time.Hour)}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := UserFromContext(r.Context())
		if !ok {
			http.Error(w, "identity missing", http.StatusInternalServerError)
			return
		}
		w.Header().Set("X-User-ID", identity.ID)
		w.WriteHeader(http.StatusOK)
	})

	return &gateFixture{
		tokens:  tokens,
		repo:    repo,
		cache:   recorder,
		mr:      mr,
		handler: Guard(tokens, recorder, repo, logger)(next),
		user:    user,
	}
}

func (f *gateFixture) request(t *testing.T, mutate func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func (f *gateFixture) validCookie(t *testing.T) *http.Cookie {
	t.Helper()
	tok, err := f.tokens.Issue(f.user.ID)
	require.NoError(t, err)
	return &http.Cookie{Name: TokenCookie, Value: tok}
}

func TestGuard_MissingToken(t *testing.T) {
	f := newGateFixture(t)

	rec := f.request(t, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Zero(t, f.repo.gets)
}

func TestGuard_InvalidToken(t *testing.T) {
	f := newGateFixture(t)

	rec := f.request(t, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: TokenCookie, Value: "garbage"})
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGuard_MutatedToken(t *testing.T) {
	f := newGateFixture(t)
	c := f.validCookie(t)

	// Flip one character of the token.
	b := []byte(c.Value)
	if b[len(b)-1] == 'A' {
		b[len(b)-1] = 'B'
	} else {
		b[len(b)-1] = 'A'
	}
	c.Value = string(b)

	rec := f.request(t, func(r *http.Request) { r.AddCookie(c) })
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGuard_CookieTransport_MissThenHit(t *testing.T) {
	f := newGateFixture(t)
	c := f.validCookie(t)

	// First request: cache miss, store lookup, repopulation.
	rec := f.request(t, func(r *http.Request) { r.AddCookie(c) })
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, f.user.ID, rec.Header().Get("X-User-ID"))
	require.Equal(t, 1, f.repo.gets)
	require.Equal(t, 1, f.cache.puts)
	require.True(t, f.mr.Exists("user:"+f.user.ID))

	// Second request: cache hit, store skipped entirely.
	rec = f.request(t, func(r *http.Request) { r.AddCookie(c) })
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, f.repo.gets)
	require.Equal(t, 1, f.cache.puts)
}

func TestGuard_BearerTransport(t *testing.T) {
	f := newGateFixture(t)
	tok, err := f.tokens.Issue(f.user.ID)
	require.NoError(t, err)

	rec := f.request(t, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+tok)
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, f.user.ID, rec.Header().Get("X-User-ID"))
}

func TestGuard_CookieWinsOverHeader(t *testing.T) {
	f := newGateFixture(t)
	c := f.validCookie(t)

	rec := f.request(t, func(r *http.Request) {
		r.AddCookie(c)
		r.Header.Set("Authorization", "Bearer garbage")
	})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGuard_CacheUnreachable_DegradesToStore(t *testing.T) {
	f := newGateFixture(t)
	c := f.validCookie(t)

	f.mr.SetError("redis is down")

	rec := f.request(t, func(r *http.Request) { r.AddCookie(c) })
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, f.repo.gets)
	// No repopulation attempt while the cache is demonstrably down.
	require.Zero(t, f.cache.puts)

	// Once the cache recovers, the next miss repopulates as usual.
	f.mr.SetError("")
	rec = f.request(t, func(r *http.Request) { r.AddCookie(c) })
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, f.cache.puts)
}

func TestGuard_CorruptedCacheEntry_FallsBackToStore(t *testing.T) {
	f := newGateFixture(t)
	c := f.validCookie(t)

	require.NoError(t, f.mr.Set("user:"+f.user.ID, "{definitely not json"))

	rec := f.request(t, func(r *http.Request) { r.AddCookie(c) })
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, f.repo.gets)
	// Corrupted entry counts as a miss, so it gets overwritten.
	require.Equal(t, 1, f.cache.puts)
}

func TestGuard_UserNotFound(t *testing.T) {
	f := newGateFixture(t)
	tok, err := f.tokens.Issue("00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)

	rec := f.request(t, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: TokenCookie, Value: tok})
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
