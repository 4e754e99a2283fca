package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/angelmondragon/marketplace-backend/pkg/config"
)

func TestFixedWindowAllow(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	allowed, count, err := client.FixedWindowAllow(ctx, "login:ip:1.2.3.4", 2, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !allowed || count != 1 {
		t.Fatalf("expected first request allowed with count 1, got allowed=%v count=%d", allowed, count)
	}
	if len(mock.expireCalls) != 1 || mock.expireCalls[0].key != "mkt:rate_limit:login:ip:1.2.3.4" {
		t.Fatalf("expected expire for first increment, got %+v", mock.expireCalls)
	}

	allowed, count, err = client.FixedWindowAllow(ctx, "login:ip:1.2.3.4", 2, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !allowed || count != 2 {
		t.Fatalf("unexpected second call state allowed=%v count=%d", allowed, count)
	}
	if len(mock.expireCalls) != 1 {
		t.Fatalf("live window must not be extended, got %+v", mock.expireCalls)
	}

	allowed, _, err = client.FixedWindowAllow(ctx, "login:ip:1.2.3.4", 2, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if allowed {
		t.Fatalf("expected limit reached")
	}
}

func TestGetDelConsumesValue(t *testing.T) {
	ctx := context.Background()
	client := &Client{store: newMockCmdable()}

	key := client.OAuthStateKey("google", "abc")
	if err := client.Set(ctx, key, "1", time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	got, err := client.GetDel(ctx, key)
	if err != nil || got != "1" {
		t.Fatalf("expected value 1, got %q err=%v", got, err)
	}
	if _, err := client.GetDel(ctx, key); !IsNil(err) {
		t.Fatalf("expected redis.Nil on second read, got %v", err)
	}
}

func TestZeroClientFailsFast(t *testing.T) {
	var client *Client
	if err := client.Ping(context.Background()); err != ErrNotInitialized {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("closing a nil client should be a no-op: %v", err)
	}
}

func TestFixedWindowAllowScopesAreIndependent(t *testing.T) {
	ctx := context.Background()
	client := &Client{store: newMockCmdable()}

	for i := 0; i < 2; i++ {
		if _, _, err := client.FixedWindowAllow(ctx, "email:login:a", 1, time.Minute); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	allowed, count, err := client.FixedWindowAllow(ctx, "email:login:b", 1, time.Minute)
	if err != nil || !allowed || count != 1 {
		t.Fatalf("expected a fresh counter for another scope, got allowed=%v count=%d err=%v", allowed, count, err)
	}
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	if got := client.RateLimitKey("scope"); got != "mkt:rate_limit:scope" {
		t.Fatalf("unexpected rate limit key %s", got)
	}
	if got := client.AccessSessionKey("jti"); got != "mkt:session:access:jti" {
		t.Fatalf("unexpected session key %s", got)
	}
	if got := client.OAuthStateKey("yandex", " s1 "); got != "mkt:oauth_state:yandex:s1" {
		t.Fatalf("unexpected oauth state key %s", got)
	}
	if got := client.OAuthStateKey("", "s1"); got != "mkt:oauth_state:s1" {
		t.Fatalf("empty parts should be skipped, got %s", got)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected missing url/address to fail")
	}

	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://localhost:6380/2", PoolSize: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6380" || opts.DB != 2 || opts.PoolSize != 7 {
		t.Fatalf("unexpected options %+v", opts)
	}
}

type mockCmdable struct {
	data        map[string]string
	incr        map[string]int64
	ttls        map[string]time.Duration
	expireCalls []expireCall
}

type expireCall struct {
	key string
	ttl time.Duration
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{
		data: make(map[string]string),
		incr: make(map[string]int64),
		ttls: make(map[string]time.Duration),
	}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(_ context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	m.data[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Get(_ context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) GetDel(ctx context.Context, key string) *redis.StringCmd {
	cmd := m.Get(ctx, key)
	delete(m.data, key)
	return cmd
}

func (m *mockCmdable) Incr(_ context.Context, key string) *redis.IntCmd {
	m.incr[key]++
	return redis.NewIntResult(m.incr[key], nil)
}

// ExpireNX only records a call when the key has no TTL yet.
func (m *mockCmdable) ExpireNX(_ context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	if m.ttls[key] > 0 {
		return redis.NewBoolResult(false, nil)
	}
	m.ttls[key] = expiration
	m.expireCalls = append(m.expireCalls, expireCall{key: key, ttl: expiration})
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Del(_ context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}
