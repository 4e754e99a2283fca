package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	"github.com/angelmondragon/marketplace-backend/pkg/config"
)

type mockStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]string)}
}

func (m *mockStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	return nil
}

func (m *mockStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *mockStore) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *mockStore) AccessSessionKey(accessID string) string {
	return "sess:" + accessID
}

func newTestManager(t *testing.T, store *mockStore) *Manager {
	t.Helper()
	m, err := NewManager(store, config.JWTConfig{ExpirationMinutes: 15, RefreshTokenTTLMinutes: 60})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return m
}

func TestManagerGenerateAndRotate(t *testing.T) {
	store := newMockStore()
	manager := newTestManager(t, store)
	ctx := context.Background()
	userID := uuid.New()

	issued, err := manager.Generate(ctx, userID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if ok, _ := manager.HasSession(ctx, issued.AccessID); !ok {
		t.Fatalf("expected session for %s", issued.AccessID)
	}

	if _, err := manager.Rotate(ctx, issued.AccessID+".wrong"); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected invalid refresh token error, got %v", err)
	}

	rotated, err := manager.Rotate(ctx, issued.RefreshToken)
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if rotated.UserID != userID {
		t.Fatalf("expected rotated session for %s, got %s", userID, rotated.UserID)
	}
	if rotated.AccessID == issued.AccessID || rotated.RefreshToken == issued.RefreshToken {
		t.Fatalf("expected new identifiers after rotation")
	}
	if ok, _ := manager.HasSession(ctx, issued.AccessID); ok {
		t.Fatalf("old session left behind")
	}

	if _, err := manager.Rotate(ctx, issued.RefreshToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("reusing a rotated token must fail, got %v", err)
	}
}

func TestManagerRevoke(t *testing.T) {
	store := newMockStore()
	manager := newTestManager(t, store)
	ctx := context.Background()

	issued, err := manager.Generate(ctx, uuid.New())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if err := manager.Revoke(ctx, issued.AccessID); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if ok, err := manager.HasSession(ctx, issued.AccessID); ok || err != nil {
		t.Fatalf("expected no session after revoke, ok=%v err=%v", ok, err)
	}
}

func TestManagerRevokeRefreshRequiresSecret(t *testing.T) {
	store := newMockStore()
	manager := newTestManager(t, store)
	ctx := context.Background()

	issued, err := manager.Generate(ctx, uuid.New())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if err := manager.RevokeRefresh(ctx, issued.AccessID+".wrong"); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected invalid token for a wrong secret, got %v", err)
	}
	if ok, _ := manager.HasSession(ctx, issued.AccessID); !ok {
		t.Fatal("session must survive a wrong secret")
	}

	if err := manager.RevokeRefresh(ctx, issued.RefreshToken); err != nil {
		t.Fatalf("revoke refresh: %v", err)
	}
	if ok, _ := manager.HasSession(ctx, issued.AccessID); ok {
		t.Fatal("expected session to be gone")
	}
}

func TestNewManagerValidatesTTL(t *testing.T) {
	if _, err := NewManager(nil, config.JWTConfig{}); err == nil {
		t.Fatal("expected nil store to fail")
	}
	if _, err := NewManager(newMockStore(), config.JWTConfig{ExpirationMinutes: 60, RefreshTokenTTLMinutes: 30}); err == nil {
		t.Fatal("expected refresh ttl shorter than access ttl to fail")
	}
}

func TestSplitRefreshToken(t *testing.T) {
	if _, _, ok := SplitRefreshToken("no-separator"); ok {
		t.Fatal("expected missing separator to fail")
	}
	if _, _, ok := SplitRefreshToken(".secret"); ok {
		t.Fatal("expected empty access id to fail")
	}
	id, secret, ok := SplitRefreshToken("abc.def")
	if !ok || id != "abc" || secret != "def" {
		t.Fatalf("unexpected split %q %q %v", id, secret, ok)
	}
}
