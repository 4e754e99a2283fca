package session

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/marketplace-backend/pkg/config"
	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

const (
	refreshSecretBytes = 32
	tokenSeparator     = "."
)

var ErrInvalidRefreshToken = errors.New("invalid refresh token")

// Store is the Redis surface the manager needs; *redis.Client satisfies it.
type Store interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	AccessSessionKey(accessID string) string
}

// AccessSessionChecker exposes the read-only surface needed by middleware.
type AccessSessionChecker interface {
	HasSession(ctx context.Context, accessID string) (bool, error)
}

// Issued is a freshly stored session. RefreshToken is "<accessID>.<secret>",
// so the refresh cookie alone identifies the session.
type Issued struct {
	AccessID     string
	RefreshToken string
	UserID       uuid.UUID
}

type record struct {
	UserID uuid.UUID `json:"user_id"`
	Secret string    `json:"secret"`
}

// Manager handles refresh token creation, storage, and rotation.
type Manager struct {
	store Store
	ttl   time.Duration
}

// NewManager constructs a session manager backed by Redis.
func NewManager(store Store, cfg config.JWTConfig) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	ttl := cfg.RefreshTokenTTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("refresh token ttl must be positive")
	}
	accessTTL := time.Duration(cfg.ExpirationMinutes) * time.Minute
	if ttl <= accessTTL {
		return nil, fmt.Errorf("refresh token ttl (%s) must exceed access token ttl (%s)", ttl, accessTTL)
	}
	return &Manager{store: store, ttl: ttl}, nil
}

// TTL is the lifetime of refresh sessions.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Generate opens a session for userID under a new access id.
func (m *Manager) Generate(ctx context.Context, userID uuid.UUID) (Issued, error) {
	if userID == uuid.Nil {
		return Issued{}, fmt.Errorf("user id is required")
	}
	accessID := NewAccessID()
	secret, err := generateSecret()
	if err != nil {
		return Issued{}, err
	}
	if err := m.put(ctx, accessID, record{UserID: userID, Secret: secret}); err != nil {
		return Issued{}, err
	}
	return Issued{AccessID: accessID, RefreshToken: accessID + tokenSeparator + secret, UserID: userID}, nil
}

// Rotate validates the refresh token, invalidates its session, and opens a new one.
func (m *Manager) Rotate(ctx context.Context, refreshToken string) (Issued, error) {
	key, rec, err := m.verify(ctx, refreshToken)
	if err != nil {
		return Issued{}, err
	}

	issued, err := m.Generate(ctx, rec.UserID)
	if err != nil {
		return Issued{}, err
	}
	if err := m.store.Del(ctx, key); err != nil {
		return Issued{}, err
	}
	return issued, nil
}

// RevokeRefresh deletes the session only when refreshToken carries its
// secret; knowing the access id alone is not enough.
func (m *Manager) RevokeRefresh(ctx context.Context, refreshToken string) error {
	key, _, err := m.verify(ctx, refreshToken)
	if err != nil {
		return err
	}
	return m.store.Del(ctx, key)
}

func (m *Manager) verify(ctx context.Context, refreshToken string) (string, record, error) {
	accessID, secret, ok := SplitRefreshToken(refreshToken)
	if !ok {
		return "", record{}, ErrInvalidRefreshToken
	}

	key := m.store.AccessSessionKey(accessID)
	raw, err := m.store.Get(ctx, key)
	if err != nil {
		return "", record{}, wrapNotFound(err)
	}
	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return "", record{}, ErrInvalidRefreshToken
	}
	if subtle.ConstantTimeCompare([]byte(rec.Secret), []byte(secret)) != 1 {
		return "", record{}, ErrInvalidRefreshToken
	}
	return key, rec, nil
}

// Revoke deletes the session tied to the access identifier.
func (m *Manager) Revoke(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return fmt.Errorf("access id is required")
	}
	return m.store.Del(ctx, m.store.AccessSessionKey(accessID))
}

// HasSession reports whether the access ID still has an active refresh session.
func (m *Manager) HasSession(ctx context.Context, accessID string) (bool, error) {
	if strings.TrimSpace(accessID) == "" {
		return false, fmt.Errorf("access id is required")
	}
	if _, err := m.store.Get(ctx, m.store.AccessSessionKey(accessID)); err != nil {
		if errors.Is(err, redislib.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// SplitRefreshToken separates a refresh token into access id and secret.
func SplitRefreshToken(token string) (accessID, secret string, ok bool) {
	accessID, secret, found := strings.Cut(strings.TrimSpace(token), tokenSeparator)
	if !found || accessID == "" || secret == "" {
		return "", "", false
	}
	return accessID, secret, true
}

// NewAccessID produces the identifier used as the JWT jti and Redis key.
func NewAccessID() string {
	return uuid.NewString()
}

func (m *Manager) put(ctx context.Context, accessID string, rec record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	return m.store.Set(ctx, m.store.AccessSessionKey(accessID), string(payload), m.ttl)
}

func generateSecret() (string, error) {
	buf := make([]byte, refreshSecretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func wrapNotFound(err error) error {
	if errors.Is(err, redislib.Nil) {
		return ErrInvalidRefreshToken
	}
	return err
}
