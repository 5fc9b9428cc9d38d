package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenRevocations tracks bearer tokens revoked before their natural
// expiry, keyed by JTI. The identity provider writes revocations on
// logout; this service only reads them during request authentication.
type TokenRevocations interface {
	// Revoke marks a token id as revoked for the remainder of its life.
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	// IsRevoked reports whether a token id has been revoked.
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

const revocationKeyPrefix = "auth:revoked:"

// RedisTokenRevocations stores revoked token ids in Redis with a TTL
// matching the token's remaining lifetime, so entries expire with the
// tokens they shadow.
type RedisTokenRevocations struct {
	client *redis.Client
}

func NewRedisTokenRevocations(client *redis.Client) *RedisTokenRevocations {
	return &RedisTokenRevocations{client: client}
}

func (r *RedisTokenRevocations) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, revocationKeyPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (r *RedisTokenRevocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, revocationKeyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("check token revocation: %w", err)
	}
	return n > 0, nil
}

var _ TokenRevocations = (*RedisTokenRevocations)(nil)

// InMemoryTokenRevocations backs single-instance deployments and tests.
type InMemoryTokenRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewInMemoryTokenRevocations() *InMemoryTokenRevocations {
	return &InMemoryTokenRevocations{revoked: make(map[string]time.Time)}
}

func (r *InMemoryTokenRevocations) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[jti] = time.Now().Add(ttl)
	return nil
}

func (r *InMemoryTokenRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	expiry, ok := r.revoked[jti]
	if !ok {
		return false, nil
	}
	if time.Now().After(expiry) {
		delete(r.revoked, jti)
		return false, nil
	}
	return true, nil
}

var _ TokenRevocations = (*InMemoryTokenRevocations)(nil)
