package credential

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"parlor/internal/auth/models"
	"parlor/pkg/platform/sentinel"
)

const credentialKeyPrefix = "parlor:cred:"

// RedisStore keeps the credential in redis under the browser session id. It moves
// the credential out of process memory; it does not make sessions survive a
// restart, since the registry is in memory. Entries expire with the browser
// session, so orphaned keys age out on their own.
type RedisStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedis constructs a redis-backed credential store for one browser session.
func NewRedis(client *redis.Client, browserSessionID string, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		key:    credentialKeyPrefix + browserSessionID,
		ttl:    ttl,
	}
}

func (s *RedisStore) Get(ctx context.Context) (models.Credential, bool, error) {
	value, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read credential: %w: %w", sentinel.ErrUnavailable, err)
	}
	cred := models.Credential(value)
	if cred.IsZero() {
		return "", false, nil
	}
	return cred, true, nil
}

// Set writes the credential with SET EX so it expires with the session.
func (s *RedisStore) Set(ctx context.Context, cred models.Credential) error {
	if cred.IsZero() {
		return ErrEmptyCredential
	}
	if err := s.client.Set(ctx, s.key, cred.String(), s.ttl).Err(); err != nil {
		return fmt.Errorf("write credential: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("clear credential: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

// Touch extends the credential's expiry when the browser session is active.
func (s *RedisStore) Touch(ctx context.Context) error {
	if err := s.client.Expire(ctx, s.key, s.ttl).Err(); err != nil {
		return fmt.Errorf("touch credential: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}
