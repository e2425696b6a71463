package prefsRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"zenflow/utils"

	"github.com/go-redis/redis/v8"
)

// Store remembers small per-session preferences. Today that is one value:
// the email last used at checkout, prefilled on the next visit.
type Store interface {
	SaveEmail(ctx context.Context, sessionID, email string) error
	LastEmail(ctx context.Context, sessionID string) (string, error)
}

// RedisStore keeps preferences in Redis under a fixed key per session.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore returns a preference store on the given client; a nil
// client falls back to the shared prefs client.
func NewRedisStore(client *redis.Client) *RedisStore {
	if client == nil {
		client = utils.GetPrefsClient()
	}
	return &RedisStore{client: client}
}

func emailKey(sessionID string) string {
	return utils.PrefsEmailPrefix + sessionID
}

// SaveEmail stores the last-used email for the session.
func (s *RedisStore) SaveEmail(ctx context.Context, sessionID, email string) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.client.Set(ctx, emailKey(sessionID), email, 0).Err(); err != nil {
		return fmt.Errorf("failed to save email preference: %w", err)
	}
	return nil
}

// LastEmail returns the saved email, or "" when none was ever stored.
func (s *RedisStore) LastEmail(ctx context.Context, sessionID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	email, err := s.client.Get(ctx, emailKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load email preference: %w", err)
	}
	return email, nil
}
