package shared

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// PreferenceStore persists small per-user settings by key. The company
// selection goes through here instead of a process-wide binding, so nothing
// below the handlers reads ambient state.
type PreferenceStore interface {
	Get(ctx context.Context, userID, key string) (string, bool, error)
	Set(ctx context.Context, userID, key, value string) error
}

const prefCompanyKey = "selected_company"

// RedisPreferenceStore keeps preferences in Redis with a sliding TTL.
type RedisPreferenceStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisPreferenceStore(client *redis.Client, ttl time.Duration) *RedisPreferenceStore {
	return &RedisPreferenceStore{client: client, ttl: ttl}
}

func (s *RedisPreferenceStore) Get(ctx context.Context, userID, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, prefKey(userID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("prefs: get: %w", err)
	}
	return value, true, nil
}

func (s *RedisPreferenceStore) Set(ctx context.Context, userID, key, value string) error {
	if err := s.client.Set(ctx, prefKey(userID, key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("prefs: set: %w", err)
	}
	return nil
}

func prefKey(userID, key string) string {
	return "prefs:" + userID + ":" + key
}

// SelectedCompany reads the user's last company selection, zero when unset.
func SelectedCompany(ctx context.Context, store PreferenceStore, userID string) (int64, error) {
	raw, ok, err := store.Get(ctx, userID, prefCompanyKey)
	if err != nil || !ok {
		return 0, err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, nil
	}
	return id, nil
}

// RememberCompany stores the user's company selection.
func RememberCompany(ctx context.Context, store PreferenceStore, userID string, companyID int64) error {
	return store.Set(ctx, userID, prefCompanyKey, strconv.FormatInt(companyID, 10))
}
