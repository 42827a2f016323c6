package shared

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/gestio-erp/gestio-erp/testing"
)

func newPrefStore(t *testing.T) *RedisPreferenceStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisPreferenceStore(client, time.Hour)
}

func TestPreferenceRoundTrip(t *testing.T) {
	store := newPrefStore(t)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "u1", "theme")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "u1", "theme", "dark"))

	value, ok, err := store.Get(ctx, "u1", "theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", value)
}

func TestPreferencesScopedPerUser(t *testing.T) {
	store := newPrefStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "u1", "theme", "dark"))

	_, ok, err := store.Get(ctx, "u2", "theme")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRememberCompanyRoundTrip(t *testing.T) {
	store := newPrefStore(t)
	ctx := context.Background()

	id, err := SelectedCompany(ctx, store, "u1")
	require.NoError(t, err)
	assert.Zero(t, id)

	require.NoError(t, RememberCompany(ctx, store, "u1", 42))

	id, err = SelectedCompany(ctx, store, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestSelectedCompanyIgnoresGarbage(t *testing.T) {
	store := newPrefStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "u1", "selected_company", "not-a-number"))

	id, err := SelectedCompany(ctx, store, "u1")
	require.NoError(t, err)
	assert.Zero(t, id)
}
