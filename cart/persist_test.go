package cart

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, ttl), mr
}

func testPersister(t *testing.T, p Persister) {
	ctx := context.Background()

	_, err := p.Load(ctx, "abc")
	assert.ErrorIs(t, err, ErrNoState)

	require.NoError(t, p.Save(ctx, "abc", []byte(`[]`)))
	require.NoError(t, p.Save(ctx, "abc", []byte(`[{"productId":"p1"}]`)))
	got, err := p.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, `[{"productId":"p1"}]`, string(got))

	require.NoError(t, p.Delete(ctx, "abc"))
	require.NoError(t, p.Delete(ctx, "abc"))
	_, err = p.Load(ctx, "abc")
	assert.ErrorIs(t, err, ErrNoState)
}

func TestMemoryStore(t *testing.T) {
	testPersister(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	require.NoError(t, err)
	testPersister(t, fs)

	require.NoError(t, fs.Save(context.Background(), "../escape", []byte("[]")))
	_, err = os.Stat(filepath.Join(dir, "___escape.json"))
	assert.NoError(t, err)
}

func TestRedisStore(t *testing.T) {
	store, _ := setupTestRedis(t, time.Hour)
	testPersister(t, store)
}

func TestRedisStore_KeyAndTTL(t *testing.T) {
	store, mr := setupTestRedis(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "c1", []byte(`[]`)))
	assert.True(t, mr.Exists("cart:c1"))
	assert.Equal(t, time.Hour, mr.TTL("cart:c1"))

	mr.FastForward(2 * time.Hour)
	_, err := store.Load(ctx, "c1")
	assert.ErrorIs(t, err, ErrNoState)
}

func TestRedisStore_EngineRoundTrip(t *testing.T) {
	store, _ := setupTestRedis(t, time.Hour)
	ctx := context.Background()

	e := Open(ctx, "c2", store, nil)
	require.NoError(t, e.Add(ctx, mustItem(t, muskAttar(), "12ml")))
	assert.Equal(t, e.Items(), Open(ctx, "c2", store, nil).Items())
}

func TestRedisStore_ServerDown(t *testing.T) {
	store, mr := setupTestRedis(t, time.Hour)
	mr.Close()

	e := Open(context.Background(), "c3", store, nil)
	assert.Empty(t, e.Items())
}
