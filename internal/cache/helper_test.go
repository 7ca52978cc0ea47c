package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestAside(t *testing.T) {
	setupTestRedis(t)
	ctx := context.Background()

	type payload struct {
		Value string `json:"value"`
	}

	fetches := 0
	fetch := func(dest *payload) func() error {
		return func() error {
			fetches++
			dest.Value = "from-db"
			return nil
		}
	}

	var first payload
	require.NoError(t, Aside(ctx, "k", &first, time.Minute, fetch(&first)))
	assert.Equal(t, "from-db", first.Value)
	assert.Equal(t, 1, fetches)

	// Second read is served from the cache, fetch is not invoked again.
	var second payload
	require.NoError(t, Aside(ctx, "k", &second, time.Minute, fetch(&second)))
	assert.Equal(t, "from-db", second.Value)
	assert.Equal(t, 1, fetches)
}

func TestAside_FetchError(t *testing.T) {
	setupTestRedis(t)

	var dest struct{}
	wantErr := errors.New("db down")
	err := Aside(context.Background(), "k", &dest, time.Minute, func() error { return wantErr })
	assert.ErrorIs(t, err, wantErr)
}

func TestAside_NilClientDegradesToFetch(t *testing.T) {
	SetClient(nil)

	fetched := false
	var dest struct{}
	require.NoError(t, Aside(context.Background(), "k", &dest, time.Minute, func() error {
		fetched = true
		return nil
	}))
	assert.True(t, fetched)
}

func TestInvalidatePosts(t *testing.T) {
	mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, FrontPageKey, []int{1, 2, 3}, time.Minute))
	require.NoError(t, SetJSON(ctx, StatsKey, map[string]int{"posts": 3}, time.Minute))

	InvalidatePosts(ctx)

	assert.False(t, mr.Exists(FrontPageKey))
	assert.False(t, mr.Exists(StatsKey))
}
