package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedSermon struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

func setupTestCache(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestGetSetJSON(t *testing.T) {
	setupTestCache(t)
	ctx := context.Background()

	found, err := GetJSON(ctx, SermonKey(1), &cachedSermon{})
	require.NoError(t, err)
	assert.False(t, found)

	want := cachedSermon{ID: 1, Title: "Living by Faith Daily"}
	require.NoError(t, SetJSON(ctx, SermonKey(1), want, SermonTTL))

	var got cachedSermon
	found, err = GetJSON(ctx, SermonKey(1), &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)
}

func TestGetSetJSON_NilClient(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	// Without Redis the cache degrades to a no-op.
	found, err := GetJSON(ctx, SermonKey(1), &cachedSermon{})
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, SetJSON(ctx, SermonKey(1), cachedSermon{ID: 1}, time.Minute))
}

func TestAside(t *testing.T) {
	setupTestCache(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *cachedSermon) func() error {
		return func() error {
			fetches++
			*dest = cachedSermon{ID: 7, Title: "Intimacy With The Holy Spirit"}
			return nil
		}
	}

	var first cachedSermon
	require.NoError(t, Aside(ctx, SermonKey(7), &first, SermonTTL, fetch(&first)))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, uint(7), first.ID)

	// Second call must be served from cache.
	var second cachedSermon
	require.NoError(t, Aside(ctx, SermonKey(7), &second, SermonTTL, fetch(&second)))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, first, second)
}

func TestInvalidateSermonLists(t *testing.T) {
	mr := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, SermonListKey("abc"), []cachedSermon{{ID: 1}}, SermonListTTL))
	require.NoError(t, SetJSON(ctx, SermonListKey("def"), []cachedSermon{{ID: 2}}, SermonListTTL))
	require.NoError(t, SetJSON(ctx, UserKey(1), cachedSermon{ID: 1}, UserTTL))

	InvalidateSermonLists(ctx)

	assert.False(t, mr.Exists(SermonListKey("abc")))
	assert.False(t, mr.Exists(SermonListKey("def")))
	assert.True(t, mr.Exists(UserKey(1)))
}
