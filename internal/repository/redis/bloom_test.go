package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBloom(t *testing.T) (*tweetBloomFilter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewTweetBloomFilter(client, 1<<16), mr
}

func TestTweetBloomFilter_AddExists(t *testing.T) {
	bf, _ := newTestBloom(t)
	ctx := context.Background()
	require.NoError(t, bf.MarkReady(ctx))

	ok, err := bf.Exists(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, bf.Add(ctx, 1))

	ok, err = bf.Exists(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTweetBloomFilter_BulkAdd(t *testing.T) {
	bf, _ := newTestBloom(t)
	ctx := context.Background()

	ids := []int64{10, 20, 30, 40}
	require.NoError(t, bf.BulkAdd(ctx, ids))
	require.NoError(t, bf.BulkAdd(ctx, nil))

	for _, id := range ids {
		ok, err := bf.Exists(ctx, id)
		require.NoError(t, err)
		assert.True(t, ok, "id %d", id)
	}
}

func TestTweetBloomFilter_UnreadyFallsThrough(t *testing.T) {
	bf, mr := newTestBloom(t)
	ctx := context.Background()

	// 预热未完成前任何 id 都可能存在
	require.NoError(t, bf.Add(ctx, 1))
	ok, err := bf.Exists(ctx, 404)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, bf.MarkReady(ctx))
	ok, err = bf.Exists(ctx, 404)
	require.NoError(t, err)
	assert.False(t, ok)

	// 清库后位图丢失，不能把已有推文判为不存在
	mr.FlushAll()
	ok, err = bf.Exists(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTweetBloomFilter_Ready(t *testing.T) {
	bf, mr := newTestBloom(t)
	ctx := context.Background()

	ready, err := bf.Ready(ctx)
	require.NoError(t, err)
	assert.False(t, ready)

	require.NoError(t, bf.BulkAdd(ctx, []int64{1, 2}))
	ready, err = bf.Ready(ctx)
	require.NoError(t, err)
	assert.False(t, ready)

	require.NoError(t, bf.MarkReady(ctx))
	ready, err = bf.Ready(ctx)
	require.NoError(t, err)
	assert.True(t, ready)

	// 标记保留但位图被驱逐
	mr.Del(KeyTweetBloom)
	ready, err = bf.Ready(ctx)
	require.NoError(t, err)
	assert.False(t, ready)
}

func TestTweetBloomFilter_MarkReadyEmpty(t *testing.T) {
	bf, _ := newTestBloom(t)
	ctx := context.Background()

	require.NoError(t, bf.MarkReady(ctx))
	ready, err := bf.Ready(ctx)
	require.NoError(t, err)
	assert.True(t, ready)

	ok, err := bf.Exists(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTweetBloomFilter_MarkReadyKeepsBits(t *testing.T) {
	bf, _ := newTestBloom(t)
	ctx := context.Background()

	require.NoError(t, bf.BulkAdd(ctx, []int64{7}))
	require.NoError(t, bf.MarkReady(ctx))

	ok, err := bf.Exists(ctx, 7)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTweetBloomFilter_BackendDown(t *testing.T) {
	bf, mr := newTestBloom(t)
	mr.Close()

	_, err := bf.Exists(context.Background(), 1)
	assert.Error(t, err)
	assert.Error(t, bf.Add(context.Background(), 1))
	_, err = bf.Ready(context.Background())
	assert.Error(t, err)
}

func TestTweetBloomFilter_Offsets(t *testing.T) {
	bf := NewTweetBloomFilter(nil, 1000)

	first := bf.offsets(12345)
	assert.Equal(t, first, bf.offsets(12345))
	for _, o := range first {
		assert.Less(t, o, uint64(1000))
	}

	assert.Equal(t, uint64(1), NewTweetBloomFilter(nil, 0).bitSize)
}
