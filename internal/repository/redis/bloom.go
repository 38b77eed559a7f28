package redis

import (
	"context"
	"fmt"
	"hash/crc32"
	"hash/fnv"

	"github.com/redis/go-redis/v9"

	"github.com/Guyuepp/tweetfeed/domain"
)

const (
	KeyTweetBloom      = "bloom:tweet:ids"
	KeyTweetBloomReady = "bloom:tweet:ids:ready"

	bloomHashes = 3
)

type tweetBloomFilter struct {
	client  *redis.Client
	bitSize uint64
}

var _ domain.BloomRepository = (*tweetBloomFilter)(nil)

func NewTweetBloomFilter(client *redis.Client, bitSize uint64) *tweetBloomFilter {
	if bitSize == 0 {
		bitSize = 1
	}
	return &tweetBloomFilter{
		client:  client,
		bitSize: bitSize,
	}
}

func (f *tweetBloomFilter) Add(ctx context.Context, id int64) error {
	return f.BulkAdd(ctx, []int64{id})
}

func (f *tweetBloomFilter) BulkAdd(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := f.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range ids {
			for _, offset := range f.offsets(id) {
				pipe.SetBit(ctx, KeyTweetBloom, int64(offset), 1)
			}
		}
		return nil
	})
	return err
}

// Exists 过滤器未预热、标记或位图丢失时一律放行
func (f *tweetBloomFilter) Exists(ctx context.Context, id int64) (bool, error) {
	cmds, err := f.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Exists(ctx, KeyTweetBloomReady, KeyTweetBloom)
		for _, offset := range f.offsets(id) {
			pipe.GetBit(ctx, KeyTweetBloom, int64(offset))
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	ready, err := cmds[0].(*redis.IntCmd).Result()
	if err != nil {
		return false, err
	}
	if ready < 2 {
		return true, nil
	}

	for _, cmd := range cmds[1:] {
		bit, err := cmd.(*redis.IntCmd).Result()
		if err != nil {
			return false, err
		}
		if bit == 0 {
			return false, nil
		}
	}
	return true, nil
}

func (f *tweetBloomFilter) Ready(ctx context.Context) (bool, error) {
	n, err := f.client.Exists(ctx, KeyTweetBloomReady, KeyTweetBloom).Result()
	if err != nil {
		return false, err
	}
	return n == 2, nil
}

// MarkReady 空表时位图不存在，APPEND 空串只建 key 不改已有位
func (f *tweetBloomFilter) MarkReady(ctx context.Context) error {
	_, err := f.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Append(ctx, KeyTweetBloom, "")
		pipe.Set(ctx, KeyTweetBloomReady, 1, 0)
		return nil
	})
	return err
}

// offsets: CRC32, FNV-64 以及二者的线性混合
func (f *tweetBloomFilter) offsets(id int64) [bloomHashes]uint64 {
	data := fmt.Appendf(nil, "%d", id)

	var res [bloomHashes]uint64
	res[0] = uint64(crc32.ChecksumIEEE(data)) % f.bitSize

	h := fnv.New64()
	h.Write(data)
	res[1] = h.Sum64() % f.bitSize

	res[2] = (res[0] + res[1] + 0xABC) % f.bitSize
	return res
}
