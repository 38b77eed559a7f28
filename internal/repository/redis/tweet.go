package redis

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/tweetfeed/domain"
)

const (
	DefaultKeyPrefix   = "tweet"
	DefaultRecentIndex = "tweets:recent"
)

// hash fields of a cached tweet entry
const (
	fieldID        = "id"
	fieldContent   = "content"
	fieldCreatedAt = "created_at"
	fieldUpdatedAt = "updated_at"
	fieldAccountID = "account_id"
	fieldLikeCount = "like_count"
)

// readySuffix marks the recent-feed index as complete
const readySuffix = ":ready"

// KEYS = 缓存条目, ARGV = 数据库中已提交的总数；只更新已存在的条目
var setLikeCountsScript = redis.NewScript(`
	for i, key in ipairs(KEYS) do
		if redis.call('EXISTS', key) == 1 then
			redis.call('HSET', key, 'like_count', ARGV[i])
		end
	end
	return 1
`)

type tweetCache struct {
	client      *redis.Client
	keyPrefix   string
	recentIndex string
}

var _ domain.TweetCache = (*tweetCache)(nil)

// NewTweetCache stores entries as hashes under "{keyPrefix}:{id}" and keeps the
// recent-feed sorted set under recentIndex. Empty names fall back to the defaults.
func NewTweetCache(client *redis.Client, keyPrefix, recentIndex string) *tweetCache {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	if recentIndex == "" {
		recentIndex = DefaultRecentIndex
	}
	return &tweetCache{
		client:      client,
		keyPrefix:   keyPrefix,
		recentIndex: recentIndex,
	}
}

func (c *tweetCache) key(id int64) string {
	return fmt.Sprintf("%s:%d", c.keyPrefix, id)
}

func (c *tweetCache) readyKey() string {
	return c.recentIndex + readySuffix
}

// recentScore is the creation time in epoch seconds with millisecond resolution,
// so ties are as rare as they are in the durable store.
func recentScore(t *domain.Tweet) float64 {
	return float64(t.CreatedAt.UnixMilli()) / 1000
}

func (c *tweetCache) Get(ctx context.Context, id int64) (domain.Tweet, bool) {
	key := c.key(id)
	data, err := c.client.HGetAll(ctx, key).Result()
	if err != nil {
		logrus.WithField("key", key).Warnf("tweet cache get failed, treated as miss: %v", err)
		return domain.Tweet{}, false
	}
	if len(data) == 0 {
		return domain.Tweet{}, false
	}

	tweet, err := decodeTweet(data)
	if err != nil {
		logrus.WithField("key", key).Warnf("corrupted tweet cache entry, treated as miss: %v", err)
		return domain.Tweet{}, false
	}
	return tweet, true
}

// Put 先写hash，成功后再加入索引，保证索引不会先于条目出现
// 任一步失败时索引不再完整，撤销 ready 标记
func (c *tweetCache) Put(ctx context.Context, t *domain.Tweet) {
	key := c.key(t.ID)
	if err := c.client.HSet(ctx, key, encodeTweet(t)...).Err(); err != nil {
		logrus.WithField("key", key).Errorf("failed to set tweet cache: %v", err)
		c.unmarkRecentReady(ctx)
		return
	}

	err := c.client.ZAdd(ctx, c.recentIndex, redis.Z{
		Score:  recentScore(t),
		Member: key,
	}).Err()
	if err != nil {
		logrus.WithField("key", key).Errorf("failed to index tweet in %s: %v", c.recentIndex, err)
		c.unmarkRecentReady(ctx)
	}
}

func (c *tweetCache) RecentReady(ctx context.Context) bool {
	n, err := c.client.Exists(ctx, c.readyKey()).Result()
	if err != nil {
		logrus.Warnf("failed to check %s: %v", c.readyKey(), err)
		return false
	}
	return n == 1
}

func (c *tweetCache) MarkRecentReady(ctx context.Context) {
	if err := c.client.Set(ctx, c.readyKey(), 1, 0).Err(); err != nil {
		logrus.Errorf("failed to mark %s ready: %v", c.recentIndex, err)
	}
}

func (c *tweetCache) unmarkRecentReady(ctx context.Context) {
	if err := c.client.Del(ctx, c.readyKey()).Err(); err != nil {
		logrus.Warnf("failed to clear %s: %v", c.readyKey(), err)
	}
}

func (c *tweetCache) Invalidate(ctx context.Context, id int64) {
	key := c.key(id)
	if err := c.client.Del(ctx, key).Err(); err != nil {
		logrus.WithField("key", key).Errorf("failed to delete tweet cache: %v", err)
	}
	if err := c.client.ZRem(ctx, c.recentIndex, key).Err(); err != nil {
		logrus.WithField("key", key).Errorf("failed to remove tweet from %s: %v", c.recentIndex, err)
	}
}

func (c *tweetCache) Recent(ctx context.Context, skip, limit int64) []domain.Tweet {
	if skip < 0 || limit <= 0 {
		return nil
	}

	keys, err := c.client.ZRevRange(ctx, c.recentIndex, skip, skip+limit-1).Result()
	if err != nil {
		logrus.Warnf("failed to range %s: %v", c.recentIndex, err)
		return nil
	}
	if len(keys) == 0 {
		return nil
	}

	cmds, err := c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, key := range keys {
			pipe.HGetAll(ctx, key)
		}
		return nil
	})
	if err != nil {
		logrus.Warnf("failed to load recent tweets: %v", err)
		return nil
	}

	res := make([]domain.Tweet, 0, len(cmds))
	for i, cmd := range cmds {
		data, err := cmd.(*redis.MapStringStringCmd).Result()
		if err != nil || len(data) == 0 {
			// 索引与条目不一致，跳过
			continue
		}
		tweet, err := decodeTweet(data)
		if err != nil {
			logrus.WithField("key", keys[i]).Warnf("corrupted tweet cache entry skipped: %v", err)
			continue
		}
		res = append(res, tweet)
	}
	return res
}

// SetLikeCounts 用已提交的总数覆盖缓存，重复调用或与读穿透交错都不会重复计数
func (c *tweetCache) SetLikeCounts(ctx context.Context, totals map[int64]int64) {
	if len(totals) == 0 {
		return
	}

	ids := slices.Sorted(maps.Keys(totals))
	keys := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		keys[i] = c.key(id)
		args[i] = totals[id]
	}

	if err := setLikeCountsScript.Run(ctx, c.client, keys, args...).Err(); err != nil {
		logrus.Warnf("failed to set like counts in tweet cache: %v", err)
	}
}

// encodeTweet 按固定顺序展开字段，便于 HSET 一次写入
func encodeTweet(t *domain.Tweet) []any {
	return []any{
		fieldID, strconv.FormatInt(t.ID, 10),
		fieldContent, t.Content,
		fieldCreatedAt, t.CreatedAt.UTC().Format(time.RFC3339Nano),
		fieldUpdatedAt, t.UpdatedAt.UTC().Format(time.RFC3339Nano),
		fieldAccountID, strconv.FormatInt(t.Account.ID, 10),
		fieldLikeCount, strconv.FormatInt(t.LikeCount, 10),
	}
}

func decodeTweet(data map[string]string) (domain.Tweet, error) {
	var (
		t   domain.Tweet
		err error
	)
	if t.ID, err = strconv.ParseInt(data[fieldID], 10, 64); err != nil {
		return domain.Tweet{}, fmt.Errorf("parse %s: %w", fieldID, err)
	}
	if t.Account.ID, err = strconv.ParseInt(data[fieldAccountID], 10, 64); err != nil {
		return domain.Tweet{}, fmt.Errorf("parse %s: %w", fieldAccountID, err)
	}
	if t.CreatedAt, err = time.Parse(time.RFC3339Nano, data[fieldCreatedAt]); err != nil {
		return domain.Tweet{}, fmt.Errorf("parse %s: %w", fieldCreatedAt, err)
	}
	if t.UpdatedAt, err = time.Parse(time.RFC3339Nano, data[fieldUpdatedAt]); err != nil {
		return domain.Tweet{}, fmt.Errorf("parse %s: %w", fieldUpdatedAt, err)
	}
	if likes, ok := data[fieldLikeCount]; ok {
		if t.LikeCount, err = strconv.ParseInt(likes, 10, 64); err != nil {
			return domain.Tweet{}, fmt.Errorf("parse %s: %w", fieldLikeCount, err)
		}
	}
	t.Content = data[fieldContent]
	return t, nil
}
