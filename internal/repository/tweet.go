package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/Guyuepp/tweetfeed/domain"
)

// tweetRepository 协调层，协调缓存和数据库
//
// Cache writes always happen after the durable write has committed, so the
// cache never exposes a tweet that does not exist in the store.
type tweetRepository struct {
	db           domain.TweetDBRepository
	cache        domain.TweetCache
	rebuildGroup singleflight.Group
}

var _ domain.TweetRepository = (*tweetRepository)(nil)

// NewTweetRepository 创建协调层repository
func NewTweetRepository(db domain.TweetDBRepository, cache domain.TweetCache) *tweetRepository {
	return &tweetRepository{
		db:    db,
		cache: cache,
	}
}

// Fetch 获取最新推文列表，优先读缓存索引
func (r *tweetRepository) Fetch(ctx context.Context, skip, limit int64) ([]domain.Tweet, error) {
	PageVerify(&skip, &limit)

	// 索引预热完成前只含零散的读穿透条目，分页结果不可信
	if r.cache.RecentReady(ctx) {
		cached := r.cache.Recent(ctx, skip, limit)
		if int64(len(cached)) == limit {
			return cached, nil
		}
	}

	// 索引未就绪、条目缺失或已到末页，以数据库为准并回填缓存
	tweets, err := r.db.Fetch(ctx, skip, limit)
	if err != nil {
		return nil, err
	}
	for i := range tweets {
		r.cache.Put(ctx, &tweets[i])
	}
	return tweets, nil
}

// GetByID 读穿透：缓存未命中时使用singleflight合并并发的数据库读取
func (r *tweetRepository) GetByID(ctx context.Context, id int64) (domain.Tweet, error) {
	if tweet, ok := r.cache.Get(ctx, id); ok {
		return tweet, nil
	}

	key := "tweet:" + strconv.FormatInt(id, 10)
	result, err, _ := r.rebuildGroup.Do(key, func() (any, error) {
		tweet, err := r.db.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		r.cache.Put(ctx, &tweet)
		return tweet, nil
	})
	if err != nil {
		return domain.Tweet{}, err
	}
	return result.(domain.Tweet), nil
}

// Store 先写数据库，再写缓存
func (r *tweetRepository) Store(ctx context.Context, t *domain.Tweet) error {
	if err := r.db.Store(ctx, t); err != nil {
		return err
	}
	r.cache.Put(ctx, t)
	return nil
}

// Update 先更新数据库，再覆盖缓存
func (r *tweetRepository) Update(ctx context.Context, t *domain.Tweet) error {
	if err := r.db.Update(ctx, t); err != nil {
		return err
	}
	r.cache.Put(ctx, t)
	return nil
}

// Delete 先删除数据库记录，再失效缓存
func (r *tweetRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.Delete(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	// 数据库中已不存在时也清理缓存，避免残留
	r.cache.Invalidate(ctx, id)
	return err
}

func (r *tweetRepository) FetchIDs(ctx context.Context, cursor, limit int64) ([]int64, error) {
	return r.db.FetchIDs(ctx, cursor, limit)
}

// warmBatchSize 预热时每批从数据库读取的推文数
const warmBatchSize = 1000

// WarmRecent 从数据库分批重建最新推文索引，全部写入后才标记就绪
func (r *tweetRepository) WarmRecent(ctx context.Context) error {
	_, err, _ := r.rebuildGroup.Do("recent:warm", func() (any, error) {
		var (
			cursor int64
			total  int
		)
		for {
			ids, err := r.db.FetchIDs(ctx, cursor, warmBatchSize)
			if err != nil {
				return nil, err
			}
			if len(ids) == 0 {
				break
			}

			tweets, err := r.db.GetByIDs(ctx, ids)
			if err != nil {
				return nil, err
			}
			for i := range tweets {
				r.cache.Put(ctx, &tweets[i])
			}
			total += len(tweets)
			cursor = ids[len(ids)-1]
		}

		r.cache.MarkRecentReady(ctx)
		logrus.WithField("tweets", total).Info("recent feed index warmed")
		return nil, nil
	})
	return err
}
