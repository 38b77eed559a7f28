package repository_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Guyuepp/tweetfeed/domain"
	"github.com/Guyuepp/tweetfeed/internal/repository"
	mysqlRepo "github.com/Guyuepp/tweetfeed/internal/repository/mysql"
	myRedisCache "github.com/Guyuepp/tweetfeed/internal/repository/redis"
	"github.com/Guyuepp/tweetfeed/internal/workers"
)

type fixture struct {
	db    domain.TweetDBRepository
	likes domain.LikeAggregateRepository
	cache domain.TweetCache
	repo  domain.TweetRepository
	mr    *miniredis.Miniredis
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, mysqlRepo.Migrate(gdb))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	f := &fixture{
		db:    mysqlRepo.NewTweetDBRepository(gdb),
		likes: mysqlRepo.NewLikeAggregateRepository(gdb),
		cache: myRedisCache.NewTweetCache(client, "", ""),
		mr:    mr,
	}
	f.repo = repository.NewTweetRepository(f.db, f.cache)
	return f
}

func TestTweetRepository_WriteThroughAndLikes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tw := domain.Tweet{Content: "Hello", Account: domain.Account{ID: 1}}
	require.NoError(t, f.repo.Store(ctx, &tw))

	cached, ok := f.cache.Get(ctx, tw.ID)
	require.True(t, ok)
	assert.Equal(t, "Hello", cached.Content)

	got, err := f.repo.GetByID(ctx, tw.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.Content)

	b := workers.NewLikeBatcher(f.likes, time.Hour, workers.WithLikeCountSink(f.cache))
	for range 3 {
		b.AddLike(tw.ID)
	}
	assert.Equal(t, int64(3), b.Pending(tw.ID))
	require.NoError(t, b.Flush(ctx))

	n, ok, err := f.likes.GetLikeAggregate(ctx, tw.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(3), n)

	got, err = f.repo.GetByID(ctx, tw.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.LikeCount)

	f.cache.Invalidate(ctx, tw.ID)
	_, ok = f.cache.Get(ctx, tw.ID)
	assert.False(t, ok)

	// 缓存失效后从数据库重建
	got, err = f.repo.GetByID(ctx, tw.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.LikeCount)
	_, ok = f.cache.Get(ctx, tw.ID)
	assert.True(t, ok)
}

func TestTweetRepository_UpdateOverwritesCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tw := domain.Tweet{Content: "before", Account: domain.Account{ID: 1}}
	require.NoError(t, f.repo.Store(ctx, &tw))

	tw.Content = "after"
	tw.UpdatedAt = time.Now()
	require.NoError(t, f.repo.Update(ctx, &tw))

	cached, ok := f.cache.Get(ctx, tw.ID)
	require.True(t, ok)
	assert.Equal(t, "after", cached.Content)

	missing := domain.Tweet{ID: 999, Content: "x", UpdatedAt: time.Now()}
	assert.ErrorIs(t, f.repo.Update(ctx, &missing), domain.ErrNotFound)
	_, ok = f.cache.Get(ctx, 999)
	assert.False(t, ok)
}

func TestTweetRepository_Delete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tw := domain.Tweet{Content: "bye", Account: domain.Account{ID: 1}}
	require.NoError(t, f.repo.Store(ctx, &tw))
	require.NoError(t, f.repo.Delete(ctx, tw.ID))

	_, ok := f.cache.Get(ctx, tw.ID)
	assert.False(t, ok)
	_, err := f.repo.GetByID(ctx, tw.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// 数据库已无记录时仍清理残留缓存
	stale := domain.Tweet{ID: 77, Content: "stale", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	f.cache.Put(ctx, &stale)
	assert.ErrorIs(t, f.repo.Delete(ctx, 77), domain.ErrNotFound)
	_, ok = f.cache.Get(ctx, 77)
	assert.False(t, ok)
}

func seedTweets(t *testing.T, f *fixture, n int) []int64 {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	// 直接写库，模拟冷缓存
	ids := make([]int64, n)
	for i := range n {
		tw := domain.Tweet{
			Content:   fmt.Sprintf("tweet %d", i+1),
			Account:   domain.Account{ID: 1},
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, f.db.Store(ctx, &tw))
		ids[i] = tw.ID
	}
	return ids
}

func tweetIDs(tweets []domain.Tweet) []int64 {
	res := make([]int64, len(tweets))
	for i := range tweets {
		res[i] = tweets[i].ID
	}
	return res
}

func TestTweetRepository_Fetch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedTweets(t, f, 5)
	assert.Empty(t, f.cache.Recent(ctx, 0, 3))

	res, err := f.repo.Fetch(ctx, 0, 3)
	require.NoError(t, err)
	require.Len(t, res, 3)
	assert.Equal(t, int64(5), res[0].ID)

	// 结果回填到缓存
	cached := f.cache.Recent(ctx, 0, 3)
	assert.Equal(t, []int64{5, 4, 3}, tweetIDs(cached))

	require.NoError(t, f.repo.WarmRecent(ctx))

	// 索引中的条目丢失时回退到数据库
	f.mr.Del("tweet:4")
	res, err = f.repo.Fetch(ctx, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 4, 3}, tweetIDs(res))
}

func TestTweetRepository_FetchIgnoresPartialIndex(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ids := seedTweets(t, f, 5)

	// 读穿透只把零散的推文放进索引
	_, err := f.repo.GetByID(ctx, ids[0])
	require.NoError(t, err)
	_, err = f.repo.GetByID(ctx, ids[4])
	require.NoError(t, err)
	require.Len(t, f.cache.Recent(ctx, 0, 2), 2)

	res, err := f.repo.Fetch(ctx, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 4}, tweetIDs(res))

	res, err = f.repo.Fetch(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 3}, tweetIDs(res))
}

func TestTweetRepository_WarmRecent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedTweets(t, f, 5)

	db := &countingDB{TweetDBRepository: f.db}
	repo := repository.NewTweetRepository(db, f.cache)

	require.False(t, f.cache.RecentReady(ctx))
	require.NoError(t, repo.WarmRecent(ctx))
	assert.True(t, f.cache.RecentReady(ctx))
	assert.Equal(t, []int64{5, 4, 3, 2, 1}, tweetIDs(f.cache.Recent(ctx, 0, 10)))

	res, err := repo.Fetch(ctx, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 3, 2}, tweetIDs(res))
	assert.Zero(t, db.fetches.Load())

	// 末页不足 limit 时以数据库为准
	res, err = repo.Fetch(ctx, 3, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1}, tweetIDs(res))
	assert.Equal(t, int64(1), db.fetches.Load())
}

func TestTweetRepository_WarmRecentAfterFlush(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ids := seedTweets(t, f, 3)
	require.NoError(t, f.repo.WarmRecent(ctx))

	f.mr.FlushAll()
	assert.False(t, f.cache.RecentReady(ctx))

	// 清库后的读穿透不会让残缺索引被当作完整结果
	_, err := f.repo.GetByID(ctx, ids[0])
	require.NoError(t, err)
	res, err := f.repo.Fetch(ctx, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{ids[2]}, tweetIDs(res))

	require.NoError(t, f.repo.WarmRecent(ctx))
	assert.True(t, f.cache.RecentReady(ctx))
	assert.Len(t, f.cache.Recent(ctx, 0, 10), 3)
}

func TestTweetRepository_WarmRecentEmpty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.repo.WarmRecent(ctx))
	assert.True(t, f.cache.RecentReady(ctx))

	res, err := f.repo.Fetch(ctx, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, res)
}

// rebuildingLikeStore 在提交之后、回写缓存之前让缓存从数据库重建
type rebuildingLikeStore struct {
	domain.LikeAggregateRepository
	afterCommit func()
}

func (s *rebuildingLikeStore) ApplyLikeDeltas(ctx context.Context, deltas map[int64]int64) (map[int64]int64, error) {
	totals, err := s.LikeAggregateRepository.ApplyLikeDeltas(ctx, deltas)
	if err == nil {
		s.afterCommit()
	}
	return totals, err
}

func TestTweetRepository_FlushAfterReadThroughCountsOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tw := domain.Tweet{Content: "Hello", Account: domain.Account{ID: 1}}
	require.NoError(t, f.repo.Store(ctx, &tw))

	store := &rebuildingLikeStore{
		LikeAggregateRepository: f.likes,
		afterCommit: func() {
			f.cache.Invalidate(ctx, tw.ID)
			_, err := f.repo.GetByID(ctx, tw.ID)
			require.NoError(t, err)
		},
	}
	b := workers.NewLikeBatcher(store, time.Hour, workers.WithLikeCountSink(f.cache))
	for range 3 {
		b.AddLike(tw.ID)
	}
	require.NoError(t, b.Flush(ctx))

	n, _, err := f.likes.GetLikeAggregate(ctx, tw.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	cached, ok := f.cache.Get(ctx, tw.ID)
	require.True(t, ok)
	assert.Equal(t, int64(3), cached.LikeCount)
}

// countingDB 统计数据库读取次数
type countingDB struct {
	domain.TweetDBRepository
	gets    atomic.Int64
	fetches atomic.Int64
}

func (c *countingDB) Fetch(ctx context.Context, skip, limit int64) ([]domain.Tweet, error) {
	c.fetches.Add(1)
	return c.TweetDBRepository.Fetch(ctx, skip, limit)
}

func (c *countingDB) GetByID(ctx context.Context, id int64) (domain.Tweet, error) {
	c.gets.Add(1)
	time.Sleep(20 * time.Millisecond)
	return c.TweetDBRepository.GetByID(ctx, id)
}

func TestTweetRepository_GetByIDCoalescesMisses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tw := domain.Tweet{Content: "hot", Account: domain.Account{ID: 1}}
	require.NoError(t, f.db.Store(ctx, &tw))

	db := &countingDB{TweetDBRepository: f.db}
	repo := repository.NewTweetRepository(db, f.cache)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := repo.GetByID(ctx, tw.ID)
			assert.NoError(t, err)
			assert.Equal(t, "hot", got.Content)
		}()
	}
	wg.Wait()

	assert.Less(t, db.gets.Load(), int64(10))
}

func TestTweetRepository_CacheDown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tw := domain.Tweet{Content: "durable", Account: domain.Account{ID: 1}}
	require.NoError(t, f.db.Store(ctx, &tw))
	f.mr.Close()

	got, err := f.repo.GetByID(ctx, tw.ID)
	require.NoError(t, err)
	assert.Equal(t, "durable", got.Content)

	res, err := f.repo.Fetch(ctx, 0, 10)
	require.NoError(t, err)
	assert.Len(t, res, 1)

	other := domain.Tweet{Content: "still works", Account: domain.Account{ID: 1}}
	require.NoError(t, f.repo.Store(ctx, &other))
}

func TestPageVerify(t *testing.T) {
	cases := []struct {
		skip, limit         int64
		wantSkip, wantLimit int64
	}{
		{0, 0, 0, repository.DefaultPageLimit},
		{-5, 10, 0, 10},
		{3, 1000, 3, repository.MaxPageLimit},
		{2, -1, 2, repository.DefaultPageLimit},
	}
	for _, c := range cases {
		skip, limit := c.skip, c.limit
		repository.PageVerify(&skip, &limit)
		assert.Equal(t, c.wantSkip, skip)
		assert.Equal(t, c.wantLimit, limit)
	}
}
