package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Guyuepp/tweetfeed/domain"
	"github.com/Guyuepp/tweetfeed/internal/repository"
	"github.com/Guyuepp/tweetfeed/internal/repository/mysql/model"
)

type tweetRepository struct {
	DB *gorm.DB
}

// mysql层只负责数据库操作
var _ domain.TweetDBRepository = (*tweetRepository)(nil)

// NewTweetDBRepository 创建数据库操作层
func NewTweetDBRepository(db *gorm.DB) *tweetRepository {
	return &tweetRepository{db}
}

func (m *tweetRepository) Fetch(ctx context.Context, skip, limit int64) ([]domain.Tweet, error) {
	repository.PageVerify(&skip, &limit)

	var tweets []model.Tweet
	err := m.DB.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Offset(int(skip)).
		Limit(int(limit)).
		Find(&tweets).Error
	if err != nil {
		return nil, fmt.Errorf("fetch tweets: %w", err)
	}

	res := make([]domain.Tweet, len(tweets))
	for i := range tweets {
		res[i] = tweets[i].ToDomain()
	}
	if err := m.fillLikeCounts(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (m *tweetRepository) GetByID(ctx context.Context, id int64) (domain.Tweet, error) {
	var tweet model.Tweet
	err := m.DB.WithContext(ctx).First(&tweet, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Tweet{}, domain.ErrNotFound
	} else if err != nil {
		return domain.Tweet{}, fmt.Errorf("get tweet %d: %w", id, err)
	}

	res := []domain.Tweet{tweet.ToDomain()}
	if err := m.fillLikeCounts(ctx, res); err != nil {
		return domain.Tweet{}, err
	}
	return res[0], nil
}

func (m *tweetRepository) Store(ctx context.Context, t *domain.Tweet) error {
	tweetModel := model.NewTweetFromDomain(t)
	if err := m.DB.WithContext(ctx).Create(tweetModel).Error; err != nil {
		return fmt.Errorf("store tweet: %w", err)
	}
	t.ID = tweetModel.ID
	t.CreatedAt = tweetModel.CreatedAt
	t.UpdatedAt = tweetModel.UpdatedAt
	return nil
}

func (m *tweetRepository) Update(ctx context.Context, t *domain.Tweet) error {
	result := m.DB.WithContext(ctx).
		Model(&model.Tweet{}).
		Where("id = ?", t.ID).
		Updates(map[string]any{
			"content":    t.Content,
			"updated_at": t.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("update tweet %d: %w", t.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *tweetRepository) Delete(ctx context.Context, id int64) error {
	return m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tweet_id = ?", id).Delete(&model.LikeAggregate{}).Error; err != nil {
			return fmt.Errorf("delete like aggregate %d: %w", id, err)
		}

		result := tx.Delete(&model.Tweet{}, id)
		if result.Error != nil {
			return fmt.Errorf("delete tweet %d: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (m *tweetRepository) FetchIDs(ctx context.Context, cursor, limit int64) (ids []int64, err error) {
	err = m.DB.WithContext(ctx).
		Model(&model.Tweet{}).
		Where("id > ?", cursor).
		Order("id").
		Limit(int(limit)).
		Pluck("id", &ids).Error
	return
}

func (m *tweetRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Tweet, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var tweets []model.Tweet
	if err := m.DB.WithContext(ctx).Where("id IN ?", ids).Find(&tweets).Error; err != nil {
		return nil, fmt.Errorf("get tweets: %w", err)
	}

	res := make([]domain.Tweet, len(tweets))
	for i := range tweets {
		res[i] = tweets[i].ToDomain()
	}
	if err := m.fillLikeCounts(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

// fillLikeCounts 从 like_aggregates 批量填充点赞数
func (m *tweetRepository) fillLikeCounts(ctx context.Context, tweets []domain.Tweet) error {
	if len(tweets) == 0 {
		return nil
	}

	ids := make([]int64, len(tweets))
	for i := range tweets {
		ids[i] = tweets[i].ID
	}

	var rows []model.LikeAggregate
	if err := m.DB.WithContext(ctx).Where("tweet_id IN ?", ids).Find(&rows).Error; err != nil {
		return fmt.Errorf("fetch like aggregates: %w", err)
	}

	counts := make(map[int64]int64, len(rows))
	for _, row := range rows {
		counts[row.TweetID] = row.LikeCount
	}
	for i := range tweets {
		tweets[i].LikeCount = counts[tweets[i].ID]
	}
	return nil
}
