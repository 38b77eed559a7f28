package mysql

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Guyuepp/tweetfeed/domain"
	"github.com/Guyuepp/tweetfeed/internal/repository/mysql/model"
)

type likeAggregateRepository struct {
	DB *gorm.DB
}

var _ domain.LikeAggregateRepository = (*likeAggregateRepository)(nil)

func NewLikeAggregateRepository(db *gorm.DB) *likeAggregateRepository {
	return &likeAggregateRepository{DB: db}
}

func (m *likeAggregateRepository) GetLikeAggregate(ctx context.Context, tweetID int64) (int64, bool, error) {
	var row model.LikeAggregate
	err := m.DB.WithContext(ctx).First(&row, "tweet_id = ?", tweetID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	} else if err != nil {
		return 0, false, fmt.Errorf("get like aggregate %d: %w", tweetID, err)
	}
	return row.LikeCount, true, nil
}

func (m *likeAggregateRepository) ApplyLikeDeltas(ctx context.Context, deltas map[int64]int64) (map[int64]int64, error) {
	if len(deltas) == 0 {
		return nil, nil
	}

	// 固定顺序加锁，避免多实例并发刷写时死锁
	ids := slices.Sorted(maps.Keys(deltas))

	var totals map[int64]int64
	err := m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var validIDs []int64
		if err := tx.Model(&model.Tweet{}).
			Where("id IN ?", ids).
			Pluck("id", &validIDs).Error; err != nil {
			return fmt.Errorf("check tweets: %w", err)
		}

		valid := make(map[int64]bool, len(validIDs))
		for _, id := range validIDs {
			valid[id] = true
		}

		applied := make([]int64, 0, len(validIDs))
		for _, id := range ids {
			if !valid[id] {
				logrus.WithFields(logrus.Fields{
					"tweet_id": id,
					"likes":    deltas[id],
				}).Warn("dropped orphan likes")
				continue
			}
			if err := upsertLikeAggregate(tx, id, deltas[id]); err != nil {
				return err
			}
			applied = append(applied, id)
		}
		if len(applied) == 0 {
			return nil
		}

		// 行锁仍由本事务持有，读到的就是即将提交的总数
		var rows []model.LikeAggregate
		if err := tx.Where("tweet_id IN ?", applied).Find(&rows).Error; err != nil {
			return fmt.Errorf("read like aggregates: %w", err)
		}
		totals = make(map[int64]int64, len(rows))
		for _, row := range rows {
			totals[row.TweetID] = row.LikeCount
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return totals, nil
}

// upsertLikeAggregate adds n to the aggregate of tweetID, creating it when missing.
func upsertLikeAggregate(tx *gorm.DB, tweetID, n int64) error {
	result := tx.Model(&model.LikeAggregate{}).
		Where("tweet_id = ?", tweetID).
		Update("like_count", gorm.Expr("like_count + ?", n))
	if result.Error != nil {
		return fmt.Errorf("increment like aggregate %d: %w", tweetID, result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	if err := tx.Create(&model.LikeAggregate{TweetID: tweetID, LikeCount: n}).Error; err != nil {
		return fmt.Errorf("create like aggregate %d: %w", tweetID, err)
	}
	return nil
}
