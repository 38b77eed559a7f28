package model

import "time"

// LikeAggregate holds the flushed like total of one tweet
type LikeAggregate struct {
	TweetID   int64 `gorm:"column:tweet_id;primaryKey;autoIncrement:false"`
	LikeCount int64 `gorm:"column:like_count;not null;default:0"`
	UpdatedAt time.Time
}

func (LikeAggregate) TableName() string {
	return "like_aggregates"
}
