package model

import (
	"time"

	"github.com/Guyuepp/tweetfeed/domain"
)

type Tweet struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Content   string    `gorm:"type:varchar(280);not null"`
	AccountID int64     `gorm:"column:account_id;not null;index"`
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (Tweet) TableName() string {
	return "tweets"
}

// ToDomain leaves LikeCount at zero, it lives in like_aggregates.
func (m *Tweet) ToDomain() domain.Tweet {
	return domain.Tweet{
		ID:        m.ID,
		Content:   m.Content,
		Account:   domain.Account{ID: m.AccountID},
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func NewTweetFromDomain(t *domain.Tweet) *Tweet {
	return &Tweet{
		ID:        t.ID,
		Content:   t.Content,
		AccountID: t.Account.ID,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
