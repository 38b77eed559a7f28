package model

import (
	"time"

	"github.com/Guyuepp/tweetfeed/domain"
)

type Account struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Username  string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	Email     string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"not null"`
}

func (Account) TableName() string {
	return "accounts"
}

func (m *Account) ToDomain() domain.Account {
	return domain.Account{
		ID:        m.ID,
		Username:  m.Username,
		Email:     m.Email,
		CreatedAt: m.CreatedAt,
	}
}

func NewAccountFromDomain(a *domain.Account) *Account {
	return &Account{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		CreatedAt: a.CreatedAt,
	}
}
