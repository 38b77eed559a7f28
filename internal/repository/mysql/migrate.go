package mysql

import (
	"gorm.io/gorm"

	"github.com/Guyuepp/tweetfeed/internal/repository/mysql/model"
)

// Migrate creates or alters the tables backing the durable store.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.Account{}, &model.Tweet{}, &model.LikeAggregate{})
}
