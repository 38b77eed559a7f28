package response

import (
	"github.com/Guyuepp/tweetfeed/domain"
)

const DateTimeFormat = "2006-01-02 15:04:05"

type Tweet struct {
	ID        int64  `json:"id"`
	Content   string `json:"content"`
	AccountID int64  `json:"account_id"`
	Username  string `json:"username"`
	LikeCount int64  `json:"like_count"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// NewTweetFromDomain: Domain -> Response
func NewTweetFromDomain(t *domain.Tweet) Tweet {
	return Tweet{
		ID:        t.ID,
		Content:   t.Content,
		AccountID: t.Account.ID,
		Username:  t.Account.Username,
		LikeCount: t.LikeCount,
		CreatedAt: t.CreatedAt.Format(DateTimeFormat),
		UpdatedAt: t.UpdatedAt.Format(DateTimeFormat),
	}
}

// LikeAccepted tells the caller the like is queued, not yet persisted.
type LikeAccepted struct {
	Message string `json:"message"`
	TweetID int64  `json:"tweet_id"`
}
