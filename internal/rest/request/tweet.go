package request

import "github.com/Guyuepp/tweetfeed/domain"

type Tweet struct {
	Content string `json:"content" binding:"required,max=280"` // for CREATE and UPDATE
}

// ToDomain: Request -> Domain
func (r *Tweet) ToDomain() domain.Tweet {
	return domain.Tweet{
		Content: r.Content,
	}
}
