package request

import "github.com/Guyuepp/tweetfeed/domain"

type Account struct {
	Username string `json:"username" binding:"required,alphanum,min=3,max=64"`
	Email    string `json:"email" binding:"required,email,max=255"`
}

// ToDomain: Request -> Domain
func (r *Account) ToDomain() domain.Account {
	return domain.Account{
		Username: r.Username,
		Email:    r.Email,
	}
}
