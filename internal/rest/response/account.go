package response

import "github.com/Guyuepp/tweetfeed/domain"

type Account struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

func NewAccountFromDomain(a *domain.Account) Account {
	return Account{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		CreatedAt: a.CreatedAt.Format(DateTimeFormat),
	}
}
