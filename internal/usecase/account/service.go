package account

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/tweetfeed/domain"
)

const defaultAccountEmail = "user@example.com"

type service struct {
	accountRepo domain.AccountRepository
}

var _ domain.AccountUsecase = (*service)(nil)

func NewService(accountRepo domain.AccountRepository) *service {
	return &service{
		accountRepo: accountRepo,
	}
}

func (s *service) Register(ctx context.Context, a *domain.Account) error {
	existed, err := s.accountRepo.GetByUsername(ctx, a.Username)
	if err == nil && existed.ID != 0 {
		return domain.ErrConflict
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return s.accountRepo.Insert(ctx, a)
}

func (s *service) GetByID(ctx context.Context, id int64) (domain.Account, error) {
	return s.accountRepo.GetByID(ctx, id)
}

// Default 返回第一个账号，没有账号时创建默认账号
func (s *service) Default(ctx context.Context) (domain.Account, error) {
	res, err := s.accountRepo.First(ctx)
	if err == nil {
		return res, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Account{}, err
	}

	res = domain.Account{
		Username: domain.DefaultAccountUsername,
		Email:    defaultAccountEmail,
	}
	err = s.accountRepo.Insert(ctx, &res)
	if errors.Is(err, domain.ErrConflict) {
		// 并发请求已经创建了默认账号
		return s.accountRepo.GetByUsername(ctx, domain.DefaultAccountUsername)
	} else if err != nil {
		return domain.Account{}, err
	}
	logrus.Infof("created default account %d", res.ID)
	return res, nil
}
