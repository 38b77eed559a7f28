package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Guyuepp/tweetfeed/domain"
	"github.com/Guyuepp/tweetfeed/internal/repository/mysql/model"
)

type accountRepository struct {
	DB *gorm.DB
}

var _ domain.AccountRepository = (*accountRepository)(nil)

// NewAccountRepository will create an implementation of domain.AccountRepository
func NewAccountRepository(db *gorm.DB) *accountRepository {
	return &accountRepository{
		DB: db,
	}
}

func (m *accountRepository) GetByID(ctx context.Context, id int64) (domain.Account, error) {
	var account model.Account
	if err := m.DB.WithContext(ctx).First(&account, "id = ?", id).Error; err != nil {
		return domain.Account{}, translateError(err)
	}
	return account.ToDomain(), nil
}

func (m *accountRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Account, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var accounts []model.Account
	if err := m.DB.WithContext(ctx).Where("id IN ?", ids).Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("get accounts: %w", err)
	}
	res := make([]domain.Account, len(accounts))
	for i := range accounts {
		res[i] = accounts[i].ToDomain()
	}
	return res, nil
}

func (m *accountRepository) GetByUsername(ctx context.Context, username string) (domain.Account, error) {
	var account model.Account
	if err := m.DB.WithContext(ctx).First(&account, "username = ?", username).Error; err != nil {
		return domain.Account{}, translateError(err)
	}
	return account.ToDomain(), nil
}

func (m *accountRepository) Insert(ctx context.Context, a *domain.Account) error {
	accountModel := model.NewAccountFromDomain(a)
	if err := m.DB.WithContext(ctx).Create(accountModel).Error; err != nil {
		return translateError(err)
	}
	a.ID = accountModel.ID
	a.CreatedAt = accountModel.CreatedAt
	return nil
}

func (m *accountRepository) First(ctx context.Context) (domain.Account, error) {
	var account model.Account
	if err := m.DB.WithContext(ctx).Order("id").First(&account).Error; err != nil {
		return domain.Account{}, translateError(err)
	}
	return account.ToDomain(), nil
}

func translateError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrConflict
	default:
		return err
	}
}
