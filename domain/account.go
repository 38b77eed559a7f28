package domain

import (
	"context"
	"time"
)

// DefaultAccountUsername is used when a request carries no account identity
const DefaultAccountUsername = "default_user"

// Account represents a registered user.
type Account struct {
	ID        int64     // Unique identifier
	Username  string    // Unique handle
	Email     string    // Unique contact address
	CreatedAt time.Time // Registration timestamp
}

// AccountRepository defines the contract for account persistence.
type AccountRepository interface {
	// GetByID returns ErrNotFound if the account doesn't exist.
	GetByID(ctx context.Context, id int64) (Account, error)

	// GetByIDs returns the accounts that exist among ids, in no particular order.
	GetByIDs(ctx context.Context, ids []int64) ([]Account, error)

	// GetByUsername returns ErrNotFound if the account doesn't exist.
	GetByUsername(ctx context.Context, username string) (Account, error)

	// Insert backfills ID and CreatedAt. Returns ErrConflict on a duplicate username or email.
	Insert(ctx context.Context, a *Account) error

	// First returns the account with the lowest id, ErrNotFound if there is none.
	First(ctx context.Context) (Account, error)
}

type AccountUsecase interface {
	Register(ctx context.Context, a *Account) error
	GetByID(ctx context.Context, id int64) (Account, error)
	// Default returns the fallback identity, creating it on first use.
	Default(ctx context.Context) (Account, error)
}
