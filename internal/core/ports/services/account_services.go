package services

import (
	"context"

	"github.com/courierhq/ledger_backend/internal/core/domain"
	"github.com/courierhq/ledger_backend/internal/dto"
)

// AccountService defines the operations of the account registry.
type AccountService interface {
	// CreateAccount adds an account to the chart of accounts.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)

	// GetAccount resolves an account by surrogate ID or account number.
	GetAccount(ctx context.Context, idOrNumber string) (*domain.Account, error)

	// ListAccounts returns accounts ordered by account number ascending.
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)

	// UpdateAccount applies name/parent/active changes.
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)

	// DeleteAccount removes an account with no referencing entries; refuses
	// with ErrConflict otherwise.
	DeleteAccount(ctx context.Context, accountID string, userID string) error
}
