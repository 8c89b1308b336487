package repositories

import (
	"context"

	"github.com/courierhq/ledger_backend/internal/core/domain"
)

// AccountReader defines read operations for the chart of accounts.
type AccountReader interface {
	// FindAccountByID retrieves an account by its surrogate ID.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByNumber retrieves an account by its human-assigned number.
	FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts keyed by account ID.
	// IDs with no matching account are simply absent from the map.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves accounts ordered by account number ascending.
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)

	// HasEntries reports whether any journal entry references the account.
	HasEntries(ctx context.Context, accountID string) (bool, error)
}

// AccountWriter defines write operations for the chart of accounts.
type AccountWriter interface {
	// SaveAccount inserts a new account. Returns ErrConflict when the account
	// number is already taken.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount persists name/parent/active changes. The ancestor-walk
	// cycle check runs inside the same storage transaction as the write, so
	// concurrent re-parents cannot race a cycle into the tree. Returns
	// ErrValidation when the new parent would create a cycle.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeleteAccount removes an account that has no referencing entries.
	// Returns ErrConflict when entries reference it.
	DeleteAccount(ctx context.Context, accountID string) error
}

// AccountRepositoryFacade combines all account repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
