package repositories

import (
	"context"

	"github.com/courierhq/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionReader defines read operations for posted transactions.
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction with its entries.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// FindTransactionByNumber retrieves a transaction by its generated number.
	FindTransactionByNumber(ctx context.Context, transactionNumber string) (*domain.Transaction, error)

	// ListTransactions retrieves a filtered, token-paginated list of
	// transactions (headers only). It returns the transactions, a token for
	// the next page, and an error.
	ListTransactions(ctx context.Context, filter domain.EntryFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}

// TransactionWriter defines write operations for the journal.
type TransactionWriter interface {
	// SaveTransaction persists a transaction and all of its entries as one
	// atomic unit: either every row becomes visible or none do.
	SaveTransaction(ctx context.Context, txn domain.Transaction, entries []domain.Entry) error
}

// LedgerReader defines the derived-balance read operations. Balances are
// never stored; these aggregate the entry set on demand.
type LedgerReader interface {
	// SumEntriesForAccount returns the raw debit and credit totals of posted
	// entries for the account, restricted by filter.
	SumEntriesForAccount(ctx context.Context, accountID string, filter domain.EntryFilter) (totalDebits, totalCredits decimal.Decimal, err error)

	// FindEntriesForAccount returns ledger rows (entry plus transaction
	// context, running balance unset) ordered by transaction date then line
	// number, together with the raw debit/credit sums of posted entries dated
	// before filter.DateFrom (zero totals when DateFrom is unset). Both reads
	// observe a single consistent snapshot.
	FindEntriesForAccount(ctx context.Context, accountID string, filter domain.EntryFilter) (rows []domain.LedgerRow, openingDebits, openingCredits decimal.Decimal, err error)
}

// TransactionRepositoryFacade combines all journal repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
	LedgerReader
}
