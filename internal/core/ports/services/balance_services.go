package services

import (
	"context"
	"time"

	"github.com/courierhq/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceService derives account balances and ledgers from the journal.
type BalanceService interface {
	// ComputeBalance derives the account's balance from its full entry set
	// (up to and including asOf when given), using the normal-balance sign
	// convention for the account's type.
	ComputeBalance(ctx context.Context, accountID string, asOf *time.Time) (decimal.Decimal, error)

	// GetAccountLedger returns the chronological per-account view of entries
	// with running balances. When a date range is given the running balance
	// is seeded with the opening balance before the range.
	GetAccountLedger(ctx context.Context, accountID string, dateFrom, dateTo *time.Time) ([]domain.LedgerRow, error)
}
