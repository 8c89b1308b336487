package repositories

import (
	"context"

	"github.com/courierhq/ledger_backend/internal/core/domain"
)

// ReportingRepository defines the aggregate read used by all reports.
type ReportingRepository interface {
	// GetAccountSums returns per-account raw debit/credit totals for posted
	// entries matching filter, restricted to the given account types (all
	// types when empty), ordered by account number ascending. Each report
	// derives its figures from these sums; sign conventions are applied by
	// the caller.
	GetAccountSums(ctx context.Context, filter domain.EntryFilter, types []domain.AccountType) ([]domain.TrialBalanceRow, error)
}
