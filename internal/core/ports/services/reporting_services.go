package services

import (
	"context"
	"time"

	"github.com/courierhq/ledger_backend/internal/core/domain"
)

// ReportingService defines operations for generating financial reports.
type ReportingService interface {
	// TrialBalance aggregates per-account debit/credit totals. The optional
	// filter narrows by date range or account; an unbalanced result is
	// reported via the Balanced flag, never as an error.
	TrialBalance(ctx context.Context, filter domain.EntryFilter) (*domain.TrialBalanceReport, error)

	// IncomeStatement aggregates revenue and expense accounts over a period.
	IncomeStatement(ctx context.Context, from, to time.Time) (*domain.IncomeStatementReport, error)

	// BalanceSheet aggregates asset, liability and equity accounts as of a
	// date (all history when nil), reporting the accounting-equation
	// integrity flag.
	BalanceSheet(ctx context.Context, asOf *time.Time) (*domain.BalanceSheetReport, error)
}
