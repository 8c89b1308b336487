package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/courierhq/ledger_backend/internal/core/domain"
	portsrepo "github.com/courierhq/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/courierhq/ledger_backend/internal/core/ports/services"
	"github.com/courierhq/ledger_backend/internal/middleware"
	"github.com/courierhq/ledger_backend/internal/utils/accounting"
)

// reportingService aggregates the journal into financial statements. Reports
// are pure reads and safe to abandon on context cancellation; books that do
// not balance are surfaced via flags in the result, never as errors.
type reportingService struct {
	reportingRepo portsrepo.ReportingRepository
}

// NewReportingService creates a new ReportingService.
func NewReportingService(reportingRepo portsrepo.ReportingRepository) portssvc.ReportingService {
	return &reportingService{reportingRepo: reportingRepo}
}

// Ensure reportingService implements the portssvc.ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// TrialBalance aggregates per-account debit/credit totals across the journal.
func (s *reportingService) TrialBalance(ctx context.Context, filter domain.EntryFilter) (*domain.TrialBalanceReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	rows, err := s.reportingRepo.GetAccountSums(ctx, filter, nil)
	if err != nil {
		logger.Error("Failed to retrieve trial balance data", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve trial balance data: %w", err)
	}

	totalDebits := decimal.Zero
	totalCredits := decimal.Zero
	for _, row := range rows {
		totalDebits = totalDebits.Add(row.TotalDebits)
		totalCredits = totalCredits.Add(row.TotalCredits)
	}

	report := &domain.TrialBalanceReport{
		Rows:         rows,
		TotalDebits:  totalDebits,
		TotalCredits: totalCredits,
		Balanced:     accounting.WithinTolerance(totalDebits, totalCredits),
	}

	logger.Info("Trial balance report generated", slog.Int("row_count", len(rows)), slog.Bool("balanced", report.Balanced))
	return report, nil
}

// IncomeStatement aggregates revenue and expense accounts over a period.
// Revenue lines use credits minus debits, expense lines debits minus credits.
func (s *reportingService) IncomeStatement(ctx context.Context, from, to time.Time) (*domain.IncomeStatementReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	filter := domain.EntryFilter{DateFrom: &from, DateTo: &to}
	rows, err := s.reportingRepo.GetAccountSums(ctx, filter, []domain.AccountType{domain.Revenue, domain.Expense})
	if err != nil {
		logger.Error("Failed to retrieve income statement data", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve income statement data: %w", err)
	}

	report := &domain.IncomeStatementReport{
		Revenue:  []domain.AccountAmount{},
		Expenses: []domain.AccountAmount{},
	}
	totalRevenue := decimal.Zero
	totalExpenses := decimal.Zero

	for _, row := range rows {
		amount, err := accounting.NetBalance(row.AccountType, row.TotalDebits, row.TotalCredits)
		if err != nil {
			return nil, fmt.Errorf("failed to compute net amount for account %s: %w", row.AccountNumber, err)
		}
		line := domain.AccountAmount{
			AccountID:     row.AccountID,
			AccountNumber: row.AccountNumber,
			Name:          row.AccountName,
			Amount:        amount,
		}
		switch row.AccountType {
		case domain.Revenue:
			report.Revenue = append(report.Revenue, line)
			totalRevenue = totalRevenue.Add(amount)
		case domain.Expense:
			report.Expenses = append(report.Expenses, line)
			totalExpenses = totalExpenses.Add(amount)
		}
	}

	report.TotalRevenue = totalRevenue
	report.TotalExpenses = totalExpenses
	report.NetIncome = totalRevenue.Sub(totalExpenses)

	logger.Info("Income statement generated",
		slog.String("from", from.Format(time.RFC3339)),
		slog.String("to", to.Format(time.RFC3339)),
		slog.Int("revenue_accounts", len(report.Revenue)),
		slog.Int("expense_accounts", len(report.Expenses)))
	return report, nil
}

// BalanceSheet aggregates asset, liability and equity accounts as of a date.
// The accounting equation (assets == liabilities + equity) is checked and
// reported, never corrected: a mismatch means unposted reversing entries or
// bad historical data, and remediation belongs to the caller.
func (s *reportingService) BalanceSheet(ctx context.Context, asOf *time.Time) (*domain.BalanceSheetReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	filter := domain.EntryFilter{DateTo: asOf}
	rows, err := s.reportingRepo.GetAccountSums(ctx, filter, []domain.AccountType{domain.Asset, domain.Liability, domain.Equity})
	if err != nil {
		logger.Error("Failed to retrieve balance sheet data", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve balance sheet data: %w", err)
	}

	report := &domain.BalanceSheetReport{
		Assets:      []domain.AccountAmount{},
		Liabilities: []domain.AccountAmount{},
		Equity:      []domain.AccountAmount{},
	}
	totalAssets := decimal.Zero
	totalLiabilities := decimal.Zero
	totalEquity := decimal.Zero

	for _, row := range rows {
		amount, err := accounting.NetBalance(row.AccountType, row.TotalDebits, row.TotalCredits)
		if err != nil {
			return nil, fmt.Errorf("failed to compute net amount for account %s: %w", row.AccountNumber, err)
		}
		line := domain.AccountAmount{
			AccountID:     row.AccountID,
			AccountNumber: row.AccountNumber,
			Name:          row.AccountName,
			Amount:        amount,
		}
		switch row.AccountType {
		case domain.Asset:
			report.Assets = append(report.Assets, line)
			totalAssets = totalAssets.Add(amount)
		case domain.Liability:
			report.Liabilities = append(report.Liabilities, line)
			totalLiabilities = totalLiabilities.Add(amount)
		case domain.Equity:
			report.Equity = append(report.Equity, line)
			totalEquity = totalEquity.Add(amount)
		}
	}

	report.TotalAssets = totalAssets
	report.TotalLiabilities = totalLiabilities
	report.TotalEquity = totalEquity
	report.Balanced = accounting.WithinTolerance(totalAssets, totalLiabilities.Add(totalEquity))

	logger.Info("Balance sheet generated",
		slog.Int("asset_accounts", len(report.Assets)),
		slog.Int("liability_accounts", len(report.Liabilities)),
		slog.Int("equity_accounts", len(report.Equity)),
		slog.Bool("balanced", report.Balanced))
	return report, nil
}
