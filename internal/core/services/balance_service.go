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

// balanceService derives balances and ledgers from the journal. There is no
// stored balance anywhere to drift; every figure is recomputed from the entry
// set.
type balanceService struct {
	accountRepo portsrepo.AccountReader
	ledgerRepo  portsrepo.LedgerReader
}

// NewBalanceService creates a new BalanceService.
func NewBalanceService(accountRepo portsrepo.AccountReader, ledgerRepo portsrepo.LedgerReader) portssvc.BalanceService {
	return &balanceService{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
	}
}

// Ensure balanceService implements the portssvc.BalanceService interface
var _ portssvc.BalanceService = (*balanceService)(nil)

// ComputeBalance derives the account's balance using the normal-balance sign
// convention: debits minus credits for asset/expense accounts, credits minus
// debits for liability/equity/revenue accounts.
func (s *balanceService) ComputeBalance(ctx context.Context, accountID string, asOf *time.Time) (decimal.Decimal, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	totalDebits, totalCredits, err := s.ledgerRepo.SumEntriesForAccount(ctx, account.AccountID, domain.EntryFilter{DateTo: asOf})
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum entries for account %s: %w", accountID, err)
	}

	balance, err := accounting.NetBalance(account.AccountType, totalDebits, totalCredits)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to compute balance for account %s: %w", accountID, err)
	}
	return balance, nil
}

// GetAccountLedger returns the chronological per-account view of entries with
// running balances, ordered by transaction date then entry insertion order.
// The sequence is re-derivable from the journal at any time.
func (s *balanceService) GetAccountLedger(ctx context.Context, accountID string, dateFrom, dateTo *time.Time) ([]domain.LedgerRow, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	filter := domain.EntryFilter{DateFrom: dateFrom, DateTo: dateTo}
	rows, openingDebits, openingCredits, err := s.ledgerRepo.FindEntriesForAccount(ctx, account.AccountID, filter)
	if err != nil {
		logger.Error("Failed to fetch ledger entries", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to fetch ledger for account %s: %w", accountID, err)
	}

	// Seed the running balance with the opening balance before the range so
	// a windowed ledger still shows true cumulative figures.
	running, err := accounting.NetBalance(account.AccountType, openingDebits, openingCredits)
	if err != nil {
		return nil, fmt.Errorf("failed to compute opening balance for account %s: %w", accountID, err)
	}

	for i := range rows {
		signed, err := accounting.SignedAmount(rows[i].Entry, account.AccountType)
		if err != nil {
			return nil, fmt.Errorf("failed to compute running balance for account %s: %w", accountID, err)
		}
		running = running.Add(signed)
		rows[i].RunningBalance = running
	}

	logger.Debug("Account ledger derived", slog.String("account_id", accountID), slog.Int("row_count", len(rows)))
	return rows, nil
}
