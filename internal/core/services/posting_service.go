package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/courierhq/ledger_backend/internal/apperrors"
	"github.com/courierhq/ledger_backend/internal/core/domain"
	portsrepo "github.com/courierhq/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/courierhq/ledger_backend/internal/core/ports/services"
	"github.com/courierhq/ledger_backend/internal/dto"
	"github.com/courierhq/ledger_backend/internal/middleware"
	"github.com/courierhq/ledger_backend/internal/utils/accounting"
	"github.com/courierhq/ledger_backend/internal/utils/vouchernum"
)

var (
	ErrTooFewEntries   = fmt.Errorf("%w: transaction must have at least two entries", apperrors.ErrValidation)
	ErrAccountNotFound = errors.New("account not found")
)

const defaultListLimit = 20

// postingService validates and atomically commits transactions to the journal.
type postingService struct {
	txnRepo    portsrepo.TransactionRepositoryFacade
	accountSvc portssvc.AccountService
}

// NewPostingService creates a new PostingService.
func NewPostingService(txnRepo portsrepo.TransactionRepositoryFacade, accountSvc portssvc.AccountService) portssvc.PostingService {
	return &postingService{
		txnRepo:    txnRepo,
		accountSvc: accountSvc,
	}
}

// Ensure postingService implements the portssvc.PostingService interface
var _ portssvc.PostingService = (*postingService)(nil)

// PostTransaction validates the posting and commits the transaction with all
// its entries as one atomic unit. Account balances are derived, not stored,
// so the journal write is the only side effect.
func (s *postingService) PostTransaction(ctx context.Context, req dto.PostTransactionRequest, creatorUserID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txnType := domain.TransactionType(req.TransactionType)
	if !txnType.IsValid() {
		return nil, fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, req.TransactionType)
	}
	if req.Description == "" {
		return nil, fmt.Errorf("%w: description is required", apperrors.ErrValidation)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: transaction date is required", apperrors.ErrValidation)
	}
	if len(req.Entries) < 2 {
		return nil, ErrTooFewEntries
	}

	// Resolve every referenced account (by ID or number) before touching the
	// journal; validation failures must leave no partial state behind.
	accountsByRef, err := s.resolveAccounts(ctx, req.Entries)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	transactionID := uuid.NewString()

	entries := make([]domain.Entry, len(req.Entries))
	totalDebits := decimal.Zero
	totalCredits := decimal.Zero
	for i, entryReq := range req.Entries {
		account := accountsByRef[entryReq.Account]
		entry := domain.Entry{
			EntryID:       uuid.NewString(),
			TransactionID: transactionID,
			AccountID:     account.AccountID,
			DebitAmount:   entryReq.DebitAmount,
			CreditAmount:  entryReq.CreditAmount,
			Description:   entryReq.Description,
			LineNo:        i,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     creatorUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: creatorUserID,
			},
		}
		if err := accounting.ValidateEntryAmounts(entry); err != nil {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		totalDebits = totalDebits.Add(entry.DebitAmount)
		totalCredits = totalCredits.Add(entry.CreditAmount)
		entries[i] = entry
	}

	if !accounting.WithinTolerance(totalDebits, totalCredits) {
		return nil, apperrors.NewImbalanceError(totalDebits, totalCredits)
	}

	transactionNumber, err := vouchernum.Generate(txnType)
	if err != nil {
		logger.Error("Failed to generate transaction number", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to generate transaction number: %w", err)
	}

	txn := domain.Transaction{
		TransactionID:     transactionID,
		TransactionNumber: transactionNumber,
		TransactionType:   txnType,
		Description:       req.Description,
		TransactionDate:   req.Date,
		Status:            domain.Posted,
		ReferenceNumber:   req.ReferenceNumber,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.txnRepo.SaveTransaction(ctx, txn, entries); err != nil {
		logger.Error("Failed to save transaction", slog.String("error", err.Error()), slog.String("transaction_number", transactionNumber))
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	logger.Info("Transaction posted successfully",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("transaction_number", txn.TransactionNumber),
		slog.Int("entry_count", len(entries)))

	txn.Entries = entries
	return &txn, nil
}

// resolveAccounts looks up every unique account reference in the entries and
// checks the accounts are active.
func (s *postingService) resolveAccounts(ctx context.Context, entryReqs []dto.CreateEntryRequest) (map[string]domain.Account, error) {
	accountsByRef := make(map[string]domain.Account)
	for _, entryReq := range entryReqs {
		if _, done := accountsByRef[entryReq.Account]; done {
			continue
		}
		account, err := s.accountSvc.GetAccount(ctx, entryReq.Account)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s: %s", apperrors.ErrNotFound, ErrAccountNotFound.Error(), entryReq.Account)
			}
			return nil, fmt.Errorf("failed to resolve account %s: %w", entryReq.Account, err)
		}
		if !account.IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, account.AccountNumber)
		}
		accountsByRef[entryReq.Account] = *account
	}
	return accountsByRef, nil
}

// GetTransaction retrieves a transaction (with entries) by surrogate ID or,
// failing that, by its generated transaction number.
func (s *postingService) GetTransaction(ctx context.Context, idOrNumber string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, idOrNumber)
	if err == nil {
		return txn, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	return s.txnRepo.FindTransactionByNumber(ctx, idOrNumber)
}

// ListTransactions retrieves a filtered, token-paginated page of transaction
// headers.
func (s *postingService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	transactions, nextToken, err := s.txnRepo.ListTransactions(ctx, params.ToEntryFilter(), limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list transactions", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve transactions: %w", err)
	}

	resp := &dto.ListTransactionsResponse{
		Transactions: make([]dto.TransactionResponse, len(transactions)),
		NextToken:    nextToken,
	}
	for i := range transactions {
		resp.Transactions[i] = dto.ToTransactionResponse(&transactions[i])
	}
	return resp, nil
}
