package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/courierhq/ledger_backend/internal/apperrors"
	"github.com/courierhq/ledger_backend/internal/core/domain"
	portsrepo "github.com/courierhq/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/courierhq/ledger_backend/internal/core/ports/services"
	"github.com/courierhq/ledger_backend/internal/dto"
	"github.com/courierhq/ledger_backend/internal/middleware"
)

// accountService owns the chart of accounts.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountService {
	return &accountService{accountRepo: accountRepo}
}

// Ensure accountService implements the portssvc.AccountService interface
var _ portssvc.AccountService = (*accountService)(nil)

// CreateAccount adds an account to the chart of accounts after checking
// number uniqueness and parent validity.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	accountType := domain.AccountType(req.AccountType)
	if !accountType.IsValid() {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}

	// Reject duplicate account numbers up front; the unique constraint in the
	// repository is the authoritative check under concurrency.
	existing, err := s.accountRepo.FindAccountByNumber(ctx, req.AccountNumber)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		logger.Error("Failed to check account number uniqueness", slog.String("error", err.Error()), slog.String("account_number", req.AccountNumber))
		return nil, fmt.Errorf("failed to check account number %s: %w", req.AccountNumber, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: account number %s already exists", apperrors.ErrConflict, req.AccountNumber)
	}

	parentID := ""
	if req.ParentAccountID != nil && *req.ParentAccountID != "" {
		parent, err := s.GetAccount(ctx, *req.ParentAccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent account %s", apperrors.ErrNotFound, *req.ParentAccountID)
			}
			return nil, fmt.Errorf("failed to resolve parent account %s: %w", *req.ParentAccountID, err)
		}
		// A brand-new account cannot close a cycle, but a corrupt parent
		// chain must not be extended silently.
		if err := s.walkAncestors(ctx, parent.AccountID); err != nil {
			return nil, err
		}
		parentID = parent.AccountID
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		AccountNumber:   req.AccountNumber,
		Name:            req.Name,
		AccountType:     accountType,
		ParentAccountID: parentID,
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("account_number", account.AccountNumber))
		return nil, err
	}

	logger.Info("Account created successfully", slog.String("account_id", account.AccountID), slog.String("account_number", account.AccountNumber))
	return &account, nil
}

// GetAccount resolves an account by surrogate ID or, failing that, by its
// human-assigned account number.
func (s *accountService) GetAccount(ctx context.Context, idOrNumber string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, idOrNumber)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	return s.accountRepo.FindAccountByNumber(ctx, idOrNumber)
}

// ListAccounts retrieves accounts ordered by account number ascending.
func (s *accountService) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	accounts, err := s.accountRepo.ListAccounts(ctx, limit, offset)
	if err != nil {
		logger.Error("Failed to list accounts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

// UpdateAccount applies name/parent/active changes. Re-parenting is validated
// against the ancestor chain here and again inside the repository's
// serializable write transaction; a concurrent re-parent that would close a
// cycle surfaces as ErrConflict and the caller retries.
func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil {
		account.Name = *req.Name
		updated = true
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
		updated = true
	}
	if req.ParentAccountID != nil {
		newParentID := *req.ParentAccountID
		if newParentID == "" {
			account.ParentAccountID = ""
		} else {
			parent, err := s.GetAccount(ctx, newParentID)
			if err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return nil, fmt.Errorf("%w: parent account %s", apperrors.ErrNotFound, newParentID)
				}
				return nil, err
			}
			if parent.AccountID == account.AccountID {
				return nil, fmt.Errorf("%w: account %s cannot be its own parent", apperrors.ErrValidation, account.AccountNumber)
			}
			account.ParentAccountID = parent.AccountID
		}
		updated = true
	}

	if !updated {
		return account, nil
	}

	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		logger.Error("Failed to update account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, err
	}

	logger.Info("Account updated successfully", slog.String("account_id", accountID))
	return account, nil
}

// DeleteAccount removes an account, refusing when any entry references it.
// Deletion is never cascaded to entries.
func (s *accountService) DeleteAccount(ctx context.Context, accountID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return err
	}

	hasEntries, err := s.accountRepo.HasEntries(ctx, accountID)
	if err != nil {
		logger.Error("Failed to check account entries before delete", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return fmt.Errorf("failed to check entries for account %s: %w", accountID, err)
	}
	if hasEntries {
		return fmt.Errorf("%w: account %s has existing entries", apperrors.ErrConflict, accountID)
	}

	if err := s.accountRepo.DeleteAccount(ctx, accountID); err != nil {
		logger.Error("Failed to delete account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return err
	}

	logger.Info("Account deleted successfully", slog.String("account_id", accountID), slog.String("deleted_by", userID))
	return nil
}

// walkAncestors follows parent references upward, failing with ErrValidation
// if the chain revisits a node. Parent links are stored as indexed references,
// never in-memory pointers, so a cycle can only appear through writes that
// skipped this check.
func (s *accountService) walkAncestors(ctx context.Context, startID string) error {
	seen := map[string]struct{}{}
	currentID := startID
	for currentID != "" {
		if _, ok := seen[currentID]; ok {
			return fmt.Errorf("%w: account hierarchy contains a cycle at %s", apperrors.ErrValidation, currentID)
		}
		seen[currentID] = struct{}{}

		account, err := s.accountRepo.FindAccountByID(ctx, currentID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: ancestor account %s", apperrors.ErrNotFound, currentID)
			}
			return err
		}
		currentID = account.ParentAccountID
	}
	return nil
}
