package services

import (
	"context"

	"github.com/courierhq/ledger_backend/internal/core/domain"
	"github.com/courierhq/ledger_backend/internal/dto"
)

// PostingService validates and atomically commits transactions to the journal.
type PostingService interface {
	// PostTransaction validates the posting against the account registry and
	// commits the transaction with all its entries as one atomic unit. The
	// returned transaction carries the generated identifiers and number.
	PostTransaction(ctx context.Context, req dto.PostTransactionRequest, creatorUserID string) (*domain.Transaction, error)

	// GetTransaction retrieves a transaction (with entries) by surrogate ID
	// or transaction number.
	GetTransaction(ctx context.Context, idOrNumber string) (*domain.Transaction, error)

	// ListTransactions retrieves a filtered, token-paginated page of
	// transaction headers.
	ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}
