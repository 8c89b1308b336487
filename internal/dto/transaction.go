package dto

import (
	"time"

	"github.com/courierhq/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateEntryRequest is one line of a posting. Account may be the account's
// surrogate ID or its human-assigned number. Exactly one of debitAmount and
// creditAmount must be non-zero; the engine enforces this beyond binding.
type CreateEntryRequest struct {
	Account      string          `json:"account" binding:"required"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	Description  string          `json:"description"`
}

// PostTransactionRequest defines the payload consumed by the posting engine.
type PostTransactionRequest struct {
	TransactionType string               `json:"transactionType" binding:"required,oneof=CRV CPV BPV BRV JV"`
	Description     string               `json:"description" binding:"required"`
	Date            time.Time            `json:"date" binding:"required"`
	ReferenceNumber string               `json:"referenceNumber"`
	Entries         []CreateEntryRequest `json:"entries" binding:"required,min=2,dive"`
}

// EntryResponse is one transaction line as returned to clients.
type EntryResponse struct {
	EntryID      string          `json:"entryID"`
	AccountID    string          `json:"accountID"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	Description  string          `json:"description,omitempty"`
	LineNo       int             `json:"lineNo"`
}

// TransactionResponse is a posted transaction as returned to clients.
type TransactionResponse struct {
	TransactionID     string          `json:"transactionID"`
	TransactionNumber string          `json:"transactionNumber"`
	TransactionType   string          `json:"transactionType"`
	Description       string          `json:"description"`
	TransactionDate   time.Time       `json:"transactionDate"`
	Status            string          `json:"status"`
	ReferenceNumber   string          `json:"referenceNumber,omitempty"`
	Entries           []EntryResponse `json:"entries,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	CreatedBy         string          `json:"createdBy"`
}

// ToTransactionResponse converts a domain transaction to its response form.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	resp := TransactionResponse{
		TransactionID:     t.TransactionID,
		TransactionNumber: t.TransactionNumber,
		TransactionType:   string(t.TransactionType),
		Description:       t.Description,
		TransactionDate:   t.TransactionDate,
		Status:            string(t.Status),
		ReferenceNumber:   t.ReferenceNumber,
		CreatedAt:         t.CreatedAt,
		CreatedBy:         t.CreatedBy,
	}
	if len(t.Entries) > 0 {
		resp.Entries = make([]EntryResponse, len(t.Entries))
		for i, e := range t.Entries {
			resp.Entries[i] = EntryResponse{
				EntryID:      e.EntryID,
				AccountID:    e.AccountID,
				DebitAmount:  e.DebitAmount,
				CreditAmount: e.CreditAmount,
				Description:  e.Description,
				LineNo:       e.LineNo,
			}
		}
	}
	return resp
}

// ListTransactionsParams holds filter and pagination inputs for listing.
type ListTransactionsParams struct {
	Limit     int
	NextToken *string
	DateFrom  *time.Time
	DateTo    *time.Time
	AccountID *string
	Type      *string
	Status    *string
}

// ToEntryFilter converts the listing params into the storage filter structure.
func (p ListTransactionsParams) ToEntryFilter() domain.EntryFilter {
	filter := domain.EntryFilter{
		DateFrom:  p.DateFrom,
		DateTo:    p.DateTo,
		AccountID: p.AccountID,
	}
	if p.Type != nil {
		t := domain.TransactionType(*p.Type)
		filter.Type = &t
	}
	if p.Status != nil {
		s := domain.TransactionStatus(*p.Status)
		filter.Status = &s
	}
	return filter
}

// ListTransactionsResponse wraps a page of transactions and the next cursor.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}
