package dto

import (
	"time"

	"github.com/courierhq/ledger_backend/internal/core/domain"
)

// CreateAccountRequest defines the payload for creating an account.
type CreateAccountRequest struct {
	AccountNumber   string  `json:"accountNumber" binding:"required"`
	Name            string  `json:"name" binding:"required"`
	AccountType     string  `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	ParentAccountID *string `json:"parentAccountID,omitempty"`
}

// UpdateAccountRequest defines the payload for updating an account.
// Nil fields are left unchanged.
type UpdateAccountRequest struct {
	Name            *string `json:"name,omitempty"`
	ParentAccountID *string `json:"parentAccountID,omitempty"`
	IsActive        *bool   `json:"isActive,omitempty"`
}

// AccountResponse defines the representation of an account returned to clients.
type AccountResponse struct {
	AccountID       string    `json:"accountID"`
	AccountNumber   string    `json:"accountNumber"`
	Name            string    `json:"name"`
	AccountType     string    `json:"accountType"`
	ParentAccountID string    `json:"parentAccountID,omitempty"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
	CreatedBy       string    `json:"createdBy"`
}

// ToAccountResponse converts a domain account to its response representation.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       a.AccountID,
		AccountNumber:   a.AccountNumber,
		Name:            a.Name,
		AccountType:     string(a.AccountType),
		ParentAccountID: a.ParentAccountID,
		IsActive:        a.IsActive,
		CreatedAt:       a.CreatedAt,
		CreatedBy:       a.CreatedBy,
	}
}

// ListAccountsResponse wraps a list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ToListAccountsResponse converts domain accounts to the list response.
func ToListAccountsResponse(accounts []domain.Account) ListAccountsResponse {
	resp := ListAccountsResponse{Accounts: make([]AccountResponse, len(accounts))}
	for i := range accounts {
		resp.Accounts[i] = ToAccountResponse(&accounts[i])
	}
	return resp
}
