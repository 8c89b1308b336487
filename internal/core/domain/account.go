package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// IsValid reports whether t is one of the five known account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// Account represents a node in the chart of accounts.
// AccountNumber is the stable, human-assigned identity ("1000", "4000", ...);
// AccountID is the surrogate key used for foreign keys.
type Account struct {
	AccountID       string      `json:"accountID"`       // Primary Key (UUID)
	AccountNumber   string      `json:"accountNumber"`   // Unique, human-assigned
	Name            string      `json:"name"`            // User-defined name
	AccountType     AccountType `json:"accountType"`     // ASSET, LIABILITY, etc.
	ParentAccountID string      `json:"parentAccountID"` // Nullable FK -> accounts.account_id (self-referencing)
	IsActive        bool        `json:"isActive"`
	AuditFields                 // Embed CreatedAt, CreatedBy, etc.
}
