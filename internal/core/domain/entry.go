package domain

import "github.com/shopspring/decimal"

// Entry is a single line of a transaction, affecting exactly one account.
// Convention: exactly one of DebitAmount/CreditAmount is non-zero.
type Entry struct {
	EntryID       string          `json:"entryID"`       // Primary Key (UUID)
	TransactionID string          `json:"transactionID"` // FK -> Transaction.transactionID (Not Null)
	AccountID     string          `json:"accountID"`     // FK -> Account.accountID (Not Null)
	DebitAmount   decimal.Decimal `json:"debitAmount"`   // >= 0
	CreditAmount  decimal.Decimal `json:"creditAmount"`  // >= 0
	Description   string          `json:"description"`   // Nullable
	LineNo        int             `json:"lineNo"`        // Insertion order within the transaction
	AuditFields
}

// IsDebit reports whether the entry carries its value on the debit side.
func (e Entry) IsDebit() bool {
	return e.DebitAmount.IsPositive()
}
