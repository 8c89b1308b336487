package domain

import "time"

// TransactionType identifies the voucher kind a transaction was recorded as.
type TransactionType string

const (
	CashReceipt TransactionType = "CRV" // cash receipt voucher
	CashPayment TransactionType = "CPV" // cash payment voucher
	BankPayment TransactionType = "BPV" // bank payment voucher
	BankReceipt TransactionType = "BRV" // bank receipt voucher
	JournalVch  TransactionType = "JV"  // general journal voucher
)

// IsValid reports whether t is one of the known voucher types.
func (t TransactionType) IsValid() bool {
	switch t {
	case CashReceipt, CashPayment, BankPayment, BankReceipt, JournalVch:
		return true
	}
	return false
}

// TransactionStatus indicates the lifecycle state of a transaction.
// The posting engine only ever writes Posted; Draft and Cancelled exist for
// historical data read back from storage.
type TransactionStatus string

const (
	Draft     TransactionStatus = "DRAFT"
	Posted    TransactionStatus = "POSTED"
	Cancelled TransactionStatus = "CANCELLED"
)

// Transaction represents a single, balanced financial event owning an ordered
// set of entries. Once posted it is immutable; corrections are new reversing
// transactions, never mutations.
type Transaction struct {
	TransactionID     string            `json:"transactionID"`     // Primary Key (UUID)
	TransactionNumber string            `json:"transactionNumber"` // Generated, opaque to callers
	TransactionType   TransactionType   `json:"transactionType"`
	Description       string            `json:"description"`
	TransactionDate   time.Time         `json:"transactionDate"` // Date the event occurred
	Status            TransactionStatus `json:"status"`
	ReferenceNumber   string            `json:"referenceNumber"` // Optional external reference
	Entries           []Entry           `json:"entries,omitempty"`
	AuditFields
}
