package domain

import "time"

// EntryFilter enumerates the optional conditions the storage adapter applies
// when listing transactions or aggregating entries. Nil fields are ignored.
// This replaces ad-hoc string-built query conditions with one structure
// interpreted uniformly by the repository layer.
type EntryFilter struct {
	DateFrom  *time.Time
	DateTo    *time.Time
	AccountID *string
	Status    *TransactionStatus
	Type      *TransactionType
}
