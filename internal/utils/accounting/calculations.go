package accounting

import (
	"fmt"

	"github.com/courierhq/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Tolerance is the maximum difference between debit and credit totals that is
// still considered balanced: 0.01 of the posting currency unit.
var Tolerance = decimal.New(1, -2)

// WithinTolerance reports whether a and b differ by at most Tolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Tolerance)
}

// SignedAmount applies the normal-balance sign convention to an entry.
// DEBIT to ASSET/EXPENSE -> Positive (+)
// CREDIT to ASSET/EXPENSE -> Negative (-)
// DEBIT to LIABILITY/EQUITY/REVENUE -> Negative (-)
// CREDIT to LIABILITY/EQUITY/REVENUE -> Positive (+)
func SignedAmount(entry domain.Entry, accountType domain.AccountType) (decimal.Decimal, error) {
	net := entry.DebitAmount.Sub(entry.CreditAmount)
	switch accountType {
	case domain.Asset, domain.Expense:
		return net, nil
	case domain.Liability, domain.Equity, domain.Revenue:
		return net.Neg(), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s' encountered for account ID %s", accountType, entry.AccountID)
	}
}

// NetBalance converts raw per-account debit/credit sums into the account's
// balance using the same normal-balance convention as SignedAmount.
func NetBalance(accountType domain.AccountType, totalDebits, totalCredits decimal.Decimal) (decimal.Decimal, error) {
	switch accountType {
	case domain.Asset, domain.Expense:
		return totalDebits.Sub(totalCredits), nil
	case domain.Liability, domain.Equity, domain.Revenue:
		return totalCredits.Sub(totalDebits), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s'", accountType)
	}
}

// Totals sums the debit and credit sides of a set of entries.
func Totals(entries []domain.Entry) (totalDebits, totalCredits decimal.Decimal) {
	totalDebits = decimal.Zero
	totalCredits = decimal.Zero
	for _, e := range entries {
		totalDebits = totalDebits.Add(e.DebitAmount)
		totalCredits = totalCredits.Add(e.CreditAmount)
	}
	return totalDebits, totalCredits
}

// ValidateEntryAmounts checks that an entry is a pure debit or pure credit
// line: both sides non-negative and exactly one side non-zero.
func ValidateEntryAmounts(entry domain.Entry) error {
	if entry.DebitAmount.IsNegative() || entry.CreditAmount.IsNegative() {
		return fmt.Errorf("entry amounts must not be negative for account %s", entry.AccountID)
	}
	debitSet := entry.DebitAmount.IsPositive()
	creditSet := entry.CreditAmount.IsPositive()
	if debitSet == creditSet {
		if debitSet {
			return fmt.Errorf("entry for account %s carries both a debit and a credit amount", entry.AccountID)
		}
		return fmt.Errorf("entry for account %s carries neither a debit nor a credit amount", entry.AccountID)
	}
	return nil
}
