package vouchernum

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/courierhq/ledger_backend/internal/core/domain"
)

// Generate produces a transaction number in the format
// <TYPE-PREFIX><millisecond-timestamp><4-digit-random-suffix>, e.g.
// "CRV17244000000001234". The format is carried over from the source system;
// callers must treat the result as opaque. Uniqueness comes from combining
// monotonic-enough time with a random suffix.
func Generate(txnType domain.TransactionType) (string, error) {
	suffix, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", fmt.Errorf("failed to read random suffix: %w", err)
	}
	return fmt.Sprintf("%s%d%04d", txnType, time.Now().UnixMilli(), suffix.Int64()), nil
}
