package accounting

import (
	"testing"

	"github.com/courierhq/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithinTolerance(t *testing.T) {
	assert.True(t, WithinTolerance(decimal.NewFromInt(500), decimal.NewFromInt(500)))
	assert.True(t, WithinTolerance(decimal.RequireFromString("500.00"), decimal.RequireFromString("499.99")))
	assert.True(t, WithinTolerance(decimal.RequireFromString("499.995"), decimal.RequireFromString("500.00")))
	assert.False(t, WithinTolerance(decimal.RequireFromString("500.00"), decimal.RequireFromString("499.98")))
	assert.False(t, WithinTolerance(decimal.NewFromInt(500), decimal.NewFromInt(400)))
}

func TestSignedAmount(t *testing.T) {
	debit := domain.Entry{AccountID: "acc-1", DebitAmount: decimal.NewFromInt(100), CreditAmount: decimal.Zero}
	credit := domain.Entry{AccountID: "acc-1", DebitAmount: decimal.Zero, CreditAmount: decimal.NewFromInt(100)}

	tests := []struct {
		name        string
		accountType domain.AccountType
		entry       domain.Entry
		want        int64
	}{
		{"debit to asset increases", domain.Asset, debit, 100},
		{"credit to asset decreases", domain.Asset, credit, -100},
		{"debit to expense increases", domain.Expense, debit, 100},
		{"credit to expense decreases", domain.Expense, credit, -100},
		{"debit to liability decreases", domain.Liability, debit, -100},
		{"credit to liability increases", domain.Liability, credit, 100},
		{"debit to equity decreases", domain.Equity, debit, -100},
		{"credit to equity increases", domain.Equity, credit, 100},
		{"debit to revenue decreases", domain.Revenue, debit, -100},
		{"credit to revenue increases", domain.Revenue, credit, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SignedAmount(tt.entry, tt.accountType)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.NewFromInt(tt.want)), "got %s, want %d", got, tt.want)
		})
	}
}

func TestSignedAmount_UnknownType(t *testing.T) {
	entry := domain.Entry{AccountID: "acc-1", DebitAmount: decimal.NewFromInt(100)}
	_, err := SignedAmount(entry, domain.AccountType("SUSPENSE"))
	assert.Error(t, err)
}

func TestNetBalance(t *testing.T) {
	debits := decimal.NewFromInt(800)
	credits := decimal.NewFromInt(300)

	asset, err := NetBalance(domain.Asset, debits, credits)
	require.NoError(t, err)
	assert.True(t, asset.Equal(decimal.NewFromInt(500)))

	liability, err := NetBalance(domain.Liability, debits, credits)
	require.NoError(t, err)
	assert.True(t, liability.Equal(decimal.NewFromInt(-500)))

	_, err = NetBalance(domain.AccountType("BOGUS"), debits, credits)
	assert.Error(t, err)
}

func TestTotals(t *testing.T) {
	entries := []domain.Entry{
		{DebitAmount: decimal.NewFromInt(500), CreditAmount: decimal.Zero},
		{DebitAmount: decimal.Zero, CreditAmount: decimal.NewFromInt(300)},
		{DebitAmount: decimal.Zero, CreditAmount: decimal.NewFromInt(200)},
	}

	totalDebits, totalCredits := Totals(entries)
	assert.True(t, totalDebits.Equal(decimal.NewFromInt(500)))
	assert.True(t, totalCredits.Equal(decimal.NewFromInt(500)))

	totalDebits, totalCredits = Totals(nil)
	assert.True(t, totalDebits.IsZero())
	assert.True(t, totalCredits.IsZero())
}

func TestValidateEntryAmounts(t *testing.T) {
	valid := domain.Entry{AccountID: "acc-1", DebitAmount: decimal.NewFromInt(100), CreditAmount: decimal.Zero}
	assert.NoError(t, ValidateEntryAmounts(valid))

	validCredit := domain.Entry{AccountID: "acc-1", DebitAmount: decimal.Zero, CreditAmount: decimal.NewFromInt(100)}
	assert.NoError(t, ValidateEntryAmounts(validCredit))

	bothSides := domain.Entry{AccountID: "acc-1", DebitAmount: decimal.NewFromInt(100), CreditAmount: decimal.NewFromInt(100)}
	err := ValidateEntryAmounts(bothSides)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both")

	neitherSide := domain.Entry{AccountID: "acc-1"}
	err = ValidateEntryAmounts(neitherSide)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "neither")

	negative := domain.Entry{AccountID: "acc-1", DebitAmount: decimal.NewFromInt(-100)}
	assert.Error(t, ValidateEntryAmounts(negative))
}
