package pgsql

import (
	"context"
	"fmt"
	"strconv"

	"github.com/courierhq/ledger_backend/internal/core/domain"
	portsrepo "github.com/courierhq/ledger_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// GetAccountSums aggregates per-account raw debit/credit totals for posted
// entries matching filter, restricted to the given account types (all types
// when empty). Sign conventions are applied by the caller.
func (r *reportingRepository) GetAccountSums(ctx context.Context, filter domain.EntryFilter, types []domain.AccountType) ([]domain.TrialBalanceRow, error) {
	args := []interface{}{}
	clauses := []string{"t.status = 'POSTED'"}
	clauses, args = filterClauses(filter, clauses, args)

	if len(types) > 0 {
		typeStrs := make([]string, len(types))
		for i, at := range types {
			typeStrs[i] = string(at)
		}
		args = append(args, typeStrs)
		clauses = append(clauses, "a.account_type = ANY($"+strconv.Itoa(len(args))+")")
	}

	query := `
		SELECT
			a.account_id,
			a.account_number,
			a.name AS account_name,
			a.account_type,
			COALESCE(SUM(e.debit_amount), 0) AS total_debits,
			COALESCE(SUM(e.credit_amount), 0) AS total_credits
		FROM entries e
		JOIN accounts a ON e.account_id = a.account_id
		JOIN transactions t ON e.transaction_id = t.transaction_id
		WHERE ` + clauses[0]
	for _, clause := range clauses[1:] {
		query += " AND " + clause
	}
	query += `
		GROUP BY a.account_id, a.account_number, a.name, a.account_type
		ORDER BY a.account_number ASC;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying account sums: %w", err)
	}
	defer rows.Close()

	result := []domain.TrialBalanceRow{}
	for rows.Next() {
		var row domain.TrialBalanceRow
		var accountType string

		if err := rows.Scan(
			&row.AccountID,
			&row.AccountNumber,
			&row.AccountName,
			&accountType,
			&row.TotalDebits,
			&row.TotalCredits,
		); err != nil {
			return nil, fmt.Errorf("error scanning account sums row: %w", err)
		}

		row.AccountType = domain.AccountType(accountType)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account sums rows: %w", err)
	}

	return result, nil
}
