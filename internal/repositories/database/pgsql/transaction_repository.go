package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/courierhq/ledger_backend/internal/apperrors"
	"github.com/courierhq/ledger_backend/internal/core/domain"
	portsrepo "github.com/courierhq/ledger_backend/internal/core/ports/repositories"
	"github.com/courierhq/ledger_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const transactionColumns = `transaction_id, transaction_number, transaction_type, description, transaction_date, status, reference_number, created_at, created_by, last_updated_at, last_updated_by`

const entryColumns = `entry_id, transaction_id, account_id, debit_amount, credit_amount, description, line_no, created_at, created_by, last_updated_at, last_updated_by`

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for journal data.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepositoryFacade
var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func scanTransaction(row pgx.Row) (domain.Transaction, error) {
	var t domain.Transaction
	err := row.Scan(
		&t.TransactionID,
		&t.TransactionNumber,
		&t.TransactionType,
		&t.Description,
		&t.TransactionDate,
		&t.Status,
		&t.ReferenceNumber,
		&t.CreatedAt,
		&t.CreatedBy,
		&t.LastUpdatedAt,
		&t.LastUpdatedBy,
	)
	return t, err
}

func scanEntry(row pgx.Row) (domain.Entry, error) {
	var e domain.Entry
	err := row.Scan(
		&e.EntryID,
		&e.TransactionID,
		&e.AccountID,
		&e.DebitAmount,
		&e.CreditAmount,
		&e.Description,
		&e.LineNo,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	return e, err
}

// SaveTransaction persists the transaction header and all entries in one
// database transaction: either every row becomes visible or none do.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, entries []domain.Entry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	headerQuery := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = tx.Exec(ctx, headerQuery,
		txn.TransactionID,
		txn.TransactionNumber,
		txn.TransactionType,
		txn.Description,
		txn.TransactionDate,
		txn.Status,
		txn.ReferenceNumber,
		txn.CreatedAt,
		txn.CreatedBy,
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: transaction number %s already exists", apperrors.ErrConflict, txn.TransactionNumber)
		}
		return apperrors.NewAppError(500, "failed to insert transaction "+txn.TransactionID, err)
	}

	batch := &pgx.Batch{}
	entryQuery := `
		INSERT INTO entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	for _, e := range entries {
		batch.Queue(entryQuery,
			e.EntryID,
			e.TransactionID,
			e.AccountID,
			e.DebitAmount,
			e.CreditAmount,
			e.Description,
			e.LineNo,
			e.CreatedAt,
			e.CreatedBy,
			e.LastUpdatedAt,
			e.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute entry batch for transaction "+txn.TransactionID, err)
	}

	return r.Commit(ctx, tx)
}

// FindTransactionByID retrieves a transaction with its entries.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`
	return r.findTransaction(ctx, query, transactionID)
}

// FindTransactionByNumber retrieves a transaction by its generated number.
func (r *PgxTransactionRepository) FindTransactionByNumber(ctx context.Context, transactionNumber string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_number = $1;`
	return r.findTransaction(ctx, query, transactionNumber)
}

func (r *PgxTransactionRepository) findTransaction(ctx context.Context, query string, key string) (*domain.Transaction, error) {
	txn, err := scanTransaction(r.Pool.QueryRow(ctx, query, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", key, err)
	}

	entries, err := r.findEntriesByTransactionID(ctx, txn.TransactionID)
	if err != nil {
		return nil, err
	}
	txn.Entries = entries
	return &txn, nil
}

func (r *PgxTransactionRepository) findEntriesByTransactionID(ctx context.Context, transactionID string) ([]domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE transaction_id = $1 ORDER BY line_no;`

	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries for transaction %s: %w", transactionID, err)
	}
	defer rows.Close()

	entries := []domain.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry row for transaction %s: %w", transactionID, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry rows for transaction %s: %w", transactionID, err)
	}
	return entries, nil
}

// filterClauses appends WHERE conditions and args for the filter. Every
// condition is driven off the filter struct; no caller-supplied SQL fragments.
func filterClauses(filter domain.EntryFilter, clauses []string, args []interface{}) ([]string, []interface{}) {
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		clauses = append(clauses, "t.transaction_date >= $"+strconv.Itoa(len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		clauses = append(clauses, "t.transaction_date <= $"+strconv.Itoa(len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, "t.status = $"+strconv.Itoa(len(args)))
	}
	if filter.Type != nil {
		args = append(args, *filter.Type)
		clauses = append(clauses, "t.transaction_type = $"+strconv.Itoa(len(args)))
	}
	if filter.AccountID != nil {
		args = append(args, *filter.AccountID)
		clauses = append(clauses, "EXISTS (SELECT 1 FROM entries fe WHERE fe.transaction_id = t.transaction_id AND fe.account_id = $"+strconv.Itoa(len(args))+")")
	}
	return clauses, args
}

// ListTransactions retrieves a filtered, token-paginated list of transaction
// headers, newest first.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, filter domain.EntryFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to determine whether a next page exists.
	fetchLimit := limit + 1

	clauses := []string{}
	args := []interface{}{}
	clauses, args = filterClauses(filter, clauses, args)

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastDate, lastCreatedAt)
		clauses = append(clauses, "(t.transaction_date, t.created_at) < ($"+strconv.Itoa(len(args)-1)+", $"+strconv.Itoa(len(args))+")")
	}

	query := `SELECT ` + prefixedTransactionColumns + ` FROM transactions t`
	for i, clause := range clauses {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}
	args = append(args, fetchLimit)
	query += " ORDER BY t.transaction_date DESC, t.created_at DESC LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query transactions", err)
	}
	defer rows.Close()

	transactions := make([]domain.Transaction, 0, fetchLimit)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan transaction row", err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating transaction rows", err)
	}

	var nextTokenVal *string
	if len(transactions) > limit {
		last := transactions[limit-1]
		token := pagination.EncodeToken(last.TransactionDate, last.CreatedAt)
		nextTokenVal = &token
		transactions = transactions[:limit]
	}

	return transactions, nextTokenVal, nil
}

// SumEntriesForAccount returns the raw debit and credit totals of posted
// entries for the account, restricted by filter.
func (r *PgxTransactionRepository) SumEntriesForAccount(ctx context.Context, accountID string, filter domain.EntryFilter) (decimal.Decimal, decimal.Decimal, error) {
	return sumEntries(ctx, r.Pool, accountID, filter)
}

// queryRower covers both pgxpool.Pool and pgx.Tx.
type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func sumEntries(ctx context.Context, q queryRower, accountID string, filter domain.EntryFilter) (decimal.Decimal, decimal.Decimal, error) {
	args := []interface{}{accountID}
	clauses := []string{"e.account_id = $1", "t.status = 'POSTED'"}
	clauses, args = filterClauses(filter, clauses, args)

	query := `
		SELECT COALESCE(SUM(e.debit_amount), 0), COALESCE(SUM(e.credit_amount), 0)
		FROM entries e
		JOIN transactions t ON e.transaction_id = t.transaction_id
		WHERE ` + clauses[0]
	for _, clause := range clauses[1:] {
		query += " AND " + clause
	}
	query += ";"

	var totalDebits, totalCredits decimal.Decimal
	if err := q.QueryRow(ctx, query, args...).Scan(&totalDebits, &totalCredits); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum entries for account %s: %w", accountID, err)
	}
	return totalDebits, totalCredits, nil
}

// FindEntriesForAccount returns the account's ledger rows in chronological
// order together with the raw sums of posted entries dated before
// filter.DateFrom. Both reads run inside one repeatable-read transaction so
// the opening balance and the rows reflect the same journal snapshot.
func (r *PgxTransactionRepository) FindEntriesForAccount(ctx context.Context, accountID string, filter domain.EntryFilter) ([]domain.LedgerRow, decimal.Decimal, decimal.Decimal, error) {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, decimal.Zero, decimal.Zero, apperrors.NewAppError(500, "failed to begin ledger read transaction", err)
	}
	defer r.Rollback(ctx, tx)

	openingDebits := decimal.Zero
	openingCredits := decimal.Zero
	if filter.DateFrom != nil {
		// Opening balance covers entries strictly before the window.
		before := filter.DateFrom.Add(-1)
		openingDebits, openingCredits, err = sumEntries(ctx, tx, accountID, domain.EntryFilter{DateTo: &before})
		if err != nil {
			return nil, decimal.Zero, decimal.Zero, err
		}
	}

	args := []interface{}{accountID}
	clauses := []string{"e.account_id = $1", "t.status = 'POSTED'"}
	clauses, args = filterClauses(filter, clauses, args)

	query := `
		SELECT ` + prefixedTransactionColumns + `, ` + prefixedEntryColumns + `
		FROM entries e
		JOIN transactions t ON e.transaction_id = t.transaction_id
		WHERE ` + clauses[0]
	for _, clause := range clauses[1:] {
		query += " AND " + clause
	}
	query += " ORDER BY t.transaction_date ASC, t.created_at ASC, e.line_no ASC;"

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, decimal.Zero, decimal.Zero, apperrors.NewAppError(500, "failed to query ledger entries for account "+accountID, err)
	}
	defer rows.Close()

	ledgerRows := []domain.LedgerRow{}
	for rows.Next() {
		var row domain.LedgerRow
		err := rows.Scan(
			&row.Transaction.TransactionID,
			&row.Transaction.TransactionNumber,
			&row.Transaction.TransactionType,
			&row.Transaction.Description,
			&row.Transaction.TransactionDate,
			&row.Transaction.Status,
			&row.Transaction.ReferenceNumber,
			&row.Transaction.CreatedAt,
			&row.Transaction.CreatedBy,
			&row.Transaction.LastUpdatedAt,
			&row.Transaction.LastUpdatedBy,
			&row.Entry.EntryID,
			&row.Entry.TransactionID,
			&row.Entry.AccountID,
			&row.Entry.DebitAmount,
			&row.Entry.CreditAmount,
			&row.Entry.Description,
			&row.Entry.LineNo,
			&row.Entry.CreatedAt,
			&row.Entry.CreatedBy,
			&row.Entry.LastUpdatedAt,
			&row.Entry.LastUpdatedBy,
		)
		if err != nil {
			return nil, decimal.Zero, decimal.Zero, apperrors.NewAppError(500, "failed to scan ledger row for account "+accountID, err)
		}
		ledgerRows = append(ledgerRows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, decimal.Zero, decimal.Zero, apperrors.NewAppError(500, "error iterating ledger rows for account "+accountID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, decimal.Zero, decimal.Zero, err
	}
	return ledgerRows, openingDebits, openingCredits, nil
}

const prefixedTransactionColumns = `t.transaction_id, t.transaction_number, t.transaction_type, t.description, t.transaction_date, t.status, t.reference_number, t.created_at, t.created_by, t.last_updated_at, t.last_updated_by`

const prefixedEntryColumns = `e.entry_id, e.transaction_id, e.account_id, e.debit_amount, e.credit_amount, e.description, e.line_no, e.created_at, e.created_by, e.last_updated_at, e.last_updated_by`
