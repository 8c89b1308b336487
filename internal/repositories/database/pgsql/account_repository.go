package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/courierhq/ledger_backend/internal/apperrors"
	"github.com/courierhq/ledger_backend/internal/core/domain"
	portsrepo "github.com/courierhq/ledger_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountColumns = `account_id, account_number, name, account_type, parent_account_id, is_active, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for chart-of-accounts data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

// scanAccount scans one account row. parent_account_id is nullable.
func scanAccount(row pgx.Row) (domain.Account, error) {
	var acc domain.Account
	var parentID sql.NullString

	err := row.Scan(
		&acc.AccountID,
		&acc.AccountNumber,
		&acc.Name,
		&acc.AccountType,
		&parentID,
		&acc.IsActive,
		&acc.CreatedAt,
		&acc.CreatedBy,
		&acc.LastUpdatedAt,
		&acc.LastUpdatedBy,
	)
	if err != nil {
		return domain.Account{}, err
	}
	if parentID.Valid {
		acc.ParentAccountID = parentID.String
	}
	return acc, nil
}

// nullableParent maps an empty parent reference to SQL NULL.
func nullableParent(parentAccountID string) sql.NullString {
	if parentAccountID == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: parentAccountID, Valid: true}
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		account.AccountID,
		account.AccountNumber,
		account.Name,
		account.AccountType,
		nullableParent(account.ParentAccountID),
		account.IsActive,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: account number %s already exists", apperrors.ErrConflict, account.AccountNumber)
		}
		return fmt.Errorf("failed to save account %s: %w", account.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account by its surrogate ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`

	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	return &acc, nil
}

// FindAccountByNumber retrieves an account by its human-assigned number.
func (r *PgxAccountRepository) FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1;`

	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, accountNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by number %s: %w", accountNumber, err)
	}
	return &acc, nil
}

// FindAccountsByIDs retrieves multiple accounts by their IDs.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1);`

	rows, err := r.Pool.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by IDs: %w", err)
	}
	defer rows.Close()

	accountsMap := make(map[string]domain.Account)
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accountsMap[acc.AccountID] = acc
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accountsMap, nil
}

// ListAccounts retrieves accounts ordered by account number ascending.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY account_number ASC LIMIT $1 OFFSET $2;`

	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// HasEntries reports whether any journal entry references the account.
func (r *PgxAccountRepository) HasEntries(ctx context.Context, accountID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM entries WHERE account_id = $1);`

	var exists bool
	if err := r.Pool.QueryRow(ctx, query, accountID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check entries for account %s: %w", accountID, err)
	}
	return exists, nil
}

// serializationFailure reports whether err carries SQLSTATE 40001, the
// serialization failure raised when serializable transactions conflict.
func serializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "40001"
}

// retryableConflict converts a serialization failure into the conflict
// sentinel so the caller can retry the update against the committed tree.
// Other errors pass through unchanged.
func retryableConflict(err error, accountID string) error {
	if serializationFailure(err) {
		return fmt.Errorf("%w: account %s hierarchy changed concurrently, retry the update", apperrors.ErrConflict, accountID)
	}
	return err
}

// UpdateAccount persists name/parent/active changes. The ancestor cycle check
// and the write run in one serializable transaction: two concurrent
// re-parents that would jointly close a cycle each read the other's parent
// chain, so one of them aborts with SQLSTATE 40001 and surfaces as
// ErrConflict for the caller to retry. Row locks alone cannot cover this,
// the two updates touch disjoint rows.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	defer r.Rollback(ctx, tx)

	if account.ParentAccountID != "" {
		cycleQuery := `
			WITH RECURSIVE ancestors AS (
				SELECT account_id, parent_account_id
				FROM accounts
				WHERE account_id = $1
				UNION ALL
				SELECT a.account_id, a.parent_account_id
				FROM accounts a
				JOIN ancestors an ON a.account_id = an.parent_account_id
			)
			SELECT EXISTS (SELECT 1 FROM ancestors WHERE account_id = $2);
		`
		var cycles bool
		if err := tx.QueryRow(ctx, cycleQuery, account.ParentAccountID, account.AccountID).Scan(&cycles); err != nil {
			return retryableConflict(fmt.Errorf("failed to check account hierarchy for %s: %w", account.AccountID, err), account.AccountID)
		}
		if cycles {
			return fmt.Errorf("%w: parent %s would create a cycle for account %s", apperrors.ErrValidation, account.ParentAccountID, account.AccountID)
		}
	}

	query := `
		UPDATE accounts
		SET name = $2,
		    parent_account_id = $3,
		    is_active = $4,
		    last_updated_at = $5,
		    last_updated_by = $6
		WHERE account_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query,
		account.AccountID,
		account.Name,
		nullableParent(account.ParentAccountID),
		account.IsActive,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		return retryableConflict(fmt.Errorf("failed to update account %s: %w", account.AccountID, err), account.AccountID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("account " + account.AccountID + " not found for update")
	}

	if err := r.Commit(ctx, tx); err != nil {
		return retryableConflict(err, account.AccountID)
	}
	return nil
}

// DeleteAccount removes an account. The service checks for referencing entries
// first; the foreign key is the authoritative guard under concurrency.
func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	query := `DELETE FROM accounts WHERE account_id = $1;`

	cmdTag, err := r.Pool.Exec(ctx, query, accountID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // Foreign key violation
			return fmt.Errorf("%w: account %s is referenced by existing rows", apperrors.ErrConflict, accountID)
		}
		return fmt.Errorf("failed to delete account %s: %w", accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("account " + accountID + " not found for delete")
	}
	return nil
}
