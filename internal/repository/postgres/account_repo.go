// internal/repository/postgres/account_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"greenwell-service/internal/domain/account"
	xerrors "greenwell-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AccountRepository struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, name, type, balance, last_transaction_at`

func scanAccount(row pgx.Row) (*account.Account, error) {
	var a account.Account
	err := row.Scan(&a.ID, &a.Name, &a.Type, &a.Balance, &a.LastTransactionAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}
	return &a, nil
}

// List returns all accounts, banks before cash, alphabetical within type.
func (r *AccountRepository) List(ctx context.Context) ([]*account.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY type, name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*account.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}

	return accounts, rows.Err()
}

// Get retrieves one account by ID.
func (r *AccountRepository) Get(ctx context.Context, id int64) (*account.Account, error) {
	row := r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	return scanAccount(row)
}

// Create inserts a new account.
func (r *AccountRepository) Create(ctx context.Context, a *account.Account) error {
	query := `
		INSERT INTO accounts (name, type, balance)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, a.Name, a.Type, a.Balance).Scan(&a.ID)
	if isUniqueViolation(err) {
		return xerrors.Wrap(xerrors.ErrDuplicateEntry, "account name already exists")
	}
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// AdjustBalance moves an account's balance by delta inside the given
// transaction and stamps the movement time. Returns the new balance.
func (r *AccountRepository) AdjustBalance(ctx context.Context, tx pgx.Tx, id, delta int64) (int64, error) {
	query := `
		UPDATE accounts
		SET balance = balance + $2, last_transaction_at = NOW()
		WHERE id = $1
		RETURNING balance
	`

	var balance int64
	err := tx.QueryRow(ctx, query, id, delta).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, xerrors.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to adjust account balance: %w", err)
	}

	return balance, nil
}

// CreateTransaction appends a movement inside the given transaction.
func (r *AccountRepository) CreateTransaction(ctx context.Context, tx pgx.Tx, t *account.Transaction) error {
	query := `
		INSERT INTO account_transactions (account_id, tx_date, type, description, amount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := tx.QueryRow(ctx, query,
		t.AccountID, t.Date, t.Type, t.Description, t.Amount,
	).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("failed to create account transaction: %w", err)
	}

	return nil
}

// ListRecentTransactions returns the latest movements across all accounts,
// newest first, with the account name joined in.
func (r *AccountRepository) ListRecentTransactions(ctx context.Context, limit int) ([]*account.Transaction, error) {
	query := `
		SELECT t.id, t.account_id, a.name, t.tx_date, t.type, t.description, t.amount
		FROM account_transactions t
		JOIN accounts a ON a.id = t.account_id
		ORDER BY t.tx_date DESC, t.id DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list account transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*account.Transaction
	for rows.Next() {
		var t account.Transaction
		err := rows.Scan(
			&t.ID, &t.AccountID, &t.AccountName, &t.Date, &t.Type,
			&t.Description, &t.Amount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account transaction: %w", err)
		}
		transactions = append(transactions, &t)
	}

	return transactions, rows.Err()
}

// SummaryTotals sums balances overall and per account type.
func (r *AccountRepository) SummaryTotals(ctx context.Context) (*account.Summary, error) {
	query := `
		SELECT
			COALESCE(SUM(balance), 0),
			COALESCE(SUM(balance) FILTER (WHERE type = 'cash'), 0),
			COALESCE(SUM(balance) FILTER (WHERE type = 'bank'), 0)
		FROM accounts
	`

	var s account.Summary
	if err := r.db.QueryRow(ctx, query).Scan(&s.TotalBalance, &s.TotalCash, &s.TotalBank); err != nil {
		return nil, fmt.Errorf("failed to total accounts: %w", err)
	}

	return &s, nil
}
