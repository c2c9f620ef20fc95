// internal/repository/postgres/ledger_repo.go
package postgres

import (
	"context"
	"fmt"

	"greenwell-service/internal/domain/ledger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LedgerRepository struct {
	db *pgxpool.Pool
}

func NewLedgerRepository(db *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// CreateEntry appends an entry inside the given transaction. Balance must
// already hold the running balance after this entry.
func (r *LedgerRepository) CreateEntry(ctx context.Context, tx pgx.Tx, e *ledger.Entry) error {
	query := `
		INSERT INTO ledger_entries (party_id, entry_date, type, description, reference, amount, balance)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := tx.QueryRow(ctx, query,
		e.PartyID, e.Date, e.Type, e.Description, e.Reference, e.Amount, e.Balance,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("failed to create ledger entry: %w", err)
	}

	return nil
}

// ListByParty returns a party's entries, newest first, optionally windowed.
func (r *LedgerRepository) ListByParty(ctx context.Context, partyID int64, filters ledger.StatementFilters) ([]*ledger.Entry, error) {
	query := `
		SELECT id, party_id, entry_date, type, description, reference, amount, balance
		FROM ledger_entries
		WHERE party_id = $1
	`
	args := []interface{}{partyID}
	argPos := 2

	if filters.From != nil {
		query += fmt.Sprintf(` AND entry_date >= $%d`, argPos)
		args = append(args, *filters.From)
		argPos++
	}
	if filters.To != nil {
		query += fmt.Sprintf(` AND entry_date <= $%d`, argPos)
		args = append(args, *filters.To)
		argPos++
	}
	query += ` ORDER BY entry_date DESC, id DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []*ledger.Entry
	for rows.Next() {
		var e ledger.Entry
		err := rows.Scan(
			&e.ID, &e.PartyID, &e.Date, &e.Type, &e.Description,
			&e.Reference, &e.Amount, &e.Balance,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, &e)
	}

	return entries, rows.Err()
}

// Totals sums debits and credits for a party.
func (r *LedgerRepository) Totals(ctx context.Context, partyID int64) (debit, credit int64, err error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = 'debit'), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'credit'), 0)
		FROM ledger_entries
		WHERE party_id = $1
	`
	if err := r.db.QueryRow(ctx, query, partyID).Scan(&debit, &credit); err != nil {
		return 0, 0, fmt.Errorf("failed to total ledger: %w", err)
	}
	return debit, credit, nil
}
