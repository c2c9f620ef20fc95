// internal/repository/postgres/party_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"greenwell-service/internal/domain/party"
	xerrors "greenwell-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PartyRepository struct {
	db *pgxpool.Pool
}

func NewPartyRepository(db *pgxpool.Pool) *PartyRepository {
	return &PartyRepository{db: db}
}

const partyColumns = `id, name, gst, contact_person, contact, address, state, dist,
	city, pincode, opening_balance, current_balance, is_active, type, email,
	balance_type, created_at`

func scanParty(row pgx.Row) (*party.Party, error) {
	var p party.Party
	err := row.Scan(
		&p.ID, &p.Name, &p.GST, &p.ContactPerson, &p.Contact, &p.Address,
		&p.State, &p.Dist, &p.City, &p.Pincode, &p.OpeningBalance,
		&p.CurrentBalance, &p.IsActive, &p.Type, &p.Email, &p.BalanceType,
		&p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan party: %w", err)
	}
	return &p, nil
}

// List returns parties matching the filters.
func (r *PartyRepository) List(ctx context.Context, filters party.ListFilters) ([]*party.Party, error) {
	query := `SELECT ` + partyColumns + ` FROM parties WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if filters.Search != "" {
		query += fmt.Sprintf(` AND (name ILIKE $%d OR contact_person ILIKE $%d OR city ILIKE $%d)`, argPos, argPos, argPos)
		args = append(args, "%"+filters.Search+"%")
		argPos++
	}
	if filters.Type != "" {
		query += fmt.Sprintf(` AND type = $%d`, argPos)
		args = append(args, filters.Type)
		argPos++
	}
	if filters.Active != nil {
		query += fmt.Sprintf(` AND is_active = $%d`, argPos)
		args = append(args, *filters.Active)
		argPos++
	}
	query += ` ORDER BY name`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list parties: %w", err)
	}
	defer rows.Close()

	var parties []*party.Party
	for rows.Next() {
		p, err := scanParty(rows)
		if err != nil {
			return nil, err
		}
		parties = append(parties, p)
	}

	return parties, rows.Err()
}

// Get retrieves one party by ID.
func (r *PartyRepository) Get(ctx context.Context, id int64) (*party.Party, error) {
	row := r.db.QueryRow(ctx, `SELECT `+partyColumns+` FROM parties WHERE id = $1`, id)
	return scanParty(row)
}

// Create inserts a new party. The current balance starts at the opening
// balance.
func (r *PartyRepository) Create(ctx context.Context, p *party.Party) error {
	query := `
		INSERT INTO parties (name, gst, contact_person, contact, address, state,
			dist, city, pincode, opening_balance, current_balance, is_active,
			type, email, balance_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10, true, $11, $12, $13)
		RETURNING id, current_balance, is_active, created_at
	`

	err := r.db.QueryRow(ctx, query,
		p.Name, p.GST, p.ContactPerson, p.Contact, p.Address, p.State,
		p.Dist, p.City, p.Pincode, p.OpeningBalance, p.Type, p.Email,
		p.BalanceType,
	).Scan(&p.ID, &p.CurrentBalance, &p.IsActive, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create party: %w", err)
	}

	return nil
}

// Update overwrites a party's mutable fields.
func (r *PartyRepository) Update(ctx context.Context, p *party.Party) error {
	query := `
		UPDATE parties
		SET name = $2, gst = $3, contact_person = $4, contact = $5, address = $6,
		    state = $7, dist = $8, city = $9, pincode = $10, email = $11
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		p.ID, p.Name, p.GST, p.ContactPerson, p.Contact, p.Address,
		p.State, p.Dist, p.City, p.Pincode, p.Email,
	)
	if err != nil {
		return fmt.Errorf("failed to update party: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// SetActive flips a party's active flag.
func (r *PartyRepository) SetActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.db.Exec(ctx, `UPDATE parties SET is_active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("failed to set party active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// AdjustBalance shifts a party's current balance by delta (positive or
// negative paise).
func (r *PartyRepository) AdjustBalance(ctx context.Context, tx pgx.Tx, id int64, delta int64) (int64, error) {
	var balance int64
	err := tx.QueryRow(ctx,
		`UPDATE parties SET current_balance = current_balance + $2 WHERE id = $1 RETURNING current_balance`,
		id, delta,
	).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, xerrors.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to adjust balance: %w", err)
	}
	return balance, nil
}

// BalanceTotals sums current balances by balance type for active parties.
func (r *PartyRepository) BalanceTotals(ctx context.Context) (receivable, payable int64, err error) {
	query := `
		SELECT
			COALESCE(SUM(current_balance) FILTER (WHERE balance_type = 'receivable'), 0),
			COALESCE(SUM(current_balance) FILTER (WHERE balance_type = 'payable'), 0)
		FROM parties
		WHERE is_active
	`
	if err := r.db.QueryRow(ctx, query).Scan(&receivable, &payable); err != nil {
		return 0, 0, fmt.Errorf("failed to total balances: %w", err)
	}
	return receivable, payable, nil
}
