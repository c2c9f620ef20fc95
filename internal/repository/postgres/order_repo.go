// internal/repository/postgres/order_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"greenwell-service/internal/domain/order"
	xerrors "greenwell-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type OrderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `o.id, o.reference, o.party_id, p.name, o.products, o.total,
	o.status, o.city, o.marketing_person, o.created_at`

func scanOrder(row pgx.Row) (*order.Order, error) {
	var o order.Order
	err := row.Scan(
		&o.ID, &o.Reference, &o.PartyID, &o.Customer, &o.Products, &o.Total,
		&o.Status, &o.City, &o.MarketingPerson, &o.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}
	return &o, nil
}

// List returns orders matching the filters, newest first.
func (r *OrderRepository) List(ctx context.Context, filters order.ListFilters) ([]*order.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders o JOIN parties p ON p.id = o.party_id WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if filters.Search != "" {
		query += fmt.Sprintf(` AND (o.reference ILIKE $%d OR p.name ILIKE $%d OR o.city ILIKE $%d)`, argPos, argPos, argPos)
		args = append(args, "%"+filters.Search+"%")
		argPos++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(` AND o.status = $%d`, argPos)
		args = append(args, filters.Status)
		argPos++
	}
	query += ` ORDER BY o.created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []*order.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, rows.Err()
}

// GetByReference retrieves one order by its public reference.
func (r *OrderRepository) GetByReference(ctx context.Context, reference string) (*order.Order, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders o JOIN parties p ON p.id = o.party_id WHERE o.reference = $1`,
		reference,
	)
	return scanOrder(row)
}

// Create inserts a new order in pending status.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	query := `
		INSERT INTO orders (reference, party_id, products, total, status, city, marketing_person)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		o.Reference, o.PartyID, pq.Array(o.Products), o.Total, o.Status,
		o.City, o.MarketingPerson,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

// UpdateStatus moves an order to a new pipeline stage.
func (r *OrderRepository) UpdateStatus(ctx context.Context, reference, status string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE orders SET status = $2 WHERE reference = $1`, reference, status)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// CountByStatus returns order counts per pipeline stage.
func (r *OrderRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[status] = n
	}

	return counts, rows.Err()
}
