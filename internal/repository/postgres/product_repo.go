// internal/repository/postgres/product_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"greenwell-service/internal/domain/inventory"
	xerrors "greenwell-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// isUniqueViolation reports whether err is a postgres unique constraint error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type ProductRepository struct {
	db *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = `id, name, sku, category, price, stock, min_stock, updated_at`

func scanProduct(row pgx.Row) (*inventory.Product, error) {
	var p inventory.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.SKU, &p.Category, &p.Price,
		&p.Stock, &p.MinStock, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}
	p.Status = inventory.DeriveStatus(p.Stock, p.MinStock)
	return &p, nil
}

// List returns products matching the filters, newest update first.
func (r *ProductRepository) List(ctx context.Context, filters inventory.ListFilters) ([]*inventory.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if filters.Search != "" {
		query += fmt.Sprintf(` AND (name ILIKE $%d OR sku ILIKE $%d)`, argPos, argPos)
		args = append(args, "%"+filters.Search+"%")
		argPos++
	}
	if filters.Category != "" {
		query += fmt.Sprintf(` AND category = $%d`, argPos)
		args = append(args, filters.Category)
		argPos++
	}
	query += ` ORDER BY updated_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []*inventory.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		// Status filtering is on the derived value, so it happens here
		if filters.Status != "" && p.Status != filters.Status {
			continue
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

// Get retrieves one product by ID.
func (r *ProductRepository) Get(ctx context.Context, id int64) (*inventory.Product, error) {
	row := r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	return scanProduct(row)
}

// Create inserts a new product.
func (r *ProductRepository) Create(ctx context.Context, p *inventory.Product) error {
	query := `
		INSERT INTO products (name, sku, category, price, stock, min_stock, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		p.Name, p.SKU, p.Category, p.Price, p.Stock, p.MinStock,
	).Scan(&p.ID, &p.UpdatedAt)
	if isUniqueViolation(err) {
		return xerrors.Wrap(xerrors.ErrDuplicateEntry, "sku already exists")
	}
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	p.Status = inventory.DeriveStatus(p.Stock, p.MinStock)
	return nil
}

// Update overwrites a product's mutable fields.
func (r *ProductRepository) Update(ctx context.Context, p *inventory.Product) error {
	query := `
		UPDATE products
		SET name = $2, category = $3, price = $4, stock = $5, min_stock = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(ctx, query,
		p.ID, p.Name, p.Category, p.Price, p.Stock, p.MinStock,
	).Scan(&p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return xerrors.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	p.Status = inventory.DeriveStatus(p.Stock, p.MinStock)
	return nil
}

// Delete removes a product.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}
