// internal/repository/postgres/product_repo_test.go
package postgres

import (
	"errors"
	"fmt"
	"testing"

	xerrors "greenwell-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "products_sku_key"}

	assert.True(t, isUniqueViolation(unique))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert product: %w", unique)))

	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("connection reset")))
	assert.False(t, isUniqueViolation(nil))
}

func TestDuplicateSKUMapsToSentinel(t *testing.T) {
	err := xerrors.Wrap(xerrors.ErrDuplicateEntry, "sku already exists")

	assert.True(t, errors.Is(err, xerrors.ErrDuplicateEntry))
	assert.Equal(t, "sku already exists: duplicate entry", err.Error())
}
