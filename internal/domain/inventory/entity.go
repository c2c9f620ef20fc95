package inventory

import "time"

// Stock statuses derived from stock level against the minimum.
const (
	StatusInStock    = "in-stock"
	StatusLowStock   = "low-stock"
	StatusOutOfStock = "out-of-stock"
)

// Product is one stocked item. Price is in paise.
type Product struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	SKU       string    `json:"sku"`
	Category  string    `json:"category"`
	Price     int64     `json:"price"`
	Stock     int       `json:"stock"`
	MinStock  int       `json:"min_stock"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"last_updated"`
}

// DeriveStatus computes the stock status from the current level.
func DeriveStatus(stock, minStock int) string {
	switch {
	case stock <= 0:
		return StatusOutOfStock
	case stock < minStock:
		return StatusLowStock
	default:
		return StatusInStock
	}
}
