// internal/service/inventory/inventory.go
package inventory

import (
	"context"

	"greenwell-service/internal/domain/inventory"
	xerrors "greenwell-service/internal/pkg/errors"
	"greenwell-service/internal/repository/postgres"

	"go.uber.org/zap"
)

type InventoryService struct {
	productRepo *postgres.ProductRepository
	logger      *zap.Logger
}

func NewInventoryService(productRepo *postgres.ProductRepository, logger *zap.Logger) *InventoryService {
	return &InventoryService{
		productRepo: productRepo,
		logger:      logger,
	}
}

// ListProducts returns products matching the filters.
func (s *InventoryService) ListProducts(ctx context.Context, filters inventory.ListFilters) ([]*inventory.Product, error) {
	return s.productRepo.List(ctx, filters)
}

// GetProduct returns one product.
func (s *InventoryService) GetProduct(ctx context.Context, id int64) (*inventory.Product, error) {
	return s.productRepo.Get(ctx, id)
}

// CreateProduct registers a new stocked item.
func (s *InventoryService) CreateProduct(ctx context.Context, req *inventory.CreateProductRequest) (*inventory.Product, error) {
	p := &inventory.Product{
		Name:     req.Name,
		SKU:      req.SKU,
		Category: req.Category,
		Price:    req.Price,
		Stock:    req.Stock,
		MinStock: req.MinStock,
	}
	if err := s.productRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.Int64("product_id", p.ID),
		zap.String("sku", p.SKU),
	)
	return p, nil
}

// UpdateProduct applies the non-nil fields of req.
func (s *InventoryService) UpdateProduct(ctx context.Context, id int64, req *inventory.UpdateProductRequest) (*inventory.Product, error) {
	p, err := s.productRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "price cannot be negative")
		}
		p.Price = *req.Price
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.MinStock != nil {
		p.MinStock = *req.MinStock
	}

	if err := s.productRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteProduct removes a product.
func (s *InventoryService) DeleteProduct(ctx context.Context, id int64) error {
	return s.productRepo.Delete(ctx, id)
}

// LowStockProducts returns items at or below their minimum level.
func (s *InventoryService) LowStockProducts(ctx context.Context) ([]*inventory.Product, error) {
	all, err := s.productRepo.List(ctx, inventory.ListFilters{})
	if err != nil {
		return nil, err
	}

	var low []*inventory.Product
	for _, p := range all {
		if p.Status != inventory.StatusInStock {
			low = append(low, p)
		}
	}
	return low, nil
}
