// internal/service/report/report.go
package report

import (
	"context"

	"greenwell-service/internal/domain/inventory"
	"greenwell-service/internal/domain/order"
	"greenwell-service/internal/domain/report"
	"greenwell-service/internal/repository/postgres"

	"go.uber.org/zap"
)

type ReportService struct {
	productRepo *postgres.ProductRepository
	orderRepo   *postgres.OrderRepository
	partyRepo   *postgres.PartyRepository
	logger      *zap.Logger
}

func NewReportService(
	productRepo *postgres.ProductRepository,
	orderRepo *postgres.OrderRepository,
	partyRepo *postgres.PartyRepository,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		productRepo: productRepo,
		orderRepo:   orderRepo,
		partyRepo:   partyRepo,
		logger:      logger,
	}
}

// DashboardSummary aggregates the numbers the dashboard landing page shows.
func (s *ReportService) DashboardSummary(ctx context.Context) (*report.DashboardSummary, error) {
	products, err := s.productRepo.List(ctx, inventory.ListFilters{})
	if err != nil {
		return nil, err
	}

	var stock report.StockStats
	stock.TotalProducts = len(products)
	for _, p := range products {
		switch p.Status {
		case inventory.StatusInStock:
			stock.InStock++
		case inventory.StatusLowStock:
			stock.LowStock++
		case inventory.StatusOutOfStock:
			stock.OutOfStock++
		}
		stock.StockValue += p.Price * int64(p.Stock)
	}

	counts, err := s.orderRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	orders := report.OrderStats{
		Pending:    counts[order.StatusPending],
		Confirmed:  counts[order.StatusConfirmed],
		Packed:     counts[order.StatusPacked],
		Dispatched: counts[order.StatusDispatched],
		Delivered:  counts[order.StatusDelivered],
	}

	receivable, payable, err := s.partyRepo.BalanceTotals(ctx)
	if err != nil {
		return nil, err
	}

	return &report.DashboardSummary{
		Stock:    stock,
		Orders:   orders,
		Balances: report.BalanceStats{Receivable: receivable, Payable: payable},
	}, nil
}
