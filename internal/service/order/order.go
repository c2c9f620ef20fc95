// internal/service/order/order.go
package order

import (
	"context"
	"fmt"

	"greenwell-service/internal/domain/ledger"
	"greenwell-service/internal/domain/order"
	xerrors "greenwell-service/internal/pkg/errors"
	"greenwell-service/internal/repository/postgres"
	ledgersvc "greenwell-service/internal/service/ledger"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

type OrderService struct {
	orderRepo     *postgres.OrderRepository
	partyRepo     *postgres.PartyRepository
	ledgerService *ledgersvc.LedgerService
	logger        *zap.Logger
}

func NewOrderService(
	orderRepo *postgres.OrderRepository,
	partyRepo *postgres.PartyRepository,
	ledgerService *ledgersvc.LedgerService,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:     orderRepo,
		partyRepo:     partyRepo,
		ledgerService: ledgerService,
		logger:        logger,
	}
}

// ListOrders returns orders matching the filters.
func (s *OrderService) ListOrders(ctx context.Context, filters order.ListFilters) ([]*order.Order, error) {
	if filters.Status != "" && !order.ValidStatus(filters.Status) {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "unknown order status")
	}
	return s.orderRepo.List(ctx, filters)
}

// GetOrder returns one order by its public reference.
func (s *OrderService) GetOrder(ctx context.Context, reference string) (*order.Order, error) {
	return s.orderRepo.GetByReference(ctx, reference)
}

// CreateOrder opens a pending order for a party and posts the matching
// debit to their ledger.
func (s *OrderService) CreateOrder(ctx context.Context, req *order.CreateOrderRequest) (*order.Order, error) {
	p, err := s.partyRepo.Get(ctx, req.PartyID)
	if err != nil {
		return nil, err
	}

	o := &order.Order{
		Reference:       "ORD-" + ulid.Make().String(),
		PartyID:         p.ID,
		Customer:        p.Name,
		Products:        req.Products,
		Total:           req.Total,
		Status:          order.StatusPending,
		City:            req.City,
		MarketingPerson: req.MarketingPerson,
	}
	if o.City == "" {
		o.City = p.City
	}

	if err := s.orderRepo.Create(ctx, o); err != nil {
		return nil, err
	}

	_, err = s.ledgerService.PostEntry(ctx, p.ID, &ledger.CreateEntryRequest{
		Type:        ledger.TypeDebit,
		Description: fmt.Sprintf("Order #%s - %s", o.Reference, p.Name),
		Reference:   o.Reference,
		Amount:      req.Total,
	})
	if err != nil {
		// The order stands even if the ledger write fails; bookkeeping can
		// be reposted, a lost order cannot.
		s.logger.Error("failed to post order to ledger",
			zap.String("reference", o.Reference),
			zap.Error(err),
		)
	}

	s.logger.Info("order created",
		zap.String("reference", o.Reference),
		zap.Int64("party_id", p.ID),
		zap.Int64("total", o.Total),
	)
	return o, nil
}

// UpdateStatus advances an order one stage through the pipeline.
func (s *OrderService) UpdateStatus(ctx context.Context, reference string, req *order.UpdateStatusRequest) (*order.Order, error) {
	if !order.ValidStatus(req.Status) {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "unknown order status")
	}

	o, err := s.orderRepo.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}

	if !order.CanTransition(o.Status, req.Status) {
		return nil, xerrors.Wrap(xerrors.ErrInvalidTransition,
			fmt.Sprintf("cannot move order from %s to %s", o.Status, req.Status))
	}

	if err := s.orderRepo.UpdateStatus(ctx, reference, req.Status); err != nil {
		return nil, err
	}

	o.Status = req.Status
	return o, nil
}
