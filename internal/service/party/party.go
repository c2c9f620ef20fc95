// internal/service/party/party.go
package party

import (
	"context"

	"greenwell-service/internal/domain/party"
	"greenwell-service/internal/repository/postgres"

	"go.uber.org/zap"
)

type PartyService struct {
	partyRepo *postgres.PartyRepository
	logger    *zap.Logger
}

func NewPartyService(partyRepo *postgres.PartyRepository, logger *zap.Logger) *PartyService {
	return &PartyService{
		partyRepo: partyRepo,
		logger:    logger,
	}
}

// ListParties returns parties matching the filters.
func (s *PartyService) ListParties(ctx context.Context, filters party.ListFilters) ([]*party.Party, error) {
	return s.partyRepo.List(ctx, filters)
}

// GetParty returns one party.
func (s *PartyService) GetParty(ctx context.Context, id int64) (*party.Party, error) {
	return s.partyRepo.Get(ctx, id)
}

// CreateParty registers a customer or supplier.
func (s *PartyService) CreateParty(ctx context.Context, req *party.CreatePartyRequest) (*party.Party, error) {
	balanceType := req.BalanceType
	if balanceType == "" {
		// Customers owe us, we owe suppliers
		if req.Type == party.TypeCustomer {
			balanceType = party.BalanceReceivable
		} else {
			balanceType = party.BalancePayable
		}
	}

	p := &party.Party{
		Name:           req.Name,
		GST:            req.GST,
		ContactPerson:  req.ContactPerson,
		Contact:        req.Contact,
		Address:        req.Address,
		State:          req.State,
		Dist:           req.Dist,
		City:           req.City,
		Pincode:        req.Pincode,
		OpeningBalance: req.OpeningBalance,
		Type:           req.Type,
		Email:          req.Email,
		BalanceType:    balanceType,
	}
	if err := s.partyRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("party created",
		zap.Int64("party_id", p.ID),
		zap.String("type", p.Type),
	)
	return p, nil
}

// UpdateParty applies the non-nil fields of req.
func (s *PartyService) UpdateParty(ctx context.Context, id int64, req *party.UpdatePartyRequest) (*party.Party, error) {
	p, err := s.partyRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.GST != nil {
		p.GST = *req.GST
	}
	if req.ContactPerson != nil {
		p.ContactPerson = *req.ContactPerson
	}
	if req.Contact != nil {
		p.Contact = *req.Contact
	}
	if req.Address != nil {
		p.Address = *req.Address
	}
	if req.State != nil {
		p.State = *req.State
	}
	if req.Dist != nil {
		p.Dist = *req.Dist
	}
	if req.City != nil {
		p.City = *req.City
	}
	if req.Pincode != nil {
		p.Pincode = *req.Pincode
	}
	if req.Email != nil {
		p.Email = *req.Email
	}

	if err := s.partyRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// SetPartyActive flips the active flag.
func (s *PartyService) SetPartyActive(ctx context.Context, id int64, active bool) error {
	return s.partyRepo.SetActive(ctx, id, active)
}
