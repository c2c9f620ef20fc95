// internal/service/ledger/ledger.go
package ledger

import (
	"context"
	"fmt"
	"time"

	"greenwell-service/internal/domain/ledger"
	"greenwell-service/internal/repository/postgres"

	"go.uber.org/zap"
)

type LedgerService struct {
	ledgerRepo *postgres.LedgerRepository
	partyRepo  *postgres.PartyRepository
	db         *postgres.DB
	logger     *zap.Logger
}

func NewLedgerService(
	ledgerRepo *postgres.LedgerRepository,
	partyRepo *postgres.PartyRepository,
	db *postgres.DB,
	logger *zap.Logger,
) *LedgerService {
	return &LedgerService{
		ledgerRepo: ledgerRepo,
		partyRepo:  partyRepo,
		db:         db,
		logger:     logger,
	}
}

// PostEntry appends a ledger line and moves the party balance atomically.
// Debits raise the running balance, credits lower it.
func (s *LedgerService) PostEntry(ctx context.Context, partyID int64, req *ledger.CreateEntryRequest) (*ledger.Entry, error) {
	delta := req.Amount
	if req.Type == ledger.TypeCredit {
		delta = -req.Amount
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	balance, err := s.partyRepo.AdjustBalance(ctx, tx, partyID, delta)
	if err != nil {
		return nil, err
	}

	entry := &ledger.Entry{
		PartyID:     partyID,
		Date:        time.Now(),
		Type:        req.Type,
		Description: req.Description,
		Reference:   req.Reference,
		Amount:      req.Amount,
		Balance:     balance,
	}
	if err := s.ledgerRepo.CreateEntry(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit tx: %w", err)
	}

	s.logger.Info("ledger entry posted",
		zap.Int64("party_id", partyID),
		zap.String("type", req.Type),
		zap.Int64("amount", req.Amount),
	)
	return entry, nil
}

// Statement returns a party's entries with debit/credit totals and the
// closing balance.
func (s *LedgerService) Statement(ctx context.Context, partyID int64, filters ledger.StatementFilters) (*ledger.Statement, error) {
	p, err := s.partyRepo.Get(ctx, partyID)
	if err != nil {
		return nil, err
	}

	entries, err := s.ledgerRepo.ListByParty(ctx, partyID, filters)
	if err != nil {
		return nil, err
	}

	debit, credit, err := s.ledgerRepo.Totals(ctx, partyID)
	if err != nil {
		return nil, err
	}

	return &ledger.Statement{
		PartyID:        partyID,
		PartyName:      p.Name,
		Entries:        entries,
		TotalDebit:     debit,
		TotalCredit:    credit,
		ClosingBalance: p.CurrentBalance,
	}, nil
}
