// internal/service/account/account.go
package account

import (
	"context"
	"fmt"
	"time"

	"greenwell-service/internal/domain/account"
	"greenwell-service/internal/repository/postgres"

	"go.uber.org/zap"
)

const (
	defaultTransactionLimit = 20
	maxTransactionLimit     = 100
)

type AccountService struct {
	accountRepo *postgres.AccountRepository
	db          *postgres.DB
	logger      *zap.Logger
}

func NewAccountService(
	accountRepo *postgres.AccountRepository,
	db *postgres.DB,
	logger *zap.Logger,
) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		db:          db,
		logger:      logger,
	}
}

// CreateAccount opens a cash or bank account at its opening balance.
func (s *AccountService) CreateAccount(ctx context.Context, req *account.CreateAccountRequest) (*account.Account, error) {
	a := &account.Account{
		Name:    req.Name,
		Type:    req.Type,
		Balance: req.OpeningBalance,
	}
	if err := s.accountRepo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info("account created",
		zap.Int64("account_id", a.ID),
		zap.String("type", a.Type),
	)
	return a, nil
}

// ListAccounts returns all accounts together with the cash/bank totals.
func (s *AccountService) ListAccounts(ctx context.Context) (*account.ListAccountsResponse, error) {
	accounts, err := s.accountRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	summary, err := s.accountRepo.SummaryTotals(ctx)
	if err != nil {
		return nil, err
	}

	return &account.ListAccountsResponse{
		Accounts: accounts,
		Summary:  summary,
	}, nil
}

// RecordTransaction appends a movement and moves the account balance
// atomically. Income raises the balance, expense lowers it.
func (s *AccountService) RecordTransaction(ctx context.Context, accountID int64, req *account.CreateTransactionRequest) (*account.Transaction, error) {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	delta := account.BalanceDelta(req.Type, req.Amount)
	if _, err := s.accountRepo.AdjustBalance(ctx, tx, accountID, delta); err != nil {
		return nil, err
	}

	t := &account.Transaction{
		AccountID:   accountID,
		Date:        time.Now(),
		Type:        req.Type,
		Description: req.Description,
		Amount:      req.Amount,
	}
	if err := s.accountRepo.CreateTransaction(ctx, tx, t); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit tx: %w", err)
	}

	s.logger.Info("account transaction recorded",
		zap.Int64("account_id", accountID),
		zap.String("type", req.Type),
		zap.Int64("amount", req.Amount),
	)
	return t, nil
}

// RecentTransactions returns the latest movements across all accounts.
func (s *AccountService) RecentTransactions(ctx context.Context, limit int) ([]*account.Transaction, error) {
	if limit <= 0 {
		limit = defaultTransactionLimit
	}
	if limit > maxTransactionLimit {
		limit = maxTransactionLimit
	}
	return s.accountRepo.ListRecentTransactions(ctx, limit)
}
