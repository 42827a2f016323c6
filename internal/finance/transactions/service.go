package transactions

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gestio-erp/gestio-erp/internal/shared"
)

// Notifier is told whenever the ledger changes so derived state (balances,
// caches) can be recomputed. A nil notifier disables notifications.
type Notifier interface {
	LedgerChanged(ctx context.Context, companyID int64)
}

type Service struct {
	repo     Repository
	notifier Notifier
	logger   *slog.Logger
}

func NewService(repo Repository, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{repo: repo, notifier: notifier, logger: logger}
}

func (s *Service) ListByCompany(ctx context.Context, companyID int64, filter ListFilter) ([]Transaction, error) {
	if companyID <= 0 {
		return nil, fmt.Errorf("%w: invalid company ID", shared.ErrValidation)
	}
	return s.repo.ListByCompany(ctx, companyID, filter)
}

func (s *Service) ListPaidWithAccount(ctx context.Context, companyID int64) ([]Transaction, error) {
	if companyID <= 0 {
		return nil, fmt.Errorf("%w: invalid company ID", shared.ErrValidation)
	}
	return s.repo.ListPaidWithAccount(ctx, companyID)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Transaction, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, txn Transaction) (Transaction, error) {
	if err := s.validate(txn); err != nil {
		return Transaction{}, err
	}
	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	if txn.Status == "" {
		txn.Status = StatusPending
	}
	if txn.Status == StatusPaid && txn.PaidAt == nil {
		now := time.Now().UTC()
		txn.PaidAt = &now
	}
	created, err := s.repo.Create(ctx, txn)
	if err != nil {
		return Transaction{}, err
	}
	s.notifyChanged(ctx, created.CompanyID)
	return created, nil
}

func (s *Service) Update(ctx context.Context, txn Transaction) error {
	if txn.ID == uuid.Nil {
		return fmt.Errorf("%w: invalid transaction ID", shared.ErrValidation)
	}
	if err := s.validate(txn); err != nil {
		return err
	}
	if txn.Status == StatusPaid && txn.PaidAt == nil {
		now := time.Now().UTC()
		txn.PaidAt = &now
	}
	if err := s.repo.Update(ctx, txn); err != nil {
		return err
	}
	s.notifyChanged(ctx, txn.CompanyID)
	return nil
}

// MarkPaid settles a pending transaction.
func (s *Service) MarkPaid(ctx context.Context, id uuid.UUID) (Transaction, error) {
	txn, err := s.repo.Get(ctx, id)
	if err != nil {
		return Transaction{}, err
	}
	if txn.Status == StatusPaid {
		return txn, nil
	}
	now := time.Now().UTC()
	txn.Status = StatusPaid
	txn.PaidAt = &now
	if err := s.repo.Update(ctx, txn); err != nil {
		return Transaction{}, err
	}
	s.notifyChanged(ctx, txn.CompanyID)
	return txn, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	txn, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.notifyChanged(ctx, txn.CompanyID)
	return nil
}

func (s *Service) validate(txn Transaction) error {
	if txn.CompanyID <= 0 {
		return fmt.Errorf("%w: transaction must belong to a company", shared.ErrValidation)
	}
	switch txn.Kind {
	case KindRevenue, KindExpense:
	default:
		return fmt.Errorf("%w: transaction kind must be revenue or expense", shared.ErrValidation)
	}
	if txn.Amount.IsNegative() {
		return fmt.Errorf("%w: transaction amount must not be negative", shared.ErrValidation)
	}
	switch txn.Status {
	case "", StatusPending, StatusPaid, StatusCancelled:
	default:
		return fmt.Errorf("%w: unknown transaction status", shared.ErrValidation)
	}
	return nil
}

func (s *Service) notifyChanged(ctx context.Context, companyID int64) {
	if s.notifier == nil {
		return
	}
	s.notifier.LedgerChanged(ctx, companyID)
}
