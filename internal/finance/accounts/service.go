package accounts

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/gestio-erp/gestio-erp/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListByCompany(ctx context.Context, companyID int64) ([]Account, error) {
	if companyID <= 0 {
		return nil, fmt.Errorf("%w: invalid company ID", shared.ErrValidation)
	}
	return s.repo.ListByCompany(ctx, companyID)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Account, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, account Account) (Account, error) {
	if err := s.validate(account); err != nil {
		return Account{}, err
	}
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	return s.repo.Create(ctx, account)
}

func (s *Service) Update(ctx context.Context, account Account) error {
	if account.ID == uuid.Nil {
		return fmt.Errorf("%w: invalid account ID", shared.ErrValidation)
	}
	if err := s.validate(account); err != nil {
		return err
	}
	return s.repo.Update(ctx, account)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) validate(account Account) error {
	if account.CompanyID <= 0 {
		return fmt.Errorf("%w: account must belong to a company", shared.ErrValidation)
	}
	if strings.TrimSpace(account.Name) == "" {
		return fmt.Errorf("%w: account name is required", shared.ErrValidation)
	}
	return nil
}
