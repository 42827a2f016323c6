package partners

import (
	"context"
	"fmt"

	mdshared "github.com/gestio-erp/gestio-erp/internal/masterdata/shared"
	"github.com/gestio-erp/gestio-erp/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters mdshared.ListFilters) ([]Partner, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Partner, error) {
	if id <= 0 {
		return Partner{}, fmt.Errorf("%w: invalid partner ID", shared.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, partner Partner) (Partner, error) {
	if partner.Kind == "" {
		partner.Kind = KindCustomer
	}
	if err := s.validate(partner); err != nil {
		return Partner{}, err
	}
	return s.repo.Create(ctx, partner)
}

func (s *Service) Update(ctx context.Context, id int64, partner Partner) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid partner ID", shared.ErrValidation)
	}
	if err := s.validate(partner); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, partner)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid partner ID", shared.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}
