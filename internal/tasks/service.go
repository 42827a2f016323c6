package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/gestio-erp/gestio-erp/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListByCompany(ctx context.Context, companyID int64, status Status) ([]Task, error) {
	if companyID <= 0 {
		return nil, fmt.Errorf("%w: invalid company ID", shared.ErrValidation)
	}
	return s.repo.ListByCompany(ctx, companyID, status)
}

func (s *Service) Get(ctx context.Context, id int64) (Task, error) {
	if id <= 0 {
		return Task{}, fmt.Errorf("%w: invalid task ID", shared.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, task Task) (Task, error) {
	if task.Status == "" {
		task.Status = StatusOpen
	}
	if err := s.validate(task); err != nil {
		return Task{}, err
	}
	return s.repo.Create(ctx, task)
}

func (s *Service) Update(ctx context.Context, id int64, task Task) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid task ID", shared.ErrValidation)
	}
	if err := s.validate(task); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, task)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid task ID", shared.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) validate(task Task) error {
	if task.CompanyID <= 0 {
		return fmt.Errorf("%w: task must belong to a company", shared.ErrValidation)
	}
	if strings.TrimSpace(task.Title) == "" {
		return fmt.Errorf("%w: task title is required", shared.ErrValidation)
	}
	switch task.Status {
	case StatusOpen, StatusInProgress, StatusDone:
	default:
		return fmt.Errorf("%w: unknown task status", shared.ErrValidation)
	}
	return nil
}
