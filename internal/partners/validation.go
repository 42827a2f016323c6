package partners

import (
	"fmt"
	"strings"

	"github.com/gestio-erp/gestio-erp/internal/shared"
)

func (s *Service) validate(p Partner) error {
	if p.CompanyID <= 0 {
		return fmt.Errorf("%w: partner must belong to a company", shared.ErrValidation)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: partner name is required", shared.ErrValidation)
	}
	switch p.Kind {
	case KindCustomer, KindSupplier, KindBoth:
	default:
		return fmt.Errorf("%w: partner kind must be customer, supplier or both", shared.ErrValidation)
	}
	return nil
}
