package companies

import (
	"fmt"
	"strings"

	"github.com/gestio-erp/gestio-erp/internal/shared"
)

func (s *Service) validate(c Company) error {
	if strings.TrimSpace(c.Code) == "" {
		return fmt.Errorf("%w: company code is required", shared.ErrValidation)
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: company name is required", shared.ErrValidation)
	}
	return nil
}
