package get_available_slots

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-DropInService/internal/domain"
	"github.com/m04kA/SMC-DropInService/internal/serviceday"
)

// validateRequest normalizes the request in place; an empty date is left for the caller
func validateRequest(req *Request) error {
	if _, err := domain.ParseServiceType(string(req.ServiceType)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	req.Date = strings.TrimSpace(req.Date)
	if req.Date == "" {
		return nil
	}

	date, err := serviceday.ParseDay(req.Date)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDate, err)
	}
	req.Date = date
	return nil
}
