package change_status

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-DropInService/internal/domain"
)

// validateRequest returns the parsed target status and the trimmed bag number.
// An unknown status is an invalid transition rather than bad input.
func validateRequest(req *Request) (domain.BookingStatus, string, error) {
	if strings.TrimSpace(req.BookingID) == "" {
		return "", "", fmt.Errorf("%w: booking id is required", ErrInvalidInput)
	}

	status, err := domain.ParseBookingStatus(strings.TrimSpace(req.Status))
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrInvalidTransition, err)
	}

	bag := ""
	if req.BagNumber != nil {
		bag = strings.TrimSpace(*req.BagNumber)
	}
	if len(bag) > domain.MaxBagNumberLength {
		return "", "", fmt.Errorf("%w: bag number longer than %d characters", ErrInvalidInput, domain.MaxBagNumberLength)
	}

	return status, bag, nil
}
