package change_status

import (
	"fmt"

	"github.com/m04kA/SMC-DropInService/internal/domain"
)

var (
	// ErrBookingNotFound is returned when no booking has the id
	ErrBookingNotFound = fmt.Errorf("change_status: booking %w", domain.ErrNotFound)

	// ErrInvalidInput is returned for malformed requests
	ErrInvalidInput = fmt.Errorf("change_status: %w", domain.ErrInvalidInput)

	// ErrInvalidTransition is returned when the target status is not valid for the booking
	ErrInvalidTransition = fmt.Errorf("change_status: %w", domain.ErrInvalidTransition)

	// ErrBagNumberRequired is returned when a laundry booking has no bag number and none was given
	ErrBagNumberRequired = fmt.Errorf("change_status: %w", domain.ErrBagNumberRequired)

	// ErrInternal is returned for storage failures
	ErrInternal = fmt.Errorf("change_status: %w", domain.ErrStorage)
)
