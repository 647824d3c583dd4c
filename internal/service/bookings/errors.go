package bookings

import (
	"fmt"

	"github.com/m04kA/SMC-DropInService/internal/domain"
)

var (
	// ErrBookingNotFound is returned when no booking has the id
	ErrBookingNotFound = fmt.Errorf("bookings: booking %w", domain.ErrNotFound)

	// ErrInvalidInput is returned for malformed arguments
	ErrInvalidInput = fmt.Errorf("bookings: %w", domain.ErrInvalidInput)

	// ErrInvalidTransition is returned when the booking cannot change this way
	ErrInvalidTransition = fmt.Errorf("bookings: %w", domain.ErrInvalidTransition)

	// ErrInternal is returned for storage failures
	ErrInternal = fmt.Errorf("bookings: %w", domain.ErrStorage)
)
