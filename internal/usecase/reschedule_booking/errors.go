package reschedule_booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-DropInService/internal/domain"
)

var (
	// ErrBookingNotFound is returned when no booking has the id
	ErrBookingNotFound = fmt.Errorf("reschedule_booking: booking %w", domain.ErrNotFound)

	// ErrInvalidInput is returned for malformed requests
	ErrInvalidInput = fmt.Errorf("reschedule_booking: %w", domain.ErrInvalidInput)

	// ErrCannotReschedule is returned for cancelled bookings
	ErrCannotReschedule = fmt.Errorf("reschedule_booking: %w", domain.ErrInvalidTransition)

	// ErrSlotFull is returned when the target slot has no seat left
	ErrSlotFull = fmt.Errorf("reschedule_booking: %w", domain.ErrSlotFull)

	// ErrSlotBlocked is returned when the target slot is withdrawn for the day
	ErrSlotBlocked = fmt.Errorf("reschedule_booking: %w", domain.ErrSlotBlocked)

	// ErrUnknownSlot is returned when the target slot is not in the catalog
	ErrUnknownSlot = fmt.Errorf("reschedule_booking: %w", domain.ErrUnknownSlot)

	// ErrOffsiteDisabled is returned when moving a load offsite while the workflow is off
	ErrOffsiteDisabled = fmt.Errorf("reschedule_booking: %w", domain.ErrOffsiteDisabled)

	// ErrInternal is returned for storage failures
	ErrInternal = fmt.Errorf("reschedule_booking: %w", domain.ErrStorage)
)

func mapSlotError(err error) error {
	switch {
	case errors.Is(err, domain.ErrUnknownSlot):
		return fmt.Errorf("%w: %w", ErrUnknownSlot, err)
	case errors.Is(err, domain.ErrSlotBlocked):
		return fmt.Errorf("%w: %w", ErrSlotBlocked, err)
	case errors.Is(err, domain.ErrSlotFull):
		return fmt.Errorf("%w: %w", ErrSlotFull, err)
	default:
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}
}
