package book_slot

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-DropInService/internal/domain"
)

var (
	// ErrInvalidInput is returned for malformed requests
	ErrInvalidInput = fmt.Errorf("book_slot: %w", domain.ErrInvalidInput)

	// ErrInvalidDate is returned when the service day is not YYYY-MM-DD
	ErrInvalidDate = fmt.Errorf("book_slot: invalid service day: %w", domain.ErrInvalidInput)

	// ErrSlotFull is returned when every seat of the slot is taken; the guest may be waitlisted instead
	ErrSlotFull = fmt.Errorf("book_slot: %w", domain.ErrSlotFull)

	// ErrSlotBlocked is returned when staff withdrew the slot for the day
	ErrSlotBlocked = fmt.Errorf("book_slot: %w", domain.ErrSlotBlocked)

	// ErrUnknownSlot is returned when the slot is not in the service catalog
	ErrUnknownSlot = fmt.Errorf("book_slot: %w", domain.ErrUnknownSlot)

	// ErrOffsiteDisabled is returned when staff turned the offsite workflow off
	ErrOffsiteDisabled = fmt.Errorf("book_slot: %w", domain.ErrOffsiteDisabled)

	// ErrInternal is returned for storage failures
	ErrInternal = fmt.Errorf("book_slot: %w", domain.ErrStorage)
)

// mapSlotError converts a domain placement error into the use case error
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
