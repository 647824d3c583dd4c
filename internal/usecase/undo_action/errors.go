package undo_action

import (
	"fmt"

	"github.com/m04kA/SMC-DropInService/internal/domain"
)

var (
	// ErrEntryNotFound is returned when no history entry has the id
	ErrEntryNotFound = fmt.Errorf("undo_action: history entry %w", domain.ErrNotFound)

	// ErrBookingNotFound is returned when the entry refers to a booking that does not exist
	ErrBookingNotFound = fmt.Errorf("undo_action: booking %w", domain.ErrNotFound)

	// ErrAlreadyUndone is returned for an entry that was undone before
	ErrAlreadyUndone = fmt.Errorf("undo_action: %w", domain.ErrAlreadyUndone)

	// ErrSlotFull is returned when putting a booking back would overfill its slot
	ErrSlotFull = fmt.Errorf("undo_action: %w", domain.ErrSlotFull)

	// ErrSlotBlocked is returned when putting a booking back would fill a blocked slot
	ErrSlotBlocked = fmt.Errorf("undo_action: %w", domain.ErrSlotBlocked)

	// ErrInvalidInput is returned for malformed requests and unreadable entries
	ErrInvalidInput = fmt.Errorf("undo_action: %w", domain.ErrInvalidInput)

	// ErrInternal is returned for storage failures
	ErrInternal = fmt.Errorf("undo_action: %w", domain.ErrStorage)
)
