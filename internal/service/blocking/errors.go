package blocking

import (
	"fmt"

	"github.com/m04kA/SMC-DropInService/internal/domain"
)

var (
	// ErrInvalidInput is returned for malformed arguments
	ErrInvalidInput = fmt.Errorf("blocking: %w", domain.ErrInvalidInput)

	// ErrUnknownSlot is returned when the slot is not in the service catalog
	ErrUnknownSlot = fmt.Errorf("blocking: %w", domain.ErrUnknownSlot)

	// ErrNotBlocked is returned when unblocking a slot that is not blocked
	ErrNotBlocked = fmt.Errorf("blocking: blocked slot %w", domain.ErrNotFound)

	// ErrInternal is returned for storage failures
	ErrInternal = fmt.Errorf("blocking: %w", domain.ErrStorage)
)
