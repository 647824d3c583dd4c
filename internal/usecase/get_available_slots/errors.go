package get_available_slots

import (
	"fmt"

	"github.com/m04kA/SMC-DropInService/internal/domain"
)

var (
	// ErrInvalidInput is returned for an unknown service type
	ErrInvalidInput = fmt.Errorf("get_available_slots: %w", domain.ErrInvalidInput)

	// ErrInvalidDate is returned when the service day is not YYYY-MM-DD
	ErrInvalidDate = fmt.Errorf("get_available_slots: invalid service day: %w", domain.ErrInvalidInput)

	// ErrInternal is returned for storage failures
	ErrInternal = fmt.Errorf("get_available_slots: %w", domain.ErrStorage)
)
