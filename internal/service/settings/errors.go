package settings

import (
	"fmt"

	"github.com/m04kA/SMC-DropInService/internal/domain"
)

var (
	// ErrInvalidInput is returned for out-of-range settings
	ErrInvalidInput = fmt.Errorf("settings: %w", domain.ErrInvalidInput)

	// ErrInternal is returned for storage failures
	ErrInternal = fmt.Errorf("settings: %w", domain.ErrStorage)
)
