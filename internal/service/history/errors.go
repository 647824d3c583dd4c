package history

import (
	"fmt"

	"github.com/m04kA/SMC-DropInService/internal/domain"
)

var (
	// ErrInvalidInput is returned for a malformed service day
	ErrInvalidInput = fmt.Errorf("history: %w", domain.ErrInvalidInput)

	// ErrInternal is returned for storage failures
	ErrInternal = fmt.Errorf("history: %w", domain.ErrStorage)
)
