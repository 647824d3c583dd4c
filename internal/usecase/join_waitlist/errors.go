package join_waitlist

import (
	"fmt"

	"github.com/m04kA/SMC-DropInService/internal/domain"
)

var (
	// ErrInvalidInput is returned for malformed requests
	ErrInvalidInput = fmt.Errorf("join_waitlist: %w", domain.ErrInvalidInput)

	// ErrInternal is returned for storage failures
	ErrInternal = fmt.Errorf("join_waitlist: %w", domain.ErrStorage)
)
