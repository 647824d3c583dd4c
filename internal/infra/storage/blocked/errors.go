package blocked

import "errors"

var (
	// ErrBlockedSlotNotFound is returned when unblocking a slot that is not blocked
	ErrBlockedSlotNotFound = errors.New("blocked.repository: blocked slot not found")

	ErrBuildQuery = errors.New("blocked.repository: failed to build query")
	ErrExecQuery  = errors.New("blocked.repository: failed to execute query")
	ErrScanRow    = errors.New("blocked.repository: failed to scan row")
)
