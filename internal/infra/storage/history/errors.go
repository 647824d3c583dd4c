package history

import "errors"

var (
	// ErrEntryNotFound is returned when no history entry has the requested id
	ErrEntryNotFound = errors.New("history.repository: entry not found")

	ErrBuildQuery = errors.New("history.repository: failed to build query")
	ErrExecQuery  = errors.New("history.repository: failed to execute query")
	ErrScanRow    = errors.New("history.repository: failed to scan row")
	ErrEncode     = errors.New("history.repository: failed to encode inverse")
)
