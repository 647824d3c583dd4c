package history

import (
	"context"

	"github.com/m04kA/SMC-DropInService/internal/domain"
)

// HistoryRepository reads and clears the action log
type HistoryRepository interface {
	ListByServiceDay(ctx context.Context, day string) ([]*domain.ActionHistoryEntry, error)
	Clear(ctx context.Context, day *string) (int64, error)
}

// Clock supplies today's service day
type Clock interface {
	Today() string
}

// Logger is the logging interface
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
