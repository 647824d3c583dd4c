package blocking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DropInService/internal/domain"
)

// BlockedRepository stores blocked slots
type BlockedRepository interface {
	Create(ctx context.Context, slot *domain.BlockedSlot) (bool, error)
	Delete(ctx context.Context, serviceType domain.ServiceType, slotID, date string) error
	ListByDate(ctx context.Context, serviceType domain.ServiceType, date string) ([]*domain.BlockedSlot, error)
}

// HistoryRepository records reversible actions
type HistoryRepository interface {
	Append(ctx context.Context, entry *domain.ActionHistoryEntry) error
}

// SlotCatalog tells whether a slot exists at all
type SlotCatalog interface {
	HasSlot(serviceType domain.ServiceType, slotID string) bool
}

// AvailabilityCache drops stale day snapshots
type AvailabilityCache interface {
	Invalidate(ctx context.Context, serviceType domain.ServiceType, date string)
}

// TransactionManager runs functions inside a database transaction
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Clock maps instants to service days
type Clock interface {
	Now() time.Time
	ToServiceDay(t time.Time) (string, error)
	Today() string
}

// MetricsRecorder counts registry changes
type MetricsRecorder interface {
	IncBookingOperation(operation, serviceType, outcome string)
}

// Logger is the logging interface
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
