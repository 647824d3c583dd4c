package join_waitlist

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DropInService/internal/domain"
)

// BookingRepository is the booking storage the use case needs
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	ListWaitlist(ctx context.Context, date string) ([]*domain.Booking, error)
}

// HistoryRepository records reversible actions
type HistoryRepository interface {
	Append(ctx context.Context, entry *domain.ActionHistoryEntry) error
}

// AvailabilityCache drops stale day snapshots
type AvailabilityCache interface {
	Invalidate(ctx context.Context, serviceType domain.ServiceType, date string)
}

// TransactionManager runs functions inside a serializable transaction
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Clock maps instants to service days
type Clock interface {
	Now() time.Time
	ToServiceDay(t time.Time) (string, error)
}

// MetricsRecorder counts booking operations
type MetricsRecorder interface {
	IncBookingOperation(operation, serviceType, outcome string)
}

// Logger is the logging interface
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
