package reschedule_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DropInService/internal/domain"
)

// BookingRepository is the booking storage the use case needs
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	Update(ctx context.Context, booking *domain.Booking) error
	ListByDay(ctx context.Context, serviceType domain.ServiceType, date string) ([]*domain.Booking, error)
	LockPartition(ctx context.Context, serviceType domain.ServiceType, date string) error
}

// BlockedRepository answers whether a slot is withdrawn for a day
type BlockedRepository interface {
	IsBlocked(ctx context.Context, serviceType domain.ServiceType, slotID, date string) (bool, error)
}

// HistoryRepository records reversible actions
type HistoryRepository interface {
	Append(ctx context.Context, entry *domain.ActionHistoryEntry) error
}

// SettingsProvider returns the live staff settings
type SettingsProvider interface {
	Current(ctx context.Context) (*domain.Settings, error)
}

// SlotCatalog resolves slot definitions
type SlotCatalog interface {
	Definition(serviceType domain.ServiceType, laundryType domain.LaundryType, settings *domain.Settings) (domain.SlotDefinition, error)
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
