package get_available_slots

import (
	"context"

	"github.com/m04kA/SMC-DropInService/internal/domain"
)

// BookingRepository lists the bookings of one service day
type BookingRepository interface {
	ListByDay(ctx context.Context, serviceType domain.ServiceType, date string) ([]*domain.Booking, error)
}

// BlockedRepository lists blocked slots of one service day
type BlockedRepository interface {
	ListByDate(ctx context.Context, serviceType domain.ServiceType, date string) ([]*domain.BlockedSlot, error)
}

// SettingsProvider returns the live staff settings
type SettingsProvider interface {
	Current(ctx context.Context) (*domain.Settings, error)
}

// SlotCatalog resolves slot definitions
type SlotCatalog interface {
	Definition(serviceType domain.ServiceType, laundryType domain.LaundryType, settings *domain.Settings) (domain.SlotDefinition, error)
}

// AvailabilityCache keeps computed snapshots between writes
type AvailabilityCache interface {
	Get(ctx context.Context, serviceType domain.ServiceType, date string) (*domain.AvailabilitySnapshot, bool)
	Set(ctx context.Context, snapshot *domain.AvailabilitySnapshot)
}

// TransactionManager runs reads against one consistent snapshot
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Clock supplies today's service day when the request has no date
type Clock interface {
	Today() string
}

// Logger is the logging interface
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
