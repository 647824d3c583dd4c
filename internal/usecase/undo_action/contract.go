package undo_action

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

// BlockedRepository restores or withdraws blocked slots
type BlockedRepository interface {
	Create(ctx context.Context, slot *domain.BlockedSlot) (bool, error)
	Delete(ctx context.Context, serviceType domain.ServiceType, slotID, date string) error
	IsBlocked(ctx context.Context, serviceType domain.ServiceType, slotID, date string) (bool, error)
}

// HistoryRepository loads entries and marks them undone
type HistoryRepository interface {
	GetByID(ctx context.Context, id string) (*domain.ActionHistoryEntry, error)
	MarkUndone(ctx context.Context, id string, at time.Time) error
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

// TimeProvider returns the current time
type TimeProvider interface {
	Now() time.Time
}

// MetricsRecorder counts undo requests
type MetricsRecorder interface {
	IncUndo(outcome string)
}

// Logger is the logging interface
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
