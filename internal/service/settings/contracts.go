package settings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DropInService/internal/domain"
)

// SettingsRepository stores the single settings row
type SettingsRepository interface {
	Get(ctx context.Context) (*domain.Settings, error)
	Upsert(ctx context.Context, s *domain.Settings) (*domain.Settings, error)
}

// AvailabilityCache drops snapshots whose capacity changed
type AvailabilityCache interface {
	InvalidateService(ctx context.Context, serviceType domain.ServiceType)
}

// TimeProvider returns the current time
type TimeProvider interface {
	Now() time.Time
}

// Logger is the logging interface
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
