package list_blocked_slots

import (
	"context"

	"github.com/m04kA/SMC-DropInService/internal/service/blocking/models"
)

type BlockingService interface {
	List(ctx context.Context, date, serviceType string) (*models.BlockedSlotListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
