package clear_history

import (
	"context"

	"github.com/m04kA/SMC-DropInService/internal/service/history/models"
)

type HistoryService interface {
	Clear(ctx context.Context, day string, all bool) (*models.ClearResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
