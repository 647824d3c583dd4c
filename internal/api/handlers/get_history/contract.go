package get_history

import (
	"context"

	"github.com/m04kA/SMC-DropInService/internal/service/history/models"
)

type HistoryService interface {
	ListToday(ctx context.Context) (*models.EntryListResponse, error)
	List(ctx context.Context, day string) (*models.EntryListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
