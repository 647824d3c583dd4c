package unblock_slot

import (
	"context"

	"github.com/m04kA/SMC-DropInService/internal/service/blocking/models"
)

type BlockingService interface {
	Unblock(ctx context.Context, req *models.SlotRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
