package block_slot

import (
	"context"

	"github.com/m04kA/SMC-DropInService/internal/service/blocking/models"
)

type BlockingService interface {
	Block(ctx context.Context, req *models.SlotRequest, staffID string) (*models.BlockResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
