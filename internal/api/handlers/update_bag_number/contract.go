package update_bag_number

import (
	"context"

	"github.com/m04kA/SMC-DropInService/internal/service/bookings/models"
)

type BookingService interface {
	UpdateBagNumber(ctx context.Context, id string, req *models.UpdateBagNumberRequest) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
