package get_day_bookings

import (
	"context"

	"github.com/m04kA/SMC-DropInService/internal/domain"
	"github.com/m04kA/SMC-DropInService/internal/service/bookings/models"
)

type BookingService interface {
	ListDay(ctx context.Context, serviceType domain.ServiceType, date string) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
