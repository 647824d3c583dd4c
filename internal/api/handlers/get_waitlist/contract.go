package get_waitlist

import (
	"context"

	"github.com/m04kA/SMC-DropInService/internal/service/bookings/models"
)

type BookingService interface {
	Waitlist(ctx context.Context, date string) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
