package get_guest_bookings

import (
	"context"

	"github.com/m04kA/SMC-DropInService/internal/service/bookings/models"
)

type BookingService interface {
	ListGuest(ctx context.Context, guestID string) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
