package change_status

import "github.com/m04kA/SMC-DropInService/internal/domain"

// Request moves a booking to Status. BagNumber, when set, is written in the
// same update and satisfies the laundry bag number gate.
type Request struct {
	BookingID string
	Status    string
	BagNumber *string
}

// Response carries the booking after the change. Changed is false when the
// booking already had the requested status.
type Response struct {
	Booking        *domain.Booking
	Changed        bool
	HistoryEntryID string
}
