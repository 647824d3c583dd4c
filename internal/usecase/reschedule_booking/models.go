package reschedule_booking

import "github.com/m04kA/SMC-DropInService/internal/domain"

// Request moves a booking to another slot and, for laundry, optionally to
// another laundry type. A nil field keeps the current value; offsite always
// clears the slot.
type Request struct {
	BookingID   string
	SlotID      *string
	LaundryType *domain.LaundryType
}

// Response carries the booking after the move. Changed is false when the
// request matched the current placement and nothing was written.
type Response struct {
	Booking        *domain.Booking
	Changed        bool
	HistoryEntryID string
}
