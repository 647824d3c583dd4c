package book_slot

import "github.com/m04kA/SMC-DropInService/internal/domain"

// Request books one guest into a service for a service day
type Request struct {
	ServiceType domain.ServiceType
	GuestID     string
	Date        string              // YYYY-MM-DD
	SlotID      *string             // required for showers and onsite laundry
	LaundryType *domain.LaundryType // laundry only, onsite when nil
}

// Response carries the created booking and the history entry that can undo it
type Response struct {
	Booking        *domain.Booking
	HistoryEntryID string
}
