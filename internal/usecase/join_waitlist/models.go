package join_waitlist

import "github.com/m04kA/SMC-DropInService/internal/domain"

// Request puts a guest on the shower waitlist of a service day
type Request struct {
	GuestID string
	Date    string // YYYY-MM-DD
}

// Response carries the waitlisted booking and its current 1-based position
type Response struct {
	Booking        *domain.Booking
	Position       int
	HistoryEntryID string
}
