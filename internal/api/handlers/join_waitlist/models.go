package join_waitlist

import (
	"github.com/m04kA/SMC-DropInService/internal/service/bookings/models"
	joinWaitlist "github.com/m04kA/SMC-DropInService/internal/usecase/join_waitlist"
)

// JoinWaitlistRequest HTTP request model; the waitlist exists for showers only
type JoinWaitlistRequest struct {
	GuestID string `json:"guestId"`
	Date    string `json:"date"`
}

type JoinWaitlistResponse struct {
	Booking        *models.BookingResponse `json:"booking"`
	Position       int                     `json:"position"`
	HistoryEntryID string                  `json:"historyEntryId"`
}

func (r *JoinWaitlistRequest) ToUseCaseRequest() *joinWaitlist.Request {
	return &joinWaitlist.Request{GuestID: r.GuestID, Date: r.Date}
}

func FromUseCaseResponse(resp *joinWaitlist.Response) *JoinWaitlistResponse {
	return &JoinWaitlistResponse{
		Booking:        models.FromDomainBooking(resp.Booking, resp.Position),
		Position:       resp.Position,
		HistoryEntryID: resp.HistoryEntryID,
	}
}
