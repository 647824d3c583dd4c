package create_booking

import (
	"github.com/m04kA/SMC-DropInService/internal/domain"
	"github.com/m04kA/SMC-DropInService/internal/service/bookings/models"
	bookSlot "github.com/m04kA/SMC-DropInService/internal/usecase/book_slot"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ServiceType string  `json:"serviceType"`
	GuestID     string  `json:"guestId"`
	Date        string  `json:"date"` // "2025-01-15"
	SlotID      *string `json:"slotId,omitempty"`
	LaundryType *string `json:"laundryType,omitempty"` // "onsite" | "offsite"
}

// CreateBookingResponse is the booking plus the history entry that can undo it
type CreateBookingResponse struct {
	Booking        *models.BookingResponse `json:"booking"`
	HistoryEntryID string                  `json:"historyEntryId"`
}

func (r *CreateBookingRequest) ToUseCaseRequest() (*bookSlot.Request, error) {
	serviceType, err := domain.ParseServiceType(r.ServiceType)
	if err != nil {
		return nil, err
	}

	req := &bookSlot.Request{
		ServiceType: serviceType,
		GuestID:     r.GuestID,
		Date:        r.Date,
		SlotID:      r.SlotID,
	}
	if r.LaundryType != nil {
		lt, err := domain.ParseLaundryType(*r.LaundryType)
		if err != nil {
			return nil, err
		}
		req.LaundryType = &lt
	}
	return req, nil
}

func FromUseCaseResponse(resp *bookSlot.Response) *CreateBookingResponse {
	return &CreateBookingResponse{
		Booking:        models.FromDomainBooking(resp.Booking, 0),
		HistoryEntryID: resp.HistoryEntryID,
	}
}
