package reschedule_booking

import (
	"github.com/m04kA/SMC-DropInService/internal/domain"
	"github.com/m04kA/SMC-DropInService/internal/service/bookings/models"
	rescheduleBooking "github.com/m04kA/SMC-DropInService/internal/usecase/reschedule_booking"
)

// RescheduleRequest HTTP request model; omitted fields keep their value
type RescheduleRequest struct {
	SlotID      *string `json:"slotId,omitempty"`
	LaundryType *string `json:"laundryType,omitempty"`
}

type RescheduleResponse struct {
	Booking        *models.BookingResponse `json:"booking"`
	Changed        bool                    `json:"changed"`
	HistoryEntryID string                  `json:"historyEntryId,omitempty"`
}

func (r *RescheduleRequest) ToUseCaseRequest(bookingID string) (*rescheduleBooking.Request, error) {
	req := &rescheduleBooking.Request{BookingID: bookingID, SlotID: r.SlotID}
	if r.LaundryType != nil {
		lt, err := domain.ParseLaundryType(*r.LaundryType)
		if err != nil {
			return nil, err
		}
		req.LaundryType = &lt
	}
	return req, nil
}

func FromUseCaseResponse(resp *rescheduleBooking.Response) *RescheduleResponse {
	return &RescheduleResponse{
		Booking:        models.FromDomainBooking(resp.Booking, 0),
		Changed:        resp.Changed,
		HistoryEntryID: resp.HistoryEntryID,
	}
}
