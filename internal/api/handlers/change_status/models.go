package change_status

import (
	"github.com/m04kA/SMC-DropInService/internal/service/bookings/models"
	changeStatus "github.com/m04kA/SMC-DropInService/internal/usecase/change_status"
)

// ChangeStatusRequest HTTP request model. BagNumber is written together with
// the status and satisfies the laundry bag number requirement.
type ChangeStatusRequest struct {
	Status    string  `json:"status"`
	BagNumber *string `json:"bagNumber,omitempty"`
}

type ChangeStatusResponse struct {
	Booking        *models.BookingResponse `json:"booking"`
	Changed        bool                    `json:"changed"`
	HistoryEntryID string                  `json:"historyEntryId,omitempty"`
}

func (r *ChangeStatusRequest) ToUseCaseRequest(bookingID string) *changeStatus.Request {
	return &changeStatus.Request{BookingID: bookingID, Status: r.Status, BagNumber: r.BagNumber}
}

func FromUseCaseResponse(resp *changeStatus.Response) *ChangeStatusResponse {
	return &ChangeStatusResponse{
		Booking:        models.FromDomainBooking(resp.Booking, 0),
		Changed:        resp.Changed,
		HistoryEntryID: resp.HistoryEntryID,
	}
}
