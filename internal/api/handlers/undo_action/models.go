package undo_action

import (
	"time"

	"github.com/m04kA/SMC-DropInService/internal/service/bookings/models"
	undoAction "github.com/m04kA/SMC-DropInService/internal/usecase/undo_action"
)

type UndoResponse struct {
	EntryID     string                  `json:"entryId"`
	ActionType  string                  `json:"actionType"`
	Description string                  `json:"description"`
	UndoneAt    time.Time               `json:"undoneAt"`
	Booking     *models.BookingResponse `json:"booking,omitempty"`
}

func FromUseCaseResponse(resp *undoAction.Response) *UndoResponse {
	out := &UndoResponse{
		EntryID:     resp.EntryID,
		ActionType:  string(resp.ActionType),
		Description: resp.Description,
		UndoneAt:    resp.UndoneAt,
	}
	if resp.Booking != nil {
		out.Booking = models.FromDomainBooking(resp.Booking, 0)
	}
	return out
}
