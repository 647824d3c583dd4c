package change_status

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-DropInService/internal/api/handlers"
	changeStatus "github.com/m04kA/SMC-DropInService/internal/usecase/change_status"
)

const (
	msgBagNumberRequired = "enter a bag number to continue"
	msgInvalidTransition = "this status change is not allowed for the booking"
)

type Handler struct {
	useCase ChangeStatusUseCase
	logger  Logger
}

func NewHandler(useCase ChangeStatusUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["bookingId"]

	var req ChangeStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, handlers.MsgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(bookingID))
	if err != nil {
		switch {
		case errors.Is(err, changeStatus.ErrBookingNotFound):
			handlers.RespondNotFound(w, handlers.MsgBookingNotFound)

		case errors.Is(err, changeStatus.ErrBagNumberRequired):
			h.logger.Warn("PATCH /bookings/{id}/status - Bag number required: booking_id=%s, status=%s", bookingID, req.Status)
			handlers.RespondUnprocessable(w, handlers.CodeBagNumberRequired, msgBagNumberRequired)

		case errors.Is(err, changeStatus.ErrInvalidTransition):
			h.logger.Warn("PATCH /bookings/{id}/status - Invalid transition: booking_id=%s, status=%s", bookingID, req.Status)
			handlers.RespondUnprocessable(w, handlers.CodeInvalidTransition, msgInvalidTransition)

		case errors.Is(err, changeStatus.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PATCH /bookings/{id}/status - Failed: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/status - booking_id=%s status=%s changed=%t",
		bookingID, result.Booking.Status, result.Changed)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
