package update_bag_number

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-DropInService/internal/api/handlers"
	"github.com/m04kA/SMC-DropInService/internal/service/bookings"
	"github.com/m04kA/SMC-DropInService/internal/service/bookings/models"
)

const msgCancelled = "cannot change the bag number of a cancelled booking"

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/bag-number
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["bookingId"]

	var req models.UpdateBagNumberRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/bag-number - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, handlers.MsgInvalidRequestBody)
		return
	}

	booking, err := h.service.UpdateBagNumber(r.Context(), bookingID, &req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/bag-number - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, handlers.MsgBookingNotFound)

		case errors.Is(err, bookings.ErrInvalidTransition):
			handlers.RespondUnprocessable(w, handlers.CodeInvalidTransition, msgCancelled)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id}/bag-number - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PATCH /bookings/{id}/bag-number - Failed: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/bag-number - Bag number set: booking_id=%s", bookingID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
