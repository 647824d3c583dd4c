package get_guest_bookings

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-DropInService/internal/api/handlers"
	"github.com/m04kA/SMC-DropInService/internal/service/bookings"
)

const msgInvalidGuestID = "invalid guest id"

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

// Handle GET /api/v1/guests/{guestId}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	guestID := mux.Vars(r)["guestId"]

	list, err := h.service.ListGuest(r.Context(), guestID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /guests/{id}/bookings - Invalid guest id: %q", guestID)
			handlers.RespondBadRequest(w, msgInvalidGuestID)

		default:
			h.logger.Error("GET /guests/{id}/bookings - Failed: guest_id=%s, error=%v", guestID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /guests/{id}/bookings - Retrieved %d bookings for guest_id=%s", list.Total, guestID)
	handlers.RespondJSON(w, http.StatusOK, list)
}
