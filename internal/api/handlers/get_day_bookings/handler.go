package get_day_bookings

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-DropInService/internal/api/handlers"
	"github.com/m04kA/SMC-DropInService/internal/domain"
	"github.com/m04kA/SMC-DropInService/internal/service/bookings"
)

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

// Handle GET /api/v1/services/{serviceType}/bookings?date=YYYY-MM-DD
// Cancelled bookings are included; waitlisted showers carry their position.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	serviceType := mux.Vars(r)["serviceType"]
	date := r.URL.Query().Get("date")

	list, err := h.service.ListDay(r.Context(), domain.ServiceType(serviceType), date)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /services/{type}/bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /services/{type}/bookings - Failed: service=%s, date=%s, error=%v", serviceType, date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /services/{type}/bookings - Retrieved %d bookings: service=%s, date=%s", list.Total, serviceType, date)
	handlers.RespondJSON(w, http.StatusOK, list)
}
