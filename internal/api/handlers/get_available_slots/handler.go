package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-DropInService/internal/api/handlers"
	"github.com/m04kA/SMC-DropInService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-DropInService/internal/usecase/get_available_slots"
)

const (
	msgInvalidServiceType = "unknown service type"
	msgInvalidDate        = "invalid date, expected YYYY-MM-DD"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/services/{serviceType}/available-slots?date=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	serviceType := mux.Vars(r)["serviceType"]
	date := r.URL.Query().Get("date")

	result, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{
		ServiceType: domain.ServiceType(serviceType),
		Date:        date,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			h.logger.Warn("GET /services/{type}/available-slots - Invalid date: %s", date)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /services/{type}/available-slots - Invalid service type: %s", serviceType)
			handlers.RespondBadRequest(w, msgInvalidServiceType)

		default:
			h.logger.Error("GET /services/{type}/available-slots - Failed: service=%s, date=%s, error=%v",
				serviceType, date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
