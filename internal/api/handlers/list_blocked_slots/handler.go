package list_blocked_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-DropInService/internal/api/handlers"
	"github.com/m04kA/SMC-DropInService/internal/service/blocking"
)

type Handler struct {
	service BlockingService
	logger  Logger
}

func NewHandler(service BlockingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/blocked-slots?date=YYYY-MM-DD&serviceType=shower
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	list, err := h.service.List(r.Context(), q.Get("date"), q.Get("serviceType"))
	if err != nil {
		switch {
		case errors.Is(err, blocking.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /blocked-slots - Failed: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, list)
}
