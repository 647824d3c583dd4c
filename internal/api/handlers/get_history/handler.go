package get_history

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-DropInService/internal/api/handlers"
	"github.com/m04kA/SMC-DropInService/internal/service/history"
	"github.com/m04kA/SMC-DropInService/internal/service/history/models"
)

type Handler struct {
	service HistoryService
	logger  Logger
}

func NewHandler(service HistoryService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/history?date=YYYY-MM-DD
// Without a date the current service day is listed, newest first.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var (
		list *models.EntryListResponse
		err  error
	)
	if date := r.URL.Query().Get("date"); date != "" {
		list, err = h.service.List(r.Context(), date)
	} else {
		list, err = h.service.ListToday(r.Context())
	}
	if err != nil {
		switch {
		case errors.Is(err, history.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /history - Failed: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, list)
}
