package clear_history

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-DropInService/internal/api/handlers"
	"github.com/m04kA/SMC-DropInService/internal/api/middleware"
	"github.com/m04kA/SMC-DropInService/internal/service/history"
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

// Handle DELETE /api/v1/history?date=YYYY-MM-DD&all=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	staffID, _ := middleware.GetStaffID(r.Context())
	q := r.URL.Query()

	all := false
	if raw := q.Get("all"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			handlers.RespondBadRequest(w, "all must be a boolean")
			return
		}
		all = parsed
	}

	resp, err := h.service.Clear(r.Context(), q.Get("date"), all)
	if err != nil {
		switch {
		case errors.Is(err, history.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("DELETE /history - Failed: staff_id=%s, error=%v", staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /history - %d entries cleared by staff_id=%s", resp.Deleted, staffID)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
