package unblock_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-DropInService/internal/api/handlers"
	"github.com/m04kA/SMC-DropInService/internal/api/middleware"
	"github.com/m04kA/SMC-DropInService/internal/service/blocking"
	"github.com/m04kA/SMC-DropInService/internal/service/blocking/models"
)

const msgNotBlocked = "this slot is not blocked"

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

// Handle DELETE /api/v1/blocked-slots?serviceType=&slotId=&date=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	staffID, _ := middleware.GetStaffID(r.Context())
	q := r.URL.Query()
	req := &models.SlotRequest{
		ServiceType: q.Get("serviceType"),
		SlotID:      q.Get("slotId"),
		Date:        q.Get("date"),
	}

	if err := h.service.Unblock(r.Context(), req); err != nil {
		switch {
		case errors.Is(err, blocking.ErrNotBlocked):
			handlers.RespondNotFound(w, msgNotBlocked)

		case errors.Is(err, blocking.ErrUnknownSlot):
			handlers.RespondErrorCode(w, http.StatusBadRequest, handlers.CodeUnknownSlot, handlers.MsgUnknownSlot)

		case errors.Is(err, blocking.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("DELETE /blocked-slots - Failed: staff_id=%s, error=%v", staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /blocked-slots - %s %s %s unblocked by staff_id=%s", req.ServiceType, req.SlotID, req.Date, staffID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
