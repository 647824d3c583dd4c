package block_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-DropInService/internal/api/handlers"
	"github.com/m04kA/SMC-DropInService/internal/api/middleware"
	"github.com/m04kA/SMC-DropInService/internal/service/blocking"
	"github.com/m04kA/SMC-DropInService/internal/service/blocking/models"
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

// Handle POST /api/v1/blocked-slots
// Responds 201 when the slot got blocked and 200 when it already was.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	staffID, _ := middleware.GetStaffID(r.Context())

	var req models.SlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /blocked-slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, handlers.MsgInvalidRequestBody)
		return
	}

	resp, err := h.service.Block(r.Context(), &req, staffID)
	if err != nil {
		switch {
		case errors.Is(err, blocking.ErrUnknownSlot):
			handlers.RespondErrorCode(w, http.StatusBadRequest, handlers.CodeUnknownSlot, handlers.MsgUnknownSlot)

		case errors.Is(err, blocking.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /blocked-slots - Failed: staff_id=%s, error=%v", staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	status := http.StatusOK
	if resp.Created {
		status = http.StatusCreated
	}
	h.logger.Info("POST /blocked-slots - %s %s %s blocked by staff_id=%s", resp.ServiceType, resp.SlotID, resp.Date, staffID)
	handlers.RespondJSON(w, status, resp)
}
