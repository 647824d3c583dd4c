package undo_action

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-DropInService/internal/api/handlers"
	"github.com/m04kA/SMC-DropInService/internal/api/middleware"
	undoAction "github.com/m04kA/SMC-DropInService/internal/usecase/undo_action"
)

const (
	msgEntryNotFound     = "history entry not found"
	msgAlreadyUndone     = "this action has already been undone"
	msgUndoWouldOverfill = "the slot has been filled since, this booking cannot be restored"
	msgUndoIntoBlocked   = "the slot has been blocked since, this booking cannot be restored"
)

type Handler struct {
	useCase UndoUseCase
	logger  Logger
}

func NewHandler(useCase UndoUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/history/{entryId}/undo
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	entryID := mux.Vars(r)["entryId"]
	staffID, _ := middleware.GetStaffID(r.Context())

	resp, err := h.useCase.Execute(r.Context(), &undoAction.Request{EntryID: entryID, StaffID: staffID})
	if err != nil {
		switch {
		case errors.Is(err, undoAction.ErrEntryNotFound):
			handlers.RespondNotFound(w, msgEntryNotFound)

		case errors.Is(err, undoAction.ErrBookingNotFound):
			handlers.RespondNotFound(w, handlers.MsgBookingNotFound)

		case errors.Is(err, undoAction.ErrAlreadyUndone):
			handlers.RespondConflict(w, handlers.CodeAlreadyUndone, msgAlreadyUndone)

		case errors.Is(err, undoAction.ErrSlotFull):
			handlers.RespondConflict(w, handlers.CodeSlotFull, msgUndoWouldOverfill)

		case errors.Is(err, undoAction.ErrSlotBlocked):
			handlers.RespondConflict(w, handlers.CodeSlotBlocked, msgUndoIntoBlocked)

		case errors.Is(err, undoAction.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /history/%s/undo - Failed: staff_id=%s, error=%v", entryID, staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /history/%s/undo - %s undone by staff_id=%s", entryID, resp.ActionType, staffID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(resp))
}
