package join_waitlist

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-DropInService/internal/api/handlers"
	joinWaitlist "github.com/m04kA/SMC-DropInService/internal/usecase/join_waitlist"
)

type Handler struct {
	useCase JoinWaitlistUseCase
	logger  Logger
}

func NewHandler(useCase JoinWaitlistUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/waitlist
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req JoinWaitlistRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /waitlist - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, handlers.MsgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, joinWaitlist.ErrInvalidInput):
			h.logger.Warn("POST /waitlist - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /waitlist - Failed to waitlist: guest_id=%s, error=%v", req.GuestID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /waitlist - Guest waitlisted: booking_id=%s, position=%d", result.Booking.ID, result.Position)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
