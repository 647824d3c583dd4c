package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-DropInService/internal/api/handlers"
	bookSlot "github.com/m04kA/SMC-DropInService/internal/usecase/book_slot"
)

const (
	msgInvalidServiceType = "service type must be shower or laundry, laundry type onsite or offsite"
	msgInvalidDate        = "invalid service day, expected YYYY-MM-DD"
)

type Handler struct {
	useCase BookSlotUseCase
	logger  Logger
}

func NewHandler(useCase BookSlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, handlers.MsgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceType)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, bookSlot.ErrSlotFull):
			h.logger.Warn("POST /bookings - Slot full: guest_id=%s, service=%s", req.GuestID, req.ServiceType)
			handlers.RespondConflict(w, handlers.CodeSlotFull, handlers.MsgSlotFull)

		case errors.Is(err, bookSlot.ErrSlotBlocked):
			h.logger.Warn("POST /bookings - Slot blocked: guest_id=%s, service=%s", req.GuestID, req.ServiceType)
			handlers.RespondConflict(w, handlers.CodeSlotBlocked, handlers.MsgSlotBlocked)

		case errors.Is(err, bookSlot.ErrUnknownSlot):
			h.logger.Warn("POST /bookings - Unknown slot: guest_id=%s, service=%s", req.GuestID, req.ServiceType)
			handlers.RespondErrorCode(w, http.StatusBadRequest, handlers.CodeUnknownSlot, handlers.MsgUnknownSlot)

		case errors.Is(err, bookSlot.ErrOffsiteDisabled):
			h.logger.Warn("POST /bookings - Offsite disabled: guest_id=%s", req.GuestID)
			handlers.RespondConflict(w, handlers.CodeOffsiteDisabled, handlers.MsgOffsiteDisabled)

		case errors.Is(err, bookSlot.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Invalid date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, bookSlot.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /bookings - Failed to book: guest_id=%s, error=%v", req.GuestID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created: booking_id=%s, guest_id=%s", result.Booking.ID, result.Booking.GuestID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
