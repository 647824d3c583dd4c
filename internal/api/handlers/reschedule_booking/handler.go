package reschedule_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-DropInService/internal/api/handlers"
	rescheduleBooking "github.com/m04kA/SMC-DropInService/internal/usecase/reschedule_booking"
)

const (
	msgInvalidLaundryType = "laundry type must be onsite or offsite"
	msgCannotReschedule   = "a cancelled booking cannot be rescheduled"
)

type Handler struct {
	useCase RescheduleUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["bookingId"]

	var req RescheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, handlers.MsgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(bookingID)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidLaundryType)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, rescheduleBooking.ErrBookingNotFound):
			handlers.RespondNotFound(w, handlers.MsgBookingNotFound)

		case errors.Is(err, rescheduleBooking.ErrSlotFull):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Target full: booking_id=%s", bookingID)
			handlers.RespondConflict(w, handlers.CodeSlotFull, handlers.MsgSlotFull)

		case errors.Is(err, rescheduleBooking.ErrSlotBlocked):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Target blocked: booking_id=%s", bookingID)
			handlers.RespondConflict(w, handlers.CodeSlotBlocked, handlers.MsgSlotBlocked)

		case errors.Is(err, rescheduleBooking.ErrUnknownSlot):
			handlers.RespondErrorCode(w, http.StatusBadRequest, handlers.CodeUnknownSlot, handlers.MsgUnknownSlot)

		case errors.Is(err, rescheduleBooking.ErrOffsiteDisabled):
			handlers.RespondConflict(w, handlers.CodeOffsiteDisabled, handlers.MsgOffsiteDisabled)

		case errors.Is(err, rescheduleBooking.ErrCannotReschedule):
			handlers.RespondUnprocessable(w, handlers.CodeInvalidTransition, msgCannotReschedule)

		case errors.Is(err, rescheduleBooking.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PATCH /bookings/{id}/reschedule - Failed: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/reschedule - booking_id=%s changed=%t", bookingID, result.Changed)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
