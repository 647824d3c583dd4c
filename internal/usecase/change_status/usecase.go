package change_status

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-DropInService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-DropInService/internal/infra/storage/booking"
)

const operation = "change_status"

// UseCase applies staff status changes, including the laundry bag number gate
type UseCase struct {
	bookingRepo BookingRepository
	historyRepo HistoryRepository
	cache       AvailabilityCache
	txManager   TransactionManager
	clock       Clock
	metrics     MetricsRecorder
	logger      Logger
}

func NewUseCase(
	bookingRepo BookingRepository,
	historyRepo HistoryRepository,
	cache AvailabilityCache,
	txManager TransactionManager,
	clock Clock,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		historyRepo: historyRepo,
		cache:       cache,
		txManager:   txManager,
		clock:       clock,
		metrics:     metrics,
		logger:      logger,
	}
}

// Execute changes the status. For laundry every target except cancelled needs
// a bag number; a bag number supplied with the request is stored by the same
// UPDATE as the status so neither is ever visible without the other.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ChangeStatus: booking=%s, status=%s, bagNumber=%v", req.BookingID, req.Status, req.BagNumber)

	to, bag, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("ChangeStatus: validation failed: %v", err)
		return nil, err
	}

	now := uc.clock.Now()
	historyDay, err := uc.clock.ToServiceDay(now)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve service day: %w", ErrInternal, err)
	}

	var (
		result  *Response
		current *domain.Booking
	)
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("ChangeStatus: booking id=%s not found", req.BookingID)
				return ErrBookingNotFound
			}
			uc.logger.Error("ChangeStatus: failed to get booking id=%s: %v", req.BookingID, err)
			return fmt.Errorf("%w: get booking: %w", ErrInternal, err)
		}
		current = booking

		if booking.Status == to {
			result = &Response{Booking: booking}
			return nil
		}

		if !domain.CanTransition(booking, to) {
			uc.logger.Warn("ChangeStatus: %s booking id=%s cannot move %s -> %s",
				booking.ServiceType, booking.ID, booking.Status, to)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, to)
		}

		setBag := false
		if domain.RequiresBagNumber(booking, to) {
			switch {
			case bag != "":
				setBag = !booking.HasBagNumber() || *booking.BagNumber != bag
			case !booking.HasBagNumber():
				uc.logger.Warn("ChangeStatus: booking id=%s has no bag number", booking.ID)
				return ErrBagNumberRequired
			}
		}

		restore := domain.RestoreBag(booking, true)
		if !setBag {
			restore = domain.RestoreStatus(booking)
		}

		updated := booking.Clone()
		updated.Status = to
		if setBag {
			updated.BagNumber = &bag
		}
		updated.LastUpdated = now

		if err := uc.bookingRepo.Update(txCtx, updated); err != nil {
			uc.logger.Error("ChangeStatus: failed to update booking id=%s: %v", booking.ID, err)
			return fmt.Errorf("%w: update booking: %w", ErrInternal, err)
		}

		action := domain.ActionStatusChanged
		description := fmt.Sprintf("Changed %s from %s to %s", domain.Describe(booking), booking.Status, to)
		if to == domain.StatusCancelled {
			action = domain.ActionBookingCancelled
			description = "Cancelled " + domain.Describe(booking)
		}
		if setBag {
			description = fmt.Sprintf("%s with bag number %s", description, bag)
		}

		entry := domain.NewHistoryEntry(action, description, &booking.ID, historyDay,
			domain.Inverse{Op: domain.InverseRestoreBooking, BookingID: booking.ID, Restore: restore}, now)
		if err := uc.historyRepo.Append(txCtx, entry); err != nil {
			uc.logger.Error("ChangeStatus: failed to append history: %v", err)
			return fmt.Errorf("%w: append history: %w", ErrInternal, err)
		}

		result = &Response{Booking: updated, Changed: true, HistoryEntryID: entry.ID}
		return nil
	})

	serviceType := "unknown"
	if current != nil {
		serviceType = string(current.ServiceType)
		uc.cache.Invalidate(ctx, current.ServiceType, current.Date)
	}
	if uc.metrics != nil {
		outcome := "ok"
		switch {
		case errors.Is(err, domain.ErrBagNumberRequired):
			outcome = "bag_number_required"
		case errors.Is(err, domain.ErrInvalidTransition):
			outcome = "invalid_transition"
		case err != nil:
			outcome = "error"
		}
		uc.metrics.IncBookingOperation(operation, serviceType, outcome)
	}

	if err != nil {
		return nil, err
	}

	uc.logger.Info("ChangeStatus: booking id=%s status=%s", result.Booking.ID, result.Booking.Status)
	return result, nil
}
