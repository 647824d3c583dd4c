package reschedule_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-DropInService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-DropInService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-DropInService/pkg/ptr"
)

const operation = "reschedule"

// UseCase moves bookings between slots and laundry types. Assigning a slot
// to a waitlisted shower is a reschedule too and moves it to booked.
type UseCase struct {
	bookingRepo BookingRepository
	blockedRepo BlockedRepository
	historyRepo HistoryRepository
	settings    SettingsProvider
	catalog     SlotCatalog
	cache       AvailabilityCache
	txManager   TransactionManager
	clock       Clock
	metrics     MetricsRecorder
	logger      Logger
}

func NewUseCase(
	bookingRepo BookingRepository,
	blockedRepo BlockedRepository,
	historyRepo HistoryRepository,
	settings SettingsProvider,
	catalog SlotCatalog,
	cache AvailabilityCache,
	txManager TransactionManager,
	clock Clock,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		blockedRepo: blockedRepo,
		historyRepo: historyRepo,
		settings:    settings,
		catalog:     catalog,
		cache:       cache,
		txManager:   txManager,
		clock:       clock,
		metrics:     metrics,
		logger:      logger,
	}
}

// Execute revalidates capacity and blocking of the target slot, not counting
// the booking's own seat, and leaves the booking untouched on any failure.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleBooking: booking=%s, slot=%v, laundryType=%v", req.BookingID, req.SlotID, req.LaundryType)

	if strings.TrimSpace(req.BookingID) == "" {
		return nil, fmt.Errorf("%w: booking id is required", ErrInvalidInput)
	}
	if req.SlotID != nil {
		slot := strings.TrimSpace(*req.SlotID)
		req.SlotID = &slot
		if slot == "" {
			req.SlotID = nil
		}
	}

	now := uc.clock.Now()
	historyDay, err := uc.clock.ToServiceDay(now)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve service day: %w", ErrInternal, err)
	}

	// Service type and date never change, so the partition is known before
	// the transaction and its lock can be the first statement.
	current, err := uc.getBooking(ctx, req.BookingID)
	if err != nil {
		if uc.metrics != nil {
			uc.metrics.IncBookingOperation(operation, "unknown", "error")
		}
		return nil, err
	}

	var result *Response
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := uc.bookingRepo.LockPartition(txCtx, current.ServiceType, current.Date); err != nil {
			uc.logger.Error("RescheduleBooking: failed to lock partition: %v", err)
			return fmt.Errorf("%w: lock partition: %w", ErrInternal, err)
		}

		booking, err := uc.getBooking(txCtx, req.BookingID)
		if err != nil {
			return err
		}
		current = booking

		if booking.IsCancelled() {
			uc.logger.Warn("RescheduleBooking: booking id=%s is cancelled", booking.ID)
			return fmt.Errorf("%w: booking is cancelled", ErrCannotReschedule)
		}

		settings, err := uc.settings.Current(txCtx)
		if err != nil {
			uc.logger.Error("RescheduleBooking: failed to read settings: %v", err)
			return fmt.Errorf("%w: read settings: %w", ErrInternal, err)
		}

		target, action, err := plan(booking, req, settings)
		if err != nil {
			uc.logger.Warn("RescheduleBooking: %v", err)
			return err
		}

		if samePlacement(booking, target) {
			uc.logger.Info("RescheduleBooking: booking id=%s already in place", booking.ID)
			result = &Response{Booking: booking}
			return nil
		}

		if target.SlotID != nil {
			if err := uc.checkTarget(txCtx, target, settings); err != nil {
				return err
			}
		}

		target.LastUpdated = now
		if err := uc.bookingRepo.Update(txCtx, target); err != nil {
			uc.logger.Error("RescheduleBooking: failed to update booking id=%s: %v", booking.ID, err)
			return fmt.Errorf("%w: update booking: %w", ErrInternal, err)
		}

		entry := domain.NewHistoryEntry(
			action,
			describe(action, booking, target),
			&booking.ID,
			historyDay,
			domain.Inverse{Op: domain.InverseRestoreBooking, BookingID: booking.ID, Restore: domain.RestorePlacement(booking)},
			now,
		)
		if err := uc.historyRepo.Append(txCtx, entry); err != nil {
			uc.logger.Error("RescheduleBooking: failed to append history: %v", err)
			return fmt.Errorf("%w: append history: %w", ErrInternal, err)
		}

		result = &Response{Booking: target, Changed: true, HistoryEntryID: entry.ID}
		return nil
	})

	serviceType := string(current.ServiceType)
	uc.cache.Invalidate(ctx, current.ServiceType, current.Date)
	if uc.metrics != nil {
		outcome := "ok"
		switch {
		case errors.Is(err, domain.ErrSlotFull):
			outcome = "slot_full"
		case errors.Is(err, domain.ErrSlotBlocked):
			outcome = "slot_blocked"
		case err != nil:
			outcome = "error"
		}
		uc.metrics.IncBookingOperation(operation, serviceType, outcome)
	}

	if err != nil {
		return nil, err
	}

	uc.logger.Info("RescheduleBooking: booking id=%s now at slot=%s status=%s",
		result.Booking.ID, result.Booking.Slot(), result.Booking.Status)
	return result, nil
}

// plan computes the booking after the move without touching storage
func plan(booking *domain.Booking, req *Request, settings *domain.Settings) (*domain.Booking, domain.ActionType, error) {
	target := booking.Clone()
	action := domain.ActionBookingRescheduled

	switch booking.ServiceType {
	case domain.ServiceShower:
		if req.LaundryType != nil {
			return nil, "", fmt.Errorf("%w: laundry type given for a shower", ErrInvalidInput)
		}
		if req.SlotID == nil {
			return nil, "", fmt.Errorf("%w: shower slot is required", ErrInvalidInput)
		}
		target.SlotID = ptr.Ptr(*req.SlotID)
		if booking.IsWaitlisted() {
			target.Status = domain.StatusBooked
			action = domain.ActionSlotAssigned
		}

	case domain.ServiceLaundry:
		currentType := booking.EffectiveLaundryType()
		newType := currentType
		if req.LaundryType != nil {
			newType = *req.LaundryType
		}

		switch newType {
		case domain.LaundryOffsite:
			if req.SlotID != nil {
				return nil, "", fmt.Errorf("%w: offsite laundry has no slots", ErrInvalidInput)
			}
			if currentType != domain.LaundryOffsite && !settings.OffsiteLaundryEnabled {
				return nil, "", ErrOffsiteDisabled
			}
			target.SlotID = nil
		case domain.LaundryOnsite:
			switch {
			case req.SlotID != nil:
				target.SlotID = ptr.Ptr(*req.SlotID)
			case booking.SlotID == nil:
				return nil, "", fmt.Errorf("%w: onsite laundry slot is required", ErrInvalidInput)
			}
		default:
			return nil, "", fmt.Errorf("%w: unknown laundry type %q", ErrInvalidInput, newType)
		}

		target.LaundryType = ptr.Ptr(newType)
		if newType != currentType {
			target.Status = domain.InitialStatus(domain.ServiceLaundry, newType)
		}

	default:
		return nil, "", fmt.Errorf("%w: unknown service type %q", ErrInvalidInput, booking.ServiceType)
	}

	return target, action, nil
}

func samePlacement(a, b *domain.Booking) bool {
	return ptr.Equal(a.SlotID, b.SlotID) &&
		a.Status == b.Status &&
		(a.ServiceType != domain.ServiceLaundry || a.EffectiveLaundryType() == b.EffectiveLaundryType())
}

func (uc *UseCase) checkTarget(ctx context.Context, target *domain.Booking, settings *domain.Settings) error {
	def, err := uc.catalog.Definition(target.ServiceType, target.EffectiveLaundryType(), settings)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	slotID := *target.SlotID

	if !def.Contains(slotID) {
		return mapSlotError(domain.CheckSlot(def, slotID, false, nil, target.ID))
	}

	blocked, err := uc.blockedRepo.IsBlocked(ctx, target.ServiceType, slotID, target.Date)
	if err != nil {
		uc.logger.Error("RescheduleBooking: failed to check blocking: %v", err)
		return fmt.Errorf("%w: check blocking: %w", ErrInternal, err)
	}

	bookings, err := uc.bookingRepo.ListByDay(ctx, target.ServiceType, target.Date)
	if err != nil {
		uc.logger.Error("RescheduleBooking: failed to list bookings: %v", err)
		return fmt.Errorf("%w: list bookings: %w", ErrInternal, err)
	}

	if err := domain.CheckSlot(def, slotID, blocked, bookings, target.ID); err != nil {
		uc.logger.Warn("RescheduleBooking: %v", err)
		return mapSlotError(err)
	}
	return nil
}

func (uc *UseCase) getBooking(ctx context.Context, id string) (*domain.Booking, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("RescheduleBooking: booking id=%s not found", id)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("RescheduleBooking: failed to get booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: get booking: %w", ErrInternal, err)
	}
	return booking, nil
}

func describe(action domain.ActionType, before, after *domain.Booking) string {
	if action == domain.ActionSlotAssigned {
		return fmt.Sprintf("Assigned slot %s to waitlisted %s", after.Slot(), domain.Describe(before))
	}
	return fmt.Sprintf("Moved %s to %s", domain.Describe(before), placement(after))
}

func placement(b *domain.Booking) string {
	if b.ServiceType == domain.ServiceLaundry && b.EffectiveLaundryType() == domain.LaundryOffsite {
		return "offsite"
	}
	return b.Slot()
}
