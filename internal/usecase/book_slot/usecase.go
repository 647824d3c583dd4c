package book_slot

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-DropInService/internal/domain"
)

const operation = "book"

// UseCase books a guest into a shower or laundry slot
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

// Execute checks catalog, blocking and capacity and creates the booking in
// one serializable transaction, holding the partition lock of the service day
// so two requests for the last seat cannot both succeed.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("BookSlot: service=%s, guest=%s, date=%s, slot=%v, laundryType=%v",
		req.ServiceType, req.GuestID, req.Date, req.SlotID, req.LaundryType)

	// 1. Validate and normalize
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("BookSlot: validation failed: %v", err)
		uc.record(req.ServiceType, err)
		return nil, err
	}

	now := uc.clock.Now()
	historyDay, err := uc.clock.ToServiceDay(now)
	if err != nil {
		uc.logger.Error("BookSlot: failed to resolve service day: %v", err)
		return nil, fmt.Errorf("%w: resolve service day: %w", ErrInternal, err)
	}

	laundryType := domain.LaundryType("")
	if req.LaundryType != nil {
		laundryType = *req.LaundryType
	}
	slotted := laundryType != domain.LaundryOffsite

	var result *Response

	// 2. Check and write inside one transaction
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// The lock is the first statement so writers of one day queue before
		// reading anything. A waiter's snapshot still predates its wait; the
		// resulting serialization failure makes the transaction run again.
		if slotted {
			if err := uc.bookingRepo.LockPartition(txCtx, req.ServiceType, req.Date); err != nil {
				uc.logger.Error("BookSlot: failed to lock partition: %v", err)
				return fmt.Errorf("%w: lock partition: %w", ErrInternal, err)
			}
		}

		settings, err := uc.settings.Current(txCtx)
		if err != nil {
			uc.logger.Error("BookSlot: failed to read settings: %v", err)
			return fmt.Errorf("%w: read settings: %w", ErrInternal, err)
		}

		if !slotted {
			if !settings.OffsiteLaundryEnabled {
				uc.logger.Warn("BookSlot: offsite laundry is disabled")
				return ErrOffsiteDisabled
			}
		} else {
			if err := uc.checkSlot(txCtx, req, laundryType, settings); err != nil {
				return err
			}
		}

		// 2.1 Create the booking
		booking := &domain.Booking{
			ID:          uuid.NewString(),
			GuestID:     req.GuestID,
			ServiceType: req.ServiceType,
			Date:        req.Date,
			SlotID:      req.SlotID,
			LaundryType: req.LaundryType,
			Status:      domain.InitialStatus(req.ServiceType, laundryType),
			CreatedAt:   now,
			LastUpdated: now,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("BookSlot: failed to create booking: %v", err)
			return fmt.Errorf("%w: create booking: %w", ErrInternal, err)
		}

		// 2.2 Record the history entry in the same transaction
		entry := domain.NewHistoryEntry(
			domain.ActionBookingCreated,
			"Booked "+domain.Describe(created),
			&created.ID,
			historyDay,
			domain.Inverse{Op: domain.InverseCancelBooking, BookingID: created.ID},
			now,
		)
		if err := uc.historyRepo.Append(txCtx, entry); err != nil {
			uc.logger.Error("BookSlot: failed to append history: %v", err)
			return fmt.Errorf("%w: append history: %w", ErrInternal, err)
		}

		result = &Response{Booking: created, HistoryEntryID: entry.ID}
		return nil
	})

	// The snapshot is dropped whatever the outcome: a failed write may mean it was stale.
	uc.cache.Invalidate(ctx, req.ServiceType, req.Date)
	uc.record(req.ServiceType, err)

	if err != nil {
		return nil, err
	}

	uc.logger.Info("BookSlot: created booking id=%s status=%s", result.Booking.ID, result.Booking.Status)
	return result, nil
}

func (uc *UseCase) checkSlot(ctx context.Context, req *Request, laundryType domain.LaundryType, settings *domain.Settings) error {
	def, err := uc.catalog.Definition(req.ServiceType, laundryType, settings)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	slotID := *req.SlotID

	if !def.Contains(slotID) {
		uc.logger.Warn("BookSlot: slot %q is not in the %s catalog", slotID, req.ServiceType)
		return mapSlotError(domain.CheckSlot(def, slotID, false, nil, ""))
	}

	blocked, err := uc.blockedRepo.IsBlocked(ctx, req.ServiceType, slotID, req.Date)
	if err != nil {
		uc.logger.Error("BookSlot: failed to check blocking: %v", err)
		return fmt.Errorf("%w: check blocking: %w", ErrInternal, err)
	}

	bookings, err := uc.bookingRepo.ListByDay(ctx, req.ServiceType, req.Date)
	if err != nil {
		uc.logger.Error("BookSlot: failed to list bookings: %v", err)
		return fmt.Errorf("%w: list bookings: %w", ErrInternal, err)
	}

	if err := domain.CheckSlot(def, slotID, blocked, bookings, ""); err != nil {
		uc.logger.Warn("BookSlot: %v", err)
		return mapSlotError(err)
	}

	uc.logger.Info("BookSlot: slot %s available, %d/%d taken",
		slotID, domain.CountOccupancy(bookings, slotID, ""), def.Capacity)
	return nil
}

func (uc *UseCase) record(serviceType domain.ServiceType, err error) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.IncBookingOperation(operation, string(serviceType), outcome(err))
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrSlotFull):
		return "slot_full"
	case errors.Is(err, domain.ErrSlotBlocked):
		return "slot_blocked"
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrUnknownSlot), errors.Is(err, domain.ErrOffsiteDisabled):
		return "rejected"
	default:
		return "error"
	}
}
