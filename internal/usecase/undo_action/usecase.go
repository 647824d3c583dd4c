package undo_action

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-DropInService/internal/domain"
	blockedRepo "github.com/m04kA/SMC-DropInService/internal/infra/storage/blocked"
	bookingRepo "github.com/m04kA/SMC-DropInService/internal/infra/storage/booking"
	historyRepo "github.com/m04kA/SMC-DropInService/internal/infra/storage/history"
	"github.com/m04kA/SMC-DropInService/pkg/ptr"
)

// UseCase reverses single history entries. Entries may be undone in any
// order: the inverse is applied to the current state of the record, nothing
// is replayed.
type UseCase struct {
	bookingRepo BookingRepository
	blockedRepo BlockedRepository
	historyRepo HistoryRepository
	settings    SettingsProvider
	catalog     SlotCatalog
	cache       AvailabilityCache
	txManager   TransactionManager
	clock       TimeProvider
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
	clock TimeProvider,
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

type partition struct {
	serviceType domain.ServiceType
	date        string
}

func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UndoAction: entry=%s", req.EntryID)

	if strings.TrimSpace(req.EntryID) == "" {
		return nil, fmt.Errorf("%w: entry id is required", ErrInvalidInput)
	}

	result, touched, err := uc.undo(ctx, req)

	if touched != nil {
		uc.cache.Invalidate(ctx, touched.serviceType, touched.date)
	}
	if uc.metrics != nil {
		uc.metrics.IncUndo(outcome(err))
	}

	if err != nil {
		uc.logger.Warn("UndoAction: entry id=%s: %v", req.EntryID, err)
		return nil, err
	}

	uc.logger.Info("UndoAction: entry id=%s (%s) undone", result.EntryID, result.ActionType)
	return result, nil
}

func (uc *UseCase) undo(ctx context.Context, req *Request) (*Response, *partition, error) {
	now := uc.clock.Now()

	// An inverse never changes and neither does the day of the record it
	// targets, so the partition is resolved ahead and locked first.
	entry, err := uc.getEntry(ctx, req.EntryID)
	if err != nil {
		return nil, nil, err
	}
	if entry.IsUndone() {
		uc.logger.Warn("UndoAction: entry id=%s was undone at %s", entry.ID, entry.UndoneAt)
		return nil, nil, ErrAlreadyUndone
	}
	if err := entry.Inverse.Validate(); err != nil {
		uc.logger.Error("UndoAction: entry id=%s has an unusable inverse: %v", entry.ID, err)
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	target, err := uc.partitionOf(ctx, entry.Inverse)
	if err != nil {
		return nil, nil, err
	}

	var result *Response
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := uc.bookingRepo.LockPartition(txCtx, target.serviceType, target.date); err != nil {
			uc.logger.Error("UndoAction: failed to lock partition: %v", err)
			return fmt.Errorf("%w: lock partition: %w", ErrInternal, err)
		}

		entry, err := uc.getEntry(txCtx, req.EntryID)
		if err != nil {
			return err
		}
		if entry.IsUndone() {
			uc.logger.Warn("UndoAction: entry id=%s was undone at %s", entry.ID, entry.UndoneAt)
			return ErrAlreadyUndone
		}

		result = &Response{
			EntryID:     entry.ID,
			ActionType:  entry.ActionType,
			Description: entry.Description,
			UndoneAt:    now,
		}

		inv := entry.Inverse
		switch inv.Op {
		case domain.InverseCancelBooking:
			booking, err := uc.cancel(txCtx, inv.BookingID, now)
			if err != nil {
				return err
			}
			result.Booking = booking

		case domain.InverseRestoreBooking:
			booking, err := uc.restore(txCtx, inv.BookingID, inv.Restore, now)
			if err != nil {
				return err
			}
			result.Booking = booking

		case domain.InverseBlockSlot:
			slot := &domain.BlockedSlot{
				ServiceType: inv.Slot.ServiceType,
				SlotID:      inv.Slot.SlotID,
				Date:        inv.Slot.Date,
				CreatedBy:   req.StaffID,
				CreatedAt:   now,
			}
			if _, err := uc.blockedRepo.Create(txCtx, slot); err != nil {
				uc.logger.Error("UndoAction: failed to re-block slot: %v", err)
				return fmt.Errorf("%w: block slot: %w", ErrInternal, err)
			}

		case domain.InverseUnblockSlot:
			err := uc.blockedRepo.Delete(txCtx, inv.Slot.ServiceType, inv.Slot.SlotID, inv.Slot.Date)
			if err != nil && !errors.Is(err, blockedRepo.ErrBlockedSlotNotFound) {
				uc.logger.Error("UndoAction: failed to unblock slot: %v", err)
				return fmt.Errorf("%w: unblock slot: %w", ErrInternal, err)
			}
		}

		if err := uc.historyRepo.MarkUndone(txCtx, entry.ID, now); err != nil {
			uc.logger.Error("UndoAction: failed to mark entry id=%s undone: %v", entry.ID, err)
			return fmt.Errorf("%w: mark undone: %w", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, target, err
	}
	return result, target, nil
}

// partitionOf names the service day an inverse writes to
func (uc *UseCase) partitionOf(ctx context.Context, inv domain.Inverse) (*partition, error) {
	if inv.Op == domain.InverseBlockSlot || inv.Op == domain.InverseUnblockSlot {
		return &partition{inv.Slot.ServiceType, inv.Slot.Date}, nil
	}
	booking, err := uc.getBooking(ctx, inv.BookingID)
	if err != nil {
		return nil, err
	}
	return &partition{booking.ServiceType, booking.Date}, nil
}

func (uc *UseCase) getEntry(ctx context.Context, id string) (*domain.ActionHistoryEntry, error) {
	entry, err := uc.historyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, historyRepo.ErrEntryNotFound) {
			uc.logger.Warn("UndoAction: entry id=%s not found", id)
			return nil, ErrEntryNotFound
		}
		uc.logger.Error("UndoAction: failed to get entry id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: get entry: %w", ErrInternal, err)
	}
	return entry, nil
}

// cancel reverses a creation. A booking cancelled in the meantime stays as it is.
func (uc *UseCase) cancel(ctx context.Context, bookingID string, now time.Time) (*domain.Booking, error) {
	booking, err := uc.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.IsCancelled() {
		return booking, nil
	}

	updated := booking.Clone()
	updated.Status = domain.StatusCancelled
	updated.LastUpdated = now
	if err := uc.bookingRepo.Update(ctx, updated); err != nil {
		uc.logger.Error("UndoAction: failed to cancel booking id=%s: %v", bookingID, err)
		return nil, fmt.Errorf("%w: update booking: %w", ErrInternal, err)
	}
	return updated, nil
}

// restore writes recorded previous values back. When that puts the booking
// into a slot it does not already hold, the slot is rechecked for blocking
// and capacity.
func (uc *UseCase) restore(ctx context.Context, bookingID string, restore *domain.BookingRestore, now time.Time) (*domain.Booking, error) {
	booking, err := uc.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	restored := restore.ApplyTo(booking)
	restored.LastUpdated = now

	regains := domain.OccupiesSlot(restored) &&
		!(domain.OccupiesSlot(booking) && ptr.Equal(booking.SlotID, restored.SlotID))
	if regains {
		if err := uc.checkCapacity(ctx, restored); err != nil {
			return nil, err
		}
	}

	if err := uc.bookingRepo.Update(ctx, restored); err != nil {
		uc.logger.Error("UndoAction: failed to restore booking id=%s: %v", bookingID, err)
		return nil, fmt.Errorf("%w: update booking: %w", ErrInternal, err)
	}
	return restored, nil
}

func (uc *UseCase) checkCapacity(ctx context.Context, b *domain.Booking) error {
	settings, err := uc.settings.Current(ctx)
	if err != nil {
		return fmt.Errorf("%w: read settings: %w", ErrInternal, err)
	}
	def, err := uc.catalog.Definition(b.ServiceType, b.EffectiveLaundryType(), settings)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	blocked, err := uc.blockedRepo.IsBlocked(ctx, b.ServiceType, b.Slot(), b.Date)
	if err != nil {
		return fmt.Errorf("%w: check blocking: %w", ErrInternal, err)
	}
	if blocked {
		uc.logger.Warn("UndoAction: slot %s of %s on %s is blocked", b.Slot(), b.ServiceType, b.Date)
		return fmt.Errorf("%w: %s %s", ErrSlotBlocked, b.ServiceType, b.Slot())
	}

	bookings, err := uc.bookingRepo.ListByDay(ctx, b.ServiceType, b.Date)
	if err != nil {
		return fmt.Errorf("%w: list bookings: %w", ErrInternal, err)
	}

	if occupied := domain.CountOccupancy(bookings, b.Slot(), b.ID); occupied >= def.Capacity {
		uc.logger.Warn("UndoAction: slot %s of %s on %s has %d/%d taken", b.Slot(), b.ServiceType, b.Date, occupied, def.Capacity)
		return fmt.Errorf("%w: %s %s", ErrSlotFull, b.ServiceType, b.Slot())
	}
	return nil
}

func (uc *UseCase) getBooking(ctx context.Context, id string) (*domain.Booking, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("UndoAction: failed to get booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: get booking: %w", ErrInternal, err)
	}
	return booking, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrAlreadyUndone):
		return "already_undone"
	case errors.Is(err, domain.ErrSlotFull):
		return "slot_full"
	case errors.Is(err, domain.ErrSlotBlocked):
		return "slot_blocked"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
