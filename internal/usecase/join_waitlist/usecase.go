package join_waitlist

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-DropInService/internal/domain"
	"github.com/m04kA/SMC-DropInService/internal/serviceday"
)

const operation = "waitlist"

// UseCase adds guests to the shower waitlist. The waitlist is unbounded and
// positions are derived from creation order on every read.
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

func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("JoinWaitlist: guest=%s, date=%s", req.GuestID, req.Date)

	guestID := strings.TrimSpace(req.GuestID)
	if guestID == "" || len(guestID) > domain.MaxGuestIDLength {
		uc.logger.Warn("JoinWaitlist: invalid guest id %q", req.GuestID)
		return nil, fmt.Errorf("%w: invalid guest id", ErrInvalidInput)
	}
	date, err := serviceday.ParseDay(req.Date)
	if err != nil {
		uc.logger.Warn("JoinWaitlist: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	now := uc.clock.Now()
	historyDay, err := uc.clock.ToServiceDay(now)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve service day: %w", ErrInternal, err)
	}

	var result *Response
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking := &domain.Booking{
			ID:          uuid.NewString(),
			GuestID:     guestID,
			ServiceType: domain.ServiceShower,
			Date:        date,
			Status:      domain.StatusWaitlisted,
			CreatedAt:   now,
			LastUpdated: now,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("JoinWaitlist: failed to create booking: %v", err)
			return fmt.Errorf("%w: create booking: %w", ErrInternal, err)
		}

		entry := domain.NewHistoryEntry(
			domain.ActionWaitlistAdded,
			"Waitlisted "+domain.Describe(created),
			&created.ID,
			historyDay,
			domain.Inverse{Op: domain.InverseCancelBooking, BookingID: created.ID},
			now,
		)
		if err := uc.historyRepo.Append(txCtx, entry); err != nil {
			uc.logger.Error("JoinWaitlist: failed to append history: %v", err)
			return fmt.Errorf("%w: append history: %w", ErrInternal, err)
		}

		waitlist, err := uc.bookingRepo.ListWaitlist(txCtx, date)
		if err != nil {
			uc.logger.Error("JoinWaitlist: failed to list waitlist: %v", err)
			return fmt.Errorf("%w: list waitlist: %w", ErrInternal, err)
		}

		result = &Response{
			Booking:        created,
			Position:       domain.WaitlistPositions(waitlist)[created.ID],
			HistoryEntryID: entry.ID,
		}
		return nil
	})

	uc.cache.Invalidate(ctx, domain.ServiceShower, date)

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	if uc.metrics != nil {
		uc.metrics.IncBookingOperation(operation, string(domain.ServiceShower), outcome)
	}

	if err != nil {
		return nil, err
	}

	uc.logger.Info("JoinWaitlist: booking id=%s is at position %d", result.Booking.ID, result.Position)
	return result, nil
}
