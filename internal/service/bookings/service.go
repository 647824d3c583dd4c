package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-DropInService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-DropInService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-DropInService/internal/service/bookings/models"
	"github.com/m04kA/SMC-DropInService/internal/serviceday"
)

const (
	opCancel          = "cancel"
	opUpdateBagNumber = "update_bag_number"
)

// Service serves booking reads plus cancellation and bag number edits
type Service struct {
	bookingRepo BookingRepository
	historyRepo HistoryRepository
	cache       AvailabilityCache
	txManager   TransactionManager
	clock       Clock
	metrics     MetricsRecorder
	logger      Logger
}

func NewService(
	bookingRepo BookingRepository,
	historyRepo HistoryRepository,
	cache AvailabilityCache,
	txManager TransactionManager,
	clock Clock,
	metrics MetricsRecorder,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		historyRepo: historyRepo,
		cache:       cache,
		txManager:   txManager,
		clock:       clock,
		metrics:     metrics,
		logger:      logger,
	}
}

// Get returns one booking, with its waitlist position when waitlisted
func (s *Service) Get(ctx context.Context, id string) (*models.BookingResponse, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: booking id is required", ErrInvalidInput)
	}

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError("Get", id, err)
	}

	position := 0
	if booking.IsWaitlisted() {
		waitlist, err := s.bookingRepo.ListWaitlist(ctx, booking.Date)
		if err != nil {
			s.logger.Error("Get: list waitlist for date=%s: %v", booking.Date, err)
			return nil, fmt.Errorf("%w: Get - list waitlist: %w", ErrInternal, err)
		}
		position = domain.WaitlistPositions(waitlist)[booking.ID]
	}

	return models.FromDomainBooking(booking, position), nil
}

// ListDay returns every booking of a service day, cancelled ones included
func (s *Service) ListDay(ctx context.Context, serviceType domain.ServiceType, date string) (*models.BookingListResponse, error) {
	if _, err := domain.ParseServiceType(string(serviceType)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	date, err := s.resolveDay(date)
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookingRepo.ListByDay(ctx, serviceType, date)
	if err != nil {
		s.logger.Error("ListDay: repository error for %s %s: %v", serviceType, date, err)
		return nil, fmt.Errorf("%w: ListDay - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("ListDay: fetched %d bookings for %s %s", len(bookings), serviceType, date)
	return models.FromDomainBookingList(bookings, domain.WaitlistPositions(bookings)), nil
}

// Waitlist returns the shower waitlist of a day in position order
func (s *Service) Waitlist(ctx context.Context, date string) (*models.BookingListResponse, error) {
	date, err := s.resolveDay(date)
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookingRepo.ListWaitlist(ctx, date)
	if err != nil {
		s.logger.Error("Waitlist: repository error for %s: %v", date, err)
		return nil, fmt.Errorf("%w: Waitlist - repository error: %w", ErrInternal, err)
	}

	ordered := domain.WaitlistOrder(bookings)
	return models.FromDomainBookingList(ordered, domain.WaitlistPositions(ordered)), nil
}

// ListGuest returns one guest's bookings, newest service day first
func (s *Service) ListGuest(ctx context.Context, guestID string) (*models.BookingListResponse, error) {
	guestID = strings.TrimSpace(guestID)
	if guestID == "" || len(guestID) > domain.MaxGuestIDLength {
		return nil, fmt.Errorf("%w: invalid guest id", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.ListByGuest(ctx, guestID)
	if err != nil {
		s.logger.Error("ListGuest: repository error for guest=%s: %v", guestID, err)
		return nil, fmt.Errorf("%w: ListGuest - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainBookingList(bookings, nil), nil
}

// Cancel cancels a booking. Cancelling twice succeeds without a second
// history entry. Shower bookings already done cannot be cancelled.
func (s *Service) Cancel(ctx context.Context, id string) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%s", id)

	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: booking id is required", ErrInvalidInput)
	}

	// The partition never changes, so it is read ahead and locked first
	result, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		err = s.mapRepoError("Cancel", id, err)
		s.recordOutcome(opCancel, nil, err)
		return nil, err
	}

	err = s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		if err := s.bookingRepo.LockPartition(ctx, result.ServiceType, result.Date); err != nil {
			return fmt.Errorf("%w: Cancel - lock partition: %w", ErrInternal, err)
		}

		booking, err := s.bookingRepo.GetByID(ctx, id)
		if err != nil {
			return s.mapRepoError("Cancel", id, err)
		}
		result = booking

		if booking.IsCancelled() {
			s.logger.Info("Cancel: booking id=%s already cancelled", id)
			return nil
		}
		if !domain.CanTransition(booking, domain.StatusCancelled) {
			return fmt.Errorf("%w: %s booking in status %s", ErrInvalidTransition, booking.ServiceType, booking.Status)
		}

		restore := domain.RestoreStatus(booking)
		updated := booking.Clone()
		updated.Status = domain.StatusCancelled
		updated.LastUpdated = s.clock.Now()

		if err := s.bookingRepo.Update(ctx, updated); err != nil {
			return s.mapRepoError("Cancel", id, err)
		}

		entry, err := s.newEntry(domain.ActionBookingCancelled, "Cancelled "+domain.Describe(booking), updated,
			domain.Inverse{Op: domain.InverseRestoreBooking, BookingID: booking.ID, Restore: restore})
		if err != nil {
			return err
		}
		if err := s.historyRepo.Append(ctx, entry); err != nil {
			return fmt.Errorf("%w: Cancel - append history: %w", ErrInternal, err)
		}

		result = updated
		return nil
	})
	s.invalidate(ctx, result)

	if err != nil {
		s.recordOutcome(opCancel, result, err)
		s.logger.Warn("Cancel: booking id=%s: %v", id, err)
		return nil, err
	}

	s.recordOutcome(opCancel, result, nil)
	s.logger.Info("Cancel: booking id=%s is cancelled", id)
	return models.FromDomainBooking(result, 0), nil
}

// UpdateBagNumber sets the bag number of an active laundry booking
func (s *Service) UpdateBagNumber(ctx context.Context, id string, req *models.UpdateBagNumberRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateBagNumber: booking id=%s", id)

	bag := strings.TrimSpace(req.BagNumber)
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: booking id is required", ErrInvalidInput)
	}
	if bag == "" {
		return nil, fmt.Errorf("%w: bag number is required", ErrInvalidInput)
	}
	if len(bag) > domain.MaxBagNumberLength {
		return nil, fmt.Errorf("%w: bag number longer than %d characters", ErrInvalidInput, domain.MaxBagNumberLength)
	}

	var result *domain.Booking
	err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		booking, err := s.bookingRepo.GetByID(ctx, id)
		if err != nil {
			return s.mapRepoError("UpdateBagNumber", id, err)
		}
		result = booking

		if booking.ServiceType != domain.ServiceLaundry {
			return fmt.Errorf("%w: bag numbers apply to laundry bookings only", ErrInvalidInput)
		}
		if booking.IsCancelled() {
			return fmt.Errorf("%w: booking is cancelled", ErrInvalidTransition)
		}
		if booking.HasBagNumber() && *booking.BagNumber == bag {
			return nil
		}

		restore := domain.RestoreBag(booking, false)
		updated := booking.Clone()
		updated.BagNumber = &bag
		updated.LastUpdated = s.clock.Now()

		if err := s.bookingRepo.Update(ctx, updated); err != nil {
			return s.mapRepoError("UpdateBagNumber", id, err)
		}

		entry, err := s.newEntry(domain.ActionBagNumberUpdated,
			fmt.Sprintf("Set bag number %s on %s", bag, domain.Describe(booking)), updated,
			domain.Inverse{Op: domain.InverseRestoreBooking, BookingID: booking.ID, Restore: restore})
		if err != nil {
			return err
		}
		if err := s.historyRepo.Append(ctx, entry); err != nil {
			return fmt.Errorf("%w: UpdateBagNumber - append history: %w", ErrInternal, err)
		}

		result = updated
		return nil
	})
	s.invalidate(ctx, result)

	s.recordOutcome(opUpdateBagNumber, result, err)
	if err != nil {
		s.logger.Warn("UpdateBagNumber: booking id=%s: %v", id, err)
		return nil, err
	}

	return models.FromDomainBooking(result, 0), nil
}

func (s *Service) newEntry(action domain.ActionType, description string, b *domain.Booking, inverse domain.Inverse) (*domain.ActionHistoryEntry, error) {
	now := s.clock.Now()
	day, err := s.clock.ToServiceDay(now)
	if err != nil {
		return nil, fmt.Errorf("%w: service day: %w", ErrInternal, err)
	}
	return domain.NewHistoryEntry(action, description, &b.ID, day, inverse, now), nil
}

// resolveDay validates a service day; an empty one means today
func (s *Service) resolveDay(date string) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		day, err := s.clock.ToServiceDay(s.clock.Now())
		if err != nil {
			return "", fmt.Errorf("%w: service day: %w", ErrInternal, err)
		}
		return day, nil
	}

	day, err := serviceday.ParseDay(date)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return day, nil
}

func (s *Service) mapRepoError(op, id string, err error) error {
	if errors.Is(err, bookingRepo.ErrBookingNotFound) {
		s.logger.Warn("%s: booking id=%s not found", op, id)
		return ErrBookingNotFound
	}
	s.logger.Error("%s: repository error for booking id=%s: %v", op, id, err)
	return fmt.Errorf("%w: %s - repository error: %w", ErrInternal, op, err)
}

func (s *Service) invalidate(ctx context.Context, b *domain.Booking) {
	if b != nil {
		s.cache.Invalidate(ctx, b.ServiceType, b.Date)
	}
}

func (s *Service) recordOutcome(op string, b *domain.Booking, err error) {
	if s.metrics == nil {
		return
	}
	serviceType := "unknown"
	if b != nil {
		serviceType = string(b.ServiceType)
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	s.metrics.IncBookingOperation(op, serviceType, outcome)
}
