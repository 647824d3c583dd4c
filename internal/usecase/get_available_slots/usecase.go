package get_available_slots

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-DropInService/internal/domain"
)

// UseCase computes per-slot availability of a service day. Results are
// served from the cache when present; every write path invalidates it.
type UseCase struct {
	bookingRepo BookingRepository
	blockedRepo BlockedRepository
	settings    SettingsProvider
	catalog     SlotCatalog
	cache       AvailabilityCache
	txManager   TransactionManager
	clock       Clock
	logger      Logger
}

func NewUseCase(
	bookingRepo BookingRepository,
	blockedRepo BlockedRepository,
	settings SettingsProvider,
	catalog SlotCatalog,
	cache AvailabilityCache,
	txManager TransactionManager,
	clock Clock,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		blockedRepo: blockedRepo,
		settings:    settings,
		catalog:     catalog,
		cache:       cache,
		txManager:   txManager,
		clock:       clock,
		logger:      logger,
	}
}

func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: service=%s, date=%s", req.ServiceType, req.Date)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	if req.Date == "" {
		req.Date = uc.clock.Today()
	}

	if snapshot, ok := uc.cache.Get(ctx, req.ServiceType, req.Date); ok {
		return fromSnapshot(snapshot, true), nil
	}

	var snapshot *domain.AvailabilitySnapshot
	err := uc.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		settings, err := uc.settings.Current(txCtx)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to read settings: %v", err)
			return fmt.Errorf("%w: read settings: %w", ErrInternal, err)
		}

		def, err := uc.catalog.Definition(req.ServiceType, domain.LaundryOnsite, settings)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}

		bookings, err := uc.bookingRepo.ListByDay(txCtx, req.ServiceType, req.Date)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to list bookings: %v", err)
			return fmt.Errorf("%w: list bookings: %w", ErrInternal, err)
		}

		blocked, err := uc.blockedRepo.ListByDate(txCtx, req.ServiceType, req.Date)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to list blocked slots: %v", err)
			return fmt.Errorf("%w: list blocked slots: %w", ErrInternal, err)
		}

		snapshot = domain.BuildAvailability(def, req.Date, bookings, domain.BlockedSet(blocked, req.ServiceType))
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.cache.Set(ctx, snapshot)

	uc.logger.Info("GetAvailableSlots: %d slots for %s on %s", len(snapshot.Slots), req.ServiceType, req.Date)
	return fromSnapshot(snapshot, false), nil
}
