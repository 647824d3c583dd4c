package blocking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-DropInService/internal/domain"
	blockedRepo "github.com/m04kA/SMC-DropInService/internal/infra/storage/blocked"
	"github.com/m04kA/SMC-DropInService/internal/service/blocking/models"
	"github.com/m04kA/SMC-DropInService/internal/serviceday"
)

const (
	opBlock   = "block"
	opUnblock = "unblock"
)

// Service is the blocking registry. Role checks happen in the HTTP layer.
type Service struct {
	blockedRepo BlockedRepository
	historyRepo HistoryRepository
	catalog     SlotCatalog
	cache       AvailabilityCache
	txManager   TransactionManager
	clock       Clock
	metrics     MetricsRecorder
	logger      Logger
}

func NewService(
	blockedRepo BlockedRepository,
	historyRepo HistoryRepository,
	catalog SlotCatalog,
	cache AvailabilityCache,
	txManager TransactionManager,
	clock Clock,
	metrics MetricsRecorder,
	logger Logger,
) *Service {
	return &Service{
		blockedRepo: blockedRepo,
		historyRepo: historyRepo,
		catalog:     catalog,
		cache:       cache,
		txManager:   txManager,
		clock:       clock,
		metrics:     metrics,
		logger:      logger,
	}
}

// Block withdraws a slot from new bookings. Blocking it twice succeeds
// without a second history entry. Existing bookings stay where they are.
func (s *Service) Block(ctx context.Context, req *models.SlotRequest, staffID string) (*models.BlockResponse, error) {
	s.logger.Info("Block: service=%s slot=%q date=%s staff=%s", req.ServiceType, req.SlotID, req.Date, staffID)

	ref, err := s.validate(req)
	if err != nil {
		s.logger.Warn("Block: validation failed: %v", err)
		return nil, err
	}

	now := s.clock.Now()
	slot := &domain.BlockedSlot{
		ServiceType: ref.ServiceType,
		SlotID:      ref.SlotID,
		Date:        ref.Date,
		CreatedBy:   staffID,
		CreatedAt:   now,
	}

	var created bool
	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.blockedRepo.Create(txCtx, slot)
		if err != nil {
			s.logger.Error("Block: repository error: %v", err)
			return fmt.Errorf("%w: Block - create: %w", ErrInternal, err)
		}
		if !created {
			return nil
		}

		return s.appendEntry(txCtx, domain.ActionSlotBlocked, "Blocked "+describe(ref),
			domain.Inverse{Op: domain.InverseUnblockSlot, Slot: ref})
	})
	s.cache.Invalidate(ctx, ref.ServiceType, ref.Date)
	s.recordOutcome(opBlock, ref.ServiceType, err)

	if err != nil {
		return nil, err
	}

	if created {
		s.logger.Info("Block: %s is blocked", describe(ref))
	} else {
		s.logger.Info("Block: %s was already blocked", describe(ref))
	}
	return &models.BlockResponse{
		BlockedSlotResponse: *models.FromDomainBlockedSlot(slot),
		Created:             created,
	}, nil
}

// Unblock returns a blocked slot to booking
func (s *Service) Unblock(ctx context.Context, req *models.SlotRequest) error {
	s.logger.Info("Unblock: service=%s slot=%q date=%s", req.ServiceType, req.SlotID, req.Date)

	ref, err := s.validate(req)
	if err != nil {
		s.logger.Warn("Unblock: validation failed: %v", err)
		return err
	}

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := s.blockedRepo.Delete(txCtx, ref.ServiceType, ref.SlotID, ref.Date); err != nil {
			if errors.Is(err, blockedRepo.ErrBlockedSlotNotFound) {
				s.logger.Warn("Unblock: %s is not blocked", describe(ref))
				return ErrNotBlocked
			}
			s.logger.Error("Unblock: repository error: %v", err)
			return fmt.Errorf("%w: Unblock - delete: %w", ErrInternal, err)
		}

		return s.appendEntry(txCtx, domain.ActionSlotUnblocked, "Unblocked "+describe(ref),
			domain.Inverse{Op: domain.InverseBlockSlot, Slot: ref})
	})
	s.cache.Invalidate(ctx, ref.ServiceType, ref.Date)
	s.recordOutcome(opUnblock, ref.ServiceType, err)

	if err != nil {
		return err
	}

	s.logger.Info("Unblock: %s is open again", describe(ref))
	return nil
}

// List returns the blocked slots of a service day. An empty date means
// today; an empty service type lists every service.
func (s *Service) List(ctx context.Context, date, serviceType string) (*models.BlockedSlotListResponse, error) {
	var st domain.ServiceType
	if serviceType != "" {
		parsed, err := domain.ParseServiceType(serviceType)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		st = parsed
	}

	if strings.TrimSpace(date) == "" {
		date = s.clock.Today()
	}
	day, err := serviceday.ParseDay(strings.TrimSpace(date))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	slots, err := s.blockedRepo.ListByDate(ctx, st, day)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %w", ErrInternal, err)
	}
	return models.FromDomainBlockedSlotList(day, slots), nil
}

func (s *Service) validate(req *models.SlotRequest) (*domain.SlotRef, error) {
	st, err := domain.ParseServiceType(strings.TrimSpace(req.ServiceType))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	slotID := strings.TrimSpace(req.SlotID)
	if slotID == "" {
		return nil, fmt.Errorf("%w: slot id is required", ErrInvalidInput)
	}

	day, err := serviceday.ParseDay(strings.TrimSpace(req.Date))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if !s.catalog.HasSlot(st, slotID) {
		return nil, fmt.Errorf("%w: %s slot %q", ErrUnknownSlot, st, slotID)
	}

	return &domain.SlotRef{ServiceType: st, SlotID: slotID, Date: day}, nil
}

func (s *Service) appendEntry(ctx context.Context, action domain.ActionType, description string, inverse domain.Inverse) error {
	now := s.clock.Now()
	day, err := s.clock.ToServiceDay(now)
	if err != nil {
		return fmt.Errorf("%w: service day: %w", ErrInternal, err)
	}

	entry := domain.NewHistoryEntry(action, description, nil, day, inverse, now)
	if err := s.historyRepo.Append(ctx, entry); err != nil {
		s.logger.Error("%s: failed to append history: %v", action, err)
		return fmt.Errorf("%w: append history: %w", ErrInternal, err)
	}
	return nil
}

func (s *Service) recordOutcome(op string, st domain.ServiceType, err error) {
	if s.metrics == nil {
		return
	}
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		outcome = "not_found"
	default:
		outcome = "error"
	}
	s.metrics.IncBookingOperation(op, string(st), outcome)
}

func describe(ref *domain.SlotRef) string {
	return fmt.Sprintf("%s slot %s on %s", ref.ServiceType, ref.SlotID, ref.Date)
}
