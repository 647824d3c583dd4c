package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-DropInService/internal/domain"
	settingsRepo "github.com/m04kA/SMC-DropInService/internal/infra/storage/settings"
	"github.com/m04kA/SMC-DropInService/internal/service/settings/models"
)

// Service exposes the live settings. Nothing here caches the row: every
// booking operation calls Current and sees staff edits immediately.
type Service struct {
	repo     SettingsRepository
	cache    AvailabilityCache
	clock    TimeProvider
	defaults domain.Settings
	logger   Logger
}

// NewService creates the settings service; defaults apply until staff save settings
func NewService(repo SettingsRepository, cache AvailabilityCache, clock TimeProvider, defaults domain.Settings, logger Logger) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		clock:    clock,
		defaults: defaults,
		logger:   logger,
	}
}

// Current returns the stored settings or the defaults
func (s *Service) Current(ctx context.Context) (*domain.Settings, error) {
	stored, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			d := s.defaults
			return &d, nil
		}
		s.logger.Error("Settings.Current: repository error: %v", err)
		return nil, fmt.Errorf("%w: Current - repository error: %w", ErrInternal, err)
	}
	return stored, nil
}

func (s *Service) Get(ctx context.Context) (*models.SettingsResponse, error) {
	current, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	return models.FromDomainSettings(current), nil
}

// Update applies a partial update and drops every cached laundry snapshot
func (s *Service) Update(ctx context.Context, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("Settings.Update: maxOnsiteLaundrySlots=%v offsiteLaundryEnabled=%v",
		req.MaxOnsiteLaundrySlots, req.OffsiteLaundryEnabled)

	current, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}

	next := *current
	if req.MaxOnsiteLaundrySlots != nil {
		next.MaxOnsiteLaundrySlots = *req.MaxOnsiteLaundrySlots
	}
	if req.OffsiteLaundryEnabled != nil {
		next.OffsiteLaundryEnabled = *req.OffsiteLaundryEnabled
	}
	next.UpdatedAt = s.clock.Now()

	if err := next.Validate(); err != nil {
		s.logger.Warn("Settings.Update: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	saved, err := s.repo.Upsert(ctx, &next)
	if err != nil {
		s.logger.Error("Settings.Update: repository error: %v", err)
		return nil, fmt.Errorf("%w: Update - repository error: %w", ErrInternal, err)
	}

	s.cache.InvalidateService(ctx, domain.ServiceLaundry)

	s.logger.Info("Settings.Update: saved maxOnsiteLaundrySlots=%d offsiteLaundryEnabled=%t",
		saved.MaxOnsiteLaundrySlots, saved.OffsiteLaundryEnabled)
	return models.FromDomainSettings(saved), nil
}
