package history

import (
	"context"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-DropInService/internal/service/history/models"
	"github.com/m04kA/SMC-DropInService/internal/serviceday"
)

// Service lists and clears the action log. Undo lives in its own use case.
type Service struct {
	repo   HistoryRepository
	clock  Clock
	logger Logger
}

func NewService(repo HistoryRepository, clock Clock, logger Logger) *Service {
	return &Service{repo: repo, clock: clock, logger: logger}
}

// ListToday returns today's entries, newest first
func (s *Service) ListToday(ctx context.Context) (*models.EntryListResponse, error) {
	return s.List(ctx, s.clock.Today())
}

// List returns the entries of one service day, newest first
func (s *Service) List(ctx context.Context, day string) (*models.EntryListResponse, error) {
	parsed, err := serviceday.ParseDay(strings.TrimSpace(day))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	entries, err := s.repo.ListByServiceDay(ctx, parsed)
	if err != nil {
		s.logger.Error("History.List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %w", ErrInternal, err)
	}
	return models.FromDomainEntryList(parsed, entries), nil
}

// Clear deletes the entries of one service day, today when day is empty.
// With all set every entry is deleted and day is ignored.
func (s *Service) Clear(ctx context.Context, day string, all bool) (*models.ClearResponse, error) {
	var target *string
	if !all {
		if strings.TrimSpace(day) == "" {
			day = s.clock.Today()
		}
		parsed, err := serviceday.ParseDay(strings.TrimSpace(day))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		target = &parsed
	}

	deleted, err := s.repo.Clear(ctx, target)
	if err != nil {
		s.logger.Error("History.Clear: repository error: %v", err)
		return nil, fmt.Errorf("%w: Clear - repository error: %w", ErrInternal, err)
	}

	if target == nil {
		s.logger.Warn("History.Clear: deleted all %d entries", deleted)
	} else {
		s.logger.Info("History.Clear: deleted %d entries of %s", deleted, *target)
	}
	return &models.ClearResponse{Deleted: deleted, Day: target}, nil
}
