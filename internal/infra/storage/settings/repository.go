package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-DropInService/internal/domain"
	"github.com/m04kA/SMC-DropInService/pkg/dbmetrics"
	"github.com/m04kA/SMC-DropInService/pkg/psqlbuilder"
)

const settingsRowID = 1

// Repository stores the single settings row
type Repository struct {
	db dbmetrics.DBExecutor
}

func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get returns the saved settings
func (r *Repository) Get(ctx context.Context) (*domain.Settings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("max_onsite_laundry_slots", "offsite_laundry_enabled", "updated_at").
		From("service_settings").
		Where(squirrel.Eq{"id": settingsRowID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %w", ErrBuildQuery, err)
	}

	var s domain.Settings
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.MaxOnsiteLaundrySlots,
		&s.OffsiteLaundryEnabled,
		&s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan settings: %w", ErrScanRow, err)
	}

	return &s, nil
}

// Upsert saves settings and returns the stored row
func (r *Repository) Upsert(ctx context.Context, s *domain.Settings) (*domain.Settings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("service_settings").
		Columns("id", "max_onsite_laundry_slots", "offsite_laundry_enabled", "updated_at").
		Values(settingsRowID, s.MaxOnsiteLaundrySlots, s.OffsiteLaundryEnabled, s.UpdatedAt).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			max_onsite_laundry_slots = EXCLUDED.max_onsite_laundry_slots,
			offsite_laundry_enabled = EXCLUDED.offsite_laundry_enabled,
			updated_at = EXCLUDED.updated_at
			RETURNING max_onsite_laundry_slots, offsite_laundry_enabled, updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %w", ErrBuildQuery, err)
	}

	var saved domain.Settings
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&saved.MaxOnsiteLaundrySlots,
		&saved.OffsiteLaundryEnabled,
		&saved.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute upsert: %w", ErrExecQuery, err)
	}

	return &saved, nil
}
