package blocked

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-DropInService/internal/domain"
	"github.com/m04kA/SMC-DropInService/pkg/dbmetrics"
	"github.com/m04kA/SMC-DropInService/pkg/psqlbuilder"
)

// Repository stores the blocking registry
type Repository struct {
	db dbmetrics.DBExecutor
}

func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create blocks a slot. It reports false when the slot was already blocked.
func (r *Repository) Create(ctx context.Context, slot *domain.BlockedSlot) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("blocked_slots").
		Columns("service_type", "slot_id", "service_date", "created_by", "created_at").
		Values(slot.ServiceType, slot.SlotID, slot.Date, slot.CreatedBy, slot.CreatedAt).
		Suffix("ON CONFLICT (service_type, slot_id, service_date) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: Create - get rows affected: %w", ErrExecQuery, err)
	}

	return rowsAffected > 0, nil
}

// Delete unblocks a slot
func (r *Repository) Delete(ctx context.Context, serviceType domain.ServiceType, slotID, date string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("blocked_slots").
		Where(squirrel.Eq{"service_type": serviceType, "slot_id": slotID, "service_date": date}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBlockedSlotNotFound
	}

	return nil
}

// IsBlocked reports whether the slot is blocked on date
func (r *Repository) IsBlocked(ctx context.Context, serviceType domain.ServiceType, slotID, date string) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("blocked_slots").
		Where(squirrel.Eq{"service_type": serviceType, "slot_id": slotID, "service_date": date}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: IsBlocked - build select query: %w", ErrBuildQuery, err)
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: IsBlocked - scan: %w", ErrScanRow, err)
	}

	return exists, nil
}

// ListByDate returns the slots blocked on date. An empty serviceType lists every service.
func (r *Repository) ListByDate(ctx context.Context, serviceType domain.ServiceType, date string) ([]*domain.BlockedSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("service_type", "slot_id", "service_date", "created_by", "created_at").
		From("blocked_slots").
		Where(squirrel.Eq{"service_date": date})

	if serviceType != "" {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_type": serviceType})
	}

	query, args, err := selectBuilder.OrderBy("service_type ASC", "slot_id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDate - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDate - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make([]*domain.BlockedSlot, 0)
	for rows.Next() {
		slot, err := scanBlockedSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByDate - scan blocked slot: %w", ErrScanRow, err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByDate - rows error: %w", ErrScanRow, err)
	}

	return slots, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBlockedSlot(row rowScanner) (*domain.BlockedSlot, error) {
	var (
		slot domain.BlockedSlot
		date time.Time
	)
	if err := row.Scan(&slot.ServiceType, &slot.SlotID, &date, &slot.CreatedBy, &slot.CreatedAt); err != nil {
		return nil, err
	}
	slot.Date = date.Format(domain.DateFormat)
	return &slot, nil
}
