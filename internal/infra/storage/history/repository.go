package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-DropInService/internal/domain"
	"github.com/m04kA/SMC-DropInService/pkg/dbmetrics"
	"github.com/m04kA/SMC-DropInService/pkg/psqlbuilder"
)

var entryColumns = []string{
	"id",
	"action_type",
	"description",
	"booking_id",
	"service_day",
	"inverse",
	"created_at",
	"undone_at",
}

// Repository stores the action history
type Repository struct {
	db dbmetrics.DBExecutor
}

func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Append records an entry. It should share the transaction of the mutation it describes.
func (r *Repository) Append(ctx context.Context, entry *domain.ActionHistoryEntry) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	inverse, err := entry.Inverse.Marshal()
	if err != nil {
		return fmt.Errorf("%w: Append - marshal inverse: %w", ErrEncode, err)
	}

	query, args, err := psqlbuilder.Insert("action_history").
		Columns(entryColumns...).
		Values(
			entry.ID,
			entry.ActionType,
			entry.Description,
			entry.BookingID,
			entry.ServiceDay,
			string(inverse),
			entry.CreatedAt,
			entry.UndoneAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Append - build insert query: %w", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Append - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

// GetByID returns an entry, locked FOR UPDATE inside a transaction so two
// concurrent undos of the same entry cannot both apply
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.ActionHistoryEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(entryColumns...).
		From("action_history").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	entry, err := scanEntry(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan entry: %w", ErrScanRow, err)
	}

	return entry, nil
}

// ListByServiceDay returns a day's entries, newest first
func (r *Repository) ListByServiceDay(ctx context.Context, day string) ([]*domain.ActionHistoryEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(entryColumns...).
		From("action_history").
		Where(squirrel.Eq{"service_day": day}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByServiceDay - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByServiceDay - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]*domain.ActionHistoryEntry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByServiceDay - scan entry: %w", ErrScanRow, err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByServiceDay - rows error: %w", ErrScanRow, err)
	}

	return entries, nil
}

// MarkUndone stamps the entry with the time it was undone
func (r *Repository) MarkUndone(ctx context.Context, id string, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("action_history").
		Set("undone_at", at).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkUndone - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkUndone - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkUndone - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrEntryNotFound
	}

	return nil
}

// Clear deletes the entries of one service day, or every entry when day is nil
func (r *Repository) Clear(ctx context.Context, day *string) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteBuilder := psqlbuilder.Delete("action_history")
	if day != nil {
		deleteBuilder = deleteBuilder.Where(squirrel.Eq{"service_day": *day})
	}

	query, args, err := deleteBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: Clear - build delete query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: Clear - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: Clear - get rows affected: %w", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (*domain.ActionHistoryEntry, error) {
	var (
		entry      domain.ActionHistoryEntry
		bookingID  sql.NullString
		serviceDay time.Time
		inverse    []byte
		undoneAt   sql.NullTime
	)

	err := row.Scan(
		&entry.ID,
		&entry.ActionType,
		&entry.Description,
		&bookingID,
		&serviceDay,
		&inverse,
		&entry.CreatedAt,
		&undoneAt,
	)
	if err != nil {
		return nil, err
	}

	decoded, err := domain.UnmarshalInverse(inverse)
	if err != nil {
		return nil, fmt.Errorf("decode inverse: %w", err)
	}

	entry.Inverse = *decoded
	entry.ServiceDay = serviceDay.Format(domain.DateFormat)
	if bookingID.Valid {
		entry.BookingID = &bookingID.String
	}
	if undoneAt.Valid {
		at := undoneAt.Time
		entry.UndoneAt = &at
	}

	return &entry, nil
}
