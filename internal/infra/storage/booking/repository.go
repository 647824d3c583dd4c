package booking

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

var bookingColumns = []string{
	"id",
	"guest_id",
	"service_type",
	"service_date",
	"slot_id",
	"laundry_type",
	"status",
	"bag_number",
	"created_at",
	"last_updated",
}

// Repository stores bookings
type Repository struct {
	db DBExecutor
}

// NewRepository creates a booking repository
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create inserts a booking. If ctx carries a transaction the insert joins it.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(bookingColumns...).
		Values(
			booking.ID,
			booking.GuestID,
			booking.ServiceType,
			booking.Date,
			booking.SlotID,
			laundryTypeValue(booking.LaundryType),
			booking.Status,
			booking.BagNumber,
			booking.CreatedAt,
			booking.LastUpdated,
		).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return booking, nil
}

// GetByID returns a booking. Inside a transaction the row is locked FOR UPDATE.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// ListByDay returns every booking of a service on a day, cancelled ones included.
// The capacity policy decides which of them occupy a slot.
func (r *Repository) ListByDay(ctx context.Context, serviceType domain.ServiceType, date string) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"service_type": serviceType, "service_date": date}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDay - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDay - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ListWaitlist returns waitlisted showers of a day in queue order
func (r *Repository) ListWaitlist(ctx context.Context, date string) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{
			"service_type": domain.ServiceShower,
			"service_date": date,
			"status":       domain.StatusWaitlisted,
			"slot_id":      nil,
		}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListWaitlist - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListWaitlist - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ListByGuest returns a guest's bookings, newest day first
func (r *Repository) ListByGuest(ctx context.Context, guestID string) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"guest_id": guestID}).
		OrderBy("service_date DESC", "created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByGuest - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByGuest - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// Update writes slot, laundry type, status and bag number in one statement,
// so a gated status change and its bag number become visible together.
func (r *Repository) Update(ctx context.Context, booking *domain.Booking) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("slot_id", booking.SlotID).
		Set("laundry_type", laundryTypeValue(booking.LaundryType)).
		Set("status", booking.Status).
		Set("bag_number", booking.BagNumber).
		Set("last_updated", booking.LastUpdated).
		Where(squirrel.Eq{"id": booking.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// LockPartition serializes capacity-changing writers of one service day.
// The advisory lock is released when the surrounding transaction ends.
func (r *Repository) LockPartition(ctx context.Context, serviceType domain.ServiceType, date string) error {
	tx, ok := dbmetrics.GetTx(ctx)
	if !ok {
		return fmt.Errorf("%w: LockPartition - no transaction in context", ErrTransaction)
	}

	key := fmt.Sprintf("bookings:%s:%s", serviceType, date)
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
		return fmt.Errorf("%w: LockPartition - acquire lock: %w", ErrExecQuery, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		b           domain.Booking
		serviceDate time.Time
		slotID      sql.NullString
		laundryType sql.NullString
		bagNumber   sql.NullString
	)

	err := row.Scan(
		&b.ID,
		&b.GuestID,
		&b.ServiceType,
		&serviceDate,
		&slotID,
		&laundryType,
		&b.Status,
		&bagNumber,
		&b.CreatedAt,
		&b.LastUpdated,
	)
	if err != nil {
		return nil, err
	}

	b.Date = serviceDate.Format(domain.DateFormat)
	if slotID.Valid {
		b.SlotID = &slotID.String
	}
	if laundryType.Valid {
		lt := domain.LaundryType(laundryType.String)
		b.LaundryType = &lt
	}
	if bagNumber.Valid {
		b.BagNumber = &bagNumber.String
	}

	return &b, nil
}

func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan booking: %w", ErrScanRow, err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}

func laundryTypeValue(lt *domain.LaundryType) interface{} {
	if lt == nil {
		return nil
	}
	return string(*lt)
}
