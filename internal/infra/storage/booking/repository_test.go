package booking_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DropInService/internal/catalog"
	"github.com/m04kA/SMC-DropInService/internal/domain"
	"github.com/m04kA/SMC-DropInService/internal/infra/storage/blocked"
	"github.com/m04kA/SMC-DropInService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-DropInService/internal/infra/storage/history"
	settingsRepo "github.com/m04kA/SMC-DropInService/internal/infra/storage/settings"
	"github.com/m04kA/SMC-DropInService/internal/service/settings"
	"github.com/m04kA/SMC-DropInService/internal/testutil"
	"github.com/m04kA/SMC-DropInService/internal/usecase/book_slot"
	"github.com/m04kA/SMC-DropInService/pkg/dbmetrics"
	"github.com/m04kA/SMC-DropInService/pkg/logger"
	"github.com/m04kA/SMC-DropInService/pkg/ptr"
	"github.com/m04kA/SMC-DropInService/pkg/txmanager"
)

const day = "2025-01-15"

func newDB(t *testing.T) *dbmetrics.DB {
	t.Helper()
	return dbmetrics.Wrap(testutil.NewTestDB(t), nil, "test")
}

func showerBooking(id, slot string) *domain.Booking {
	created := testutil.Morning.Add(-time.Hour)
	return &domain.Booking{
		ID:          id,
		GuestID:     "guest-" + id,
		ServiceType: domain.ServiceShower,
		Date:        day,
		SlotID:      ptr.Ptr(slot),
		Status:      domain.StatusBooked,
		CreatedAt:   created,
		LastUpdated: created,
	}
}

func TestRepository_CreateAndGet(t *testing.T) {
	db := newDB(t)
	repo := booking.NewRepository(db)
	ctx := context.Background()

	id := uuid.NewString()
	laundry := &domain.Booking{
		ID:          id,
		GuestID:     "guest-1",
		ServiceType: domain.ServiceLaundry,
		Date:        day,
		SlotID:      ptr.Ptr(catalog.DefaultLaundrySlots[0]),
		LaundryType: ptr.Ptr(domain.LaundryOnsite),
		Status:      domain.StatusWaiting,
		CreatedAt:   testutil.Morning,
		LastUpdated: testutil.Morning,
	}
	_, err := repo.Create(ctx, laundry)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, day, got.Date, "DATE column must come back as the service day")
	assert.Equal(t, catalog.DefaultLaundrySlots[0], got.Slot())
	require.NotNil(t, got.LaundryType)
	assert.Equal(t, domain.LaundryOnsite, *got.LaundryType)
	assert.Equal(t, domain.StatusWaiting, got.Status)
	assert.Nil(t, got.BagNumber)
	assert.True(t, testutil.Morning.Equal(got.CreatedAt))

	got.Status = domain.StatusWasher
	got.BagNumber = ptr.Ptr("B-12")
	got.LastUpdated = testutil.Morning.Add(time.Minute)
	require.NoError(t, repo.Update(ctx, got))

	again, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusWasher, again.Status)
	assert.Equal(t, "B-12", *again.BagNumber)
}

func TestRepository_MalformedIDIsNotFound(t *testing.T) {
	repo := booking.NewRepository(newDB(t))
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, booking.ErrBookingNotFound)

	err = repo.Update(ctx, showerBooking("not-a-uuid", "08:00"))
	assert.ErrorIs(t, err, booking.ErrBookingNotFound)
}

func TestRepository_ListByDayAndWaitlist(t *testing.T) {
	repo := booking.NewRepository(newDB(t))
	ctx := context.Background()

	first := showerBooking("b-1", "08:00")
	second := showerBooking("b-2", "08:30")
	second.CreatedAt = first.CreatedAt.Add(time.Minute)
	waiting := showerBooking("b-3", "")
	waiting.SlotID = nil
	waiting.Status = domain.StatusWaitlisted
	waiting.CreatedAt = first.CreatedAt.Add(2 * time.Minute)
	otherDay := showerBooking("b-4", "08:00")
	otherDay.Date = "2025-01-16"

	for _, b := range []*domain.Booking{second, waiting, first, otherDay} {
		_, err := repo.Create(ctx, b)
		require.NoError(t, err)
	}

	bookings, err := repo.ListByDay(ctx, domain.ServiceShower, day)
	require.NoError(t, err)
	require.Len(t, bookings, 3)
	assert.Equal(t, []string{"b-1", "b-2", "b-3"}, []string{bookings[0].ID, bookings[1].ID, bookings[2].ID})

	waitlist, err := repo.ListWaitlist(ctx, day)
	require.NoError(t, err)
	require.Len(t, waitlist, 1)
	assert.Equal(t, "b-3", waitlist[0].ID)
	assert.Nil(t, waitlist[0].SlotID)

	guest, err := repo.ListByGuest(ctx, "guest-b-4")
	require.NoError(t, err)
	require.Len(t, guest, 1)
	assert.Equal(t, "2025-01-16", guest[0].Date)
}

func TestRepository_LockPartitionNeedsTransaction(t *testing.T) {
	repo := booking.NewRepository(newDB(t))

	err := repo.LockPartition(context.Background(), domain.ServiceShower, day)
	assert.ErrorIs(t, err, booking.ErrTransaction)
}

func TestRepository_LockPartitionExcludesSecondWriter(t *testing.T) {
	db := newDB(t)
	repo := booking.NewRepository(db)
	ctx := context.Background()

	holder, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer func() { _ = holder.Rollback() }()
	require.NoError(t, repo.LockPartition(dbmetrics.WithTx(ctx, holder), domain.ServiceShower, day))

	// another day of the same service is a different partition
	other, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, repo.LockPartition(dbmetrics.WithTx(ctx, other), domain.ServiceShower, "2025-01-16"))
	require.NoError(t, other.Rollback())

	waiter, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	waitCtx, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
	defer cancel()
	err = repo.LockPartition(dbmetrics.WithTx(waitCtx, waiter), domain.ServiceShower, day)
	assert.Error(t, err, "second writer of the partition must wait for the first")
	_ = waiter.Rollback()

	require.NoError(t, holder.Commit())

	next, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer func() { _ = next.Rollback() }()
	assert.NoError(t, repo.LockPartition(dbmetrics.WithTx(ctx, next), domain.ServiceShower, day))
}

func TestRepository_GetByIDLocksRowInTransaction(t *testing.T) {
	db := newDB(t)
	repo := booking.NewRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, showerBooking("b-1", "08:00"))
	require.NoError(t, err)

	holder, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer func() { _ = holder.Rollback() }()
	_, err = repo.GetByID(dbmetrics.WithTx(ctx, holder), "b-1")
	require.NoError(t, err)

	writer, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer func() { _ = writer.Rollback() }()
	waitCtx, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
	defer cancel()

	b := showerBooking("b-1", "08:30")
	err = repo.Update(dbmetrics.WithTx(waitCtx, writer), b)
	assert.Error(t, err, "row read inside a transaction is held FOR UPDATE")
}

func TestBookSlot_ConcurrentWritersFillLastSeatOnce(t *testing.T) {
	db := newDB(t)
	bookings := booking.NewRepository(db)
	cache := testutil.NewCache()
	clock := testutil.FixedClock(t, testutil.Morning)
	settingsSvc := settings.NewService(settingsRepo.NewRepository(db), cache, clock, *domain.DefaultSettings(), logger.Nop())
	tx := txmanager.NewTransactionManager(db, txmanager.WithMaxAttempts(20), txmanager.WithBackoff(5*time.Millisecond))
	uc := book_slot.NewUseCase(bookings, blocked.NewRepository(db), history.NewRepository(db), settingsSvc,
		catalog.Default(), cache, tx, clock, nil, logger.Nop())

	// one seat of the slot is already taken
	_, err := bookings.Create(context.Background(), showerBooking(uuid.NewString(), "08:00"))
	require.NoError(t, err)

	const writers = 6
	var (
		wg       sync.WaitGroup
		start    = make(chan struct{})
		errs     = make([]error, writers)
		accepted = 0
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = uc.Execute(context.Background(), &book_slot.Request{
				ServiceType: domain.ServiceShower,
				GuestID:     fmt.Sprintf("guest-%d", i),
				Date:        day,
				SlotID:      ptr.Ptr("08:00"),
			})
		}(i)
	}
	close(start)
	wg.Wait()

	for _, err := range errs {
		switch {
		case err == nil:
			accepted++
		case errors.Is(err, domain.ErrSlotFull):
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, domain.DefaultShowerCapacity-1, accepted)

	stored, err := bookings.ListByDay(context.Background(), domain.ServiceShower, day)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultShowerCapacity, domain.CountOccupancy(stored, "08:00", ""))
}
