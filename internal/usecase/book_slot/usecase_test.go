package book_slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DropInService/internal/catalog"
	"github.com/m04kA/SMC-DropInService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-DropInService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-DropInService/internal/service/settings"
	"github.com/m04kA/SMC-DropInService/internal/testutil"
	"github.com/m04kA/SMC-DropInService/pkg/dbmetrics"
	"github.com/m04kA/SMC-DropInService/pkg/logger"
	"github.com/m04kA/SMC-DropInService/pkg/ptr"
	"github.com/m04kA/SMC-DropInService/pkg/txmanager"
)

const day = "2025-01-15"

type fixture struct {
	uc    *UseCase
	store *testutil.Store
	cache *testutil.Cache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewStore()
	cache := testutil.NewCache()
	clock := testutil.FixedClock(t, testutil.Morning)
	settingsSvc := settings.NewService(store.SettingsRepo(), cache, clock, *domain.DefaultSettings(), logger.Nop())

	uc := NewUseCase(
		store.BookingRepo(),
		store.BlockedRepo(),
		store.HistoryRepo(),
		settingsSvc,
		catalog.Default(),
		cache,
		testutil.NewTxManager(store),
		clock,
		nil,
		logger.Nop(),
	)
	return &fixture{uc: uc, store: store, cache: cache}
}

func showerReq(guest, slot string) *Request {
	return &Request{ServiceType: domain.ServiceShower, GuestID: guest, Date: day, SlotID: ptr.Ptr(slot)}
}

func onsiteReq(guest, slot string) *Request {
	return &Request{
		ServiceType: domain.ServiceLaundry,
		GuestID:     guest,
		Date:        day,
		SlotID:      ptr.Ptr(slot),
		LaundryType: ptr.Ptr(domain.LaundryOnsite),
	}
}

func TestUseCase_ShowerCapacity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.uc.Execute(ctx, showerReq("A", "08:00"))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusBooked, a.Booking.Status)
	assert.Equal(t, "08:00", a.Booking.Slot())
	assert.Equal(t, testutil.Morning, a.Booking.CreatedAt)

	_, err = f.uc.Execute(ctx, showerReq("B", "08:00"))
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, showerReq("C", "08:00"))
	assert.ErrorIs(t, err, ErrSlotFull)
	assert.ErrorIs(t, err, domain.ErrSlotFull)

	assert.Len(t, f.store.Bookings(), 2)
	assert.Len(t, f.store.HistoryEntries(), 2)
	assert.Equal(t, []string{"shower:" + day, "shower:" + day, "shower:" + day}, f.cache.Invalidated())
}

func TestUseCase_CancelledShowerFreesSeat(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.uc.Execute(ctx, showerReq("A", "08:00"))
	require.NoError(t, err)
	_, err = f.uc.Execute(ctx, showerReq("B", "08:00"))
	require.NoError(t, err)

	cancelled := a.Booking.Clone()
	cancelled.Status = domain.StatusCancelled
	f.store.PutBooking(cancelled)

	_, err = f.uc.Execute(ctx, showerReq("C", "08:00"))
	assert.NoError(t, err)
}

func TestUseCase_CancelledLaundryStillOccupies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	slot := catalog.DefaultLaundrySlots[0]

	for i := 0; i < domain.DefaultMaxOnsiteLaundrySlots; i++ {
		resp, err := f.uc.Execute(ctx, onsiteReq("guest", slot))
		require.NoError(t, err)
		assert.Equal(t, domain.StatusWaiting, resp.Booking.Status)

		cancelled := resp.Booking.Clone()
		cancelled.Status = domain.StatusCancelled
		f.store.PutBooking(cancelled)
	}

	_, err := f.uc.Execute(ctx, onsiteReq("late", slot))
	assert.ErrorIs(t, err, domain.ErrSlotFull)
}

func TestUseCase_LaundryCapacityIsLive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	slot := catalog.DefaultLaundrySlots[1]

	f.store.PutSettings(&domain.Settings{MaxOnsiteLaundrySlots: 1, OffsiteLaundryEnabled: true, UpdatedAt: testutil.Morning})
	_, err := f.uc.Execute(ctx, onsiteReq("A", slot))
	require.NoError(t, err)
	_, err = f.uc.Execute(ctx, onsiteReq("B", slot))
	assert.ErrorIs(t, err, domain.ErrSlotFull)

	f.store.PutSettings(&domain.Settings{MaxOnsiteLaundrySlots: 2, OffsiteLaundryEnabled: true, UpdatedAt: testutil.Morning})
	_, err = f.uc.Execute(ctx, onsiteReq("B", slot))
	assert.NoError(t, err)
}

func TestUseCase_BlockedSlot(t *testing.T) {
	f := newFixture(t)
	f.store.PutBlocked(&domain.BlockedSlot{ServiceType: domain.ServiceShower, SlotID: "09:00", Date: day})

	_, err := f.uc.Execute(context.Background(), showerReq("A", "09:00"))
	assert.ErrorIs(t, err, ErrSlotBlocked)
	assert.ErrorIs(t, err, domain.ErrSlotBlocked)
	assert.Empty(t, f.store.Bookings())

	// blocking is per day and per service
	other := showerReq("A", "09:00")
	other.Date = "2025-01-16"
	_, err = f.uc.Execute(context.Background(), other)
	assert.NoError(t, err)
}

func TestUseCase_DayPartitioning(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, guest := range []string{"A", "B"} {
		_, err := f.uc.Execute(ctx, showerReq(guest, "08:00"))
		require.NoError(t, err)
	}

	next := showerReq("A", "08:00")
	next.Date = "2025-01-16"
	_, err := f.uc.Execute(ctx, next)
	assert.NoError(t, err)
}

func TestUseCase_Offsite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := &Request{ServiceType: domain.ServiceLaundry, GuestID: "A", Date: day, LaundryType: ptr.Ptr(domain.LaundryOffsite)}
	resp, err := f.uc.Execute(ctx, req)
	require.NoError(t, err)
	assert.Nil(t, resp.Booking.SlotID)
	assert.Equal(t, domain.StatusPending, resp.Booking.Status)
	assert.Empty(t, f.store.LockedPartitions, "offsite bookings take no slot")

	f.store.PutSettings(&domain.Settings{MaxOnsiteLaundrySlots: 5, OffsiteLaundryEnabled: false, UpdatedAt: testutil.Morning})
	req = &Request{ServiceType: domain.ServiceLaundry, GuestID: "B", Date: day, LaundryType: ptr.Ptr(domain.LaundryOffsite)}
	_, err = f.uc.Execute(ctx, req)
	assert.ErrorIs(t, err, ErrOffsiteDisabled)
}

func TestUseCase_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		req  *Request
		want error
	}{
		{"missing guest", showerReq(" ", "08:00"), ErrInvalidInput},
		{"bad date", &Request{ServiceType: domain.ServiceShower, GuestID: "A", Date: "15/01/2025", SlotID: ptr.Ptr("08:00")}, ErrInvalidDate},
		{"shower without slot", &Request{ServiceType: domain.ServiceShower, GuestID: "A", Date: day}, ErrInvalidInput},
		{"offsite with slot", &Request{ServiceType: domain.ServiceLaundry, GuestID: "A", Date: day, SlotID: ptr.Ptr("x"), LaundryType: ptr.Ptr(domain.LaundryOffsite)}, ErrInvalidInput},
		{"unknown service", &Request{ServiceType: "sauna", GuestID: "A", Date: day}, ErrInvalidInput},
		{"unknown slot", showerReq("A", "03:00"), ErrUnknownSlot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Empty(t, f.store.Bookings())
}

func TestUseCase_HistoryEntry(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), showerReq("A", "08:00"))
	require.NoError(t, err)

	entries := f.store.HistoryEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, resp.HistoryEntryID, entries[0].ID)
	assert.Equal(t, domain.ActionBookingCreated, entries[0].ActionType)
	assert.Equal(t, domain.InverseCancelBooking, entries[0].Inverse.Op)
	assert.Equal(t, resp.Booking.ID, entries[0].Inverse.BookingID)
	assert.Equal(t, day, entries[0].ServiceDay)
}

func TestUseCase_HistoryFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	f.store.AppendErr = errors.New("connection reset")

	_, err := f.uc.Execute(context.Background(), showerReq("A", "08:00"))
	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.Empty(t, f.store.Bookings())
}

func TestUseCase_ConcurrentLastSeat(t *testing.T) {
	f := newFixture(t)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		ok   int
		full int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.uc.Execute(context.Background(), showerReq("guest", "10:00"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrSlotFull):
				full++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, domain.DefaultShowerCapacity, ok)
	assert.Equal(t, 10-domain.DefaultShowerCapacity, full)
}

func TestUseCase_LocksPartitionBeforeReading(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), onsiteReq("A", "08:00 - 09:00"))
	require.NoError(t, err)

	assert.Equal(t, []string{"laundry:" + day}, f.store.LockedPartitions)
	assert.Equal(t, []int{0}, f.store.StatementsBeforeLock)
}

// conflictingBookingRepo fails the first inserts the way PostgreSQL reports
// a serialization failure through storage/booking
type conflictingBookingRepo struct {
	*testutil.BookingRepo
	conflicts int
}

func (r *conflictingBookingRepo) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	if r.conflicts > 0 {
		r.conflicts--
		pqErr := &pq.Error{Code: "40001", Message: "could not serialize access due to read/write dependencies"}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", bookingRepo.ErrExecQuery, pqErr)
	}
	return r.BookingRepo.Create(ctx, b)
}

// hookedDB runs beforeBegin ahead of every transaction the manager opens
type hookedDB struct {
	*testutil.SQLDB
	beforeBegin func(attempt int)
	attempts    int
}

func (d *hookedDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	d.attempts++
	if d.beforeBegin != nil {
		d.beforeBegin(d.attempts)
	}
	return d.SQLDB.BeginTx(ctx, opts)
}

func newConflictFixture(t *testing.T, conflicts int, beforeBegin func(attempt int)) (*UseCase, *testutil.Store, *hookedDB) {
	t.Helper()
	store := testutil.NewStore()
	cache := testutil.NewCache()
	clock := testutil.FixedClock(t, testutil.Morning)
	settingsSvc := settings.NewService(store.SettingsRepo(), cache, clock, *domain.DefaultSettings(), logger.Nop())
	db := &hookedDB{SQLDB: store.SQLDB(), beforeBegin: beforeBegin}

	uc := NewUseCase(
		&conflictingBookingRepo{BookingRepo: store.BookingRepo(), conflicts: conflicts},
		store.BlockedRepo(),
		store.HistoryRepo(),
		settingsSvc,
		catalog.Default(),
		cache,
		txmanager.NewTransactionManager(db, txmanager.WithBackoff(0)),
		clock,
		nil,
		logger.Nop(),
	)
	return uc, store, db
}

func TestUseCase_RetriesSerializationFailure(t *testing.T) {
	uc, store, db := newConflictFixture(t, 1, nil)

	resp, err := uc.Execute(context.Background(), showerReq("A", "08:00"))
	require.NoError(t, err)

	assert.Equal(t, 2, db.Begun())
	assert.Len(t, store.Bookings(), 1)
	assert.Len(t, store.HistoryEntries(), 1)
	assert.Equal(t, resp.Booking.ID, store.Bookings()[0].ID)
}

func TestUseCase_ConflictOnLastSeatReportsSlotFull(t *testing.T) {
	taken := func(guest string) *domain.Booking {
		return &domain.Booking{
			ID:          "seat-" + guest,
			GuestID:     guest,
			ServiceType: domain.ServiceShower,
			Date:        day,
			SlotID:      ptr.Ptr("08:00"),
			Status:      domain.StatusBooked,
			CreatedAt:   testutil.Morning,
			LastUpdated: testutil.Morning,
		}
	}

	var store *testutil.Store
	// The competitor commits between the failed attempt and the retry
	uc, s, db := newConflictFixture(t, 1, func(attempt int) {
		if attempt == 2 {
			store.PutBooking(taken("B"))
		}
	})
	store = s
	store.PutBooking(taken("A"))

	_, err := uc.Execute(context.Background(), showerReq("C", "08:00"))

	assert.ErrorIs(t, err, ErrSlotFull)
	assert.NotErrorIs(t, err, domain.ErrStorage)
	assert.Equal(t, 2, db.Begun())
	assert.Len(t, store.Bookings(), 2)
	assert.Empty(t, store.HistoryEntries())
}

func TestUseCase_ConflictRetriesAreBounded(t *testing.T) {
	uc, store, db := newConflictFixture(t, 10, nil)

	_, err := uc.Execute(context.Background(), showerReq("A", "08:00"))

	assert.ErrorIs(t, err, ErrInternal)
	var pqErr *pq.Error
	require.ErrorAs(t, err, &pqErr)
	assert.Equal(t, "40001", string(pqErr.Code))
	assert.Equal(t, 3, db.Begun())
	assert.Empty(t, store.Bookings())
}
