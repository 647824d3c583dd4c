package undo_action

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DropInService/internal/catalog"
	"github.com/m04kA/SMC-DropInService/internal/domain"
	"github.com/m04kA/SMC-DropInService/internal/serviceday"
	"github.com/m04kA/SMC-DropInService/internal/service/bookings"
	"github.com/m04kA/SMC-DropInService/internal/service/settings"
	"github.com/m04kA/SMC-DropInService/internal/testutil"
	"github.com/m04kA/SMC-DropInService/internal/usecase/book_slot"
	"github.com/m04kA/SMC-DropInService/pkg/logger"
	"github.com/m04kA/SMC-DropInService/pkg/ptr"
)

const day = "2025-01-15"

type fixture struct {
	uc       *UseCase
	book     *book_slot.UseCase
	bookings *bookings.Service
	store    *testutil.Store
	cache    *testutil.Cache
	clock    *serviceday.Clock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewStore()
	cache := testutil.NewCache()
	clock := testutil.FixedClock(t, testutil.Morning)
	tx := testutil.NewTxManager(store)
	settingsSvc := settings.NewService(store.SettingsRepo(), cache, clock, *domain.DefaultSettings(), logger.Nop())
	cat := catalog.Default()

	return &fixture{
		uc: NewUseCase(store.BookingRepo(), store.BlockedRepo(), store.HistoryRepo(), settingsSvc, cat,
			cache, tx, clock, nil, logger.Nop()),
		book: book_slot.NewUseCase(store.BookingRepo(), store.BlockedRepo(), store.HistoryRepo(), settingsSvc, cat,
			cache, tx, clock, nil, logger.Nop()),
		bookings: bookings.NewService(store.BookingRepo(), store.HistoryRepo(), cache, tx, clock, nil, logger.Nop()),
		store:    store,
		cache:    cache,
		clock:    clock,
	}
}

// tick moves the clock forward so history entries get distinct timestamps
func (f *fixture) tick() {
	f.clock.Set(f.clock.Now().Add(time.Minute))
}

func (f *fixture) bookShower(t *testing.T, guest, slot string) *book_slot.Response {
	t.Helper()
	f.tick()
	resp, err := f.book.Execute(context.Background(), &book_slot.Request{
		ServiceType: domain.ServiceShower, GuestID: guest, Date: day, SlotID: ptr.Ptr(slot),
	})
	require.NoError(t, err)
	return resp
}

func (f *fixture) cancel(t *testing.T, id string) string {
	t.Helper()
	f.tick()
	_, err := f.bookings.Cancel(context.Background(), id)
	require.NoError(t, err)
	entries := f.store.HistoryEntries()
	last := entries[len(entries)-1]
	require.Equal(t, domain.ActionBookingCancelled, last.ActionType)
	return last.ID
}

func (f *fixture) entry(t *testing.T, id string) *domain.ActionHistoryEntry {
	t.Helper()
	for _, e := range f.store.HistoryEntries() {
		if e.ID == id {
			return e
		}
	}
	t.Fatalf("entry %s not found", id)
	return nil
}

func TestUseCase_UndoInAnyOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	booked := f.bookShower(t, "g1", "08:00")
	cancelEntry := f.cancel(t, booked.Booking.ID)
	require.Equal(t, domain.StatusCancelled, f.store.Booking(booked.Booking.ID).Status)

	// undoing the cancellation brings the booking back; the creation stays
	f.tick()
	resp, err := f.uc.Execute(ctx, &Request{EntryID: cancelEntry})
	require.NoError(t, err)
	assert.Equal(t, domain.ActionBookingCancelled, resp.ActionType)
	require.NotNil(t, resp.Booking)
	assert.Equal(t, domain.StatusBooked, resp.Booking.Status)
	assert.Equal(t, domain.StatusBooked, f.store.Booking(booked.Booking.ID).Status)
	assert.True(t, f.entry(t, cancelEntry).IsUndone())
	assert.False(t, f.entry(t, booked.HistoryEntryID).IsUndone())

	// the creation is still reversible afterwards
	f.tick()
	resp, err = f.uc.Execute(ctx, &Request{EntryID: booked.HistoryEntryID})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, resp.Booking.Status)
	assert.Equal(t, domain.StatusCancelled, f.store.Booking(booked.Booking.ID).Status)
	assert.Equal(t, f.clock.Now(), *f.entry(t, booked.HistoryEntryID).UndoneAt)

	// undo writes no history of its own
	assert.Len(t, f.store.HistoryEntries(), 2)
	assert.Contains(t, f.cache.Invalidated(), "shower:"+day)
}

func TestUseCase_UndoCreationAfterCancellation(t *testing.T) {
	f := newFixture(t)

	booked := f.bookShower(t, "g1", "08:00")
	f.cancel(t, booked.Booking.ID)

	resp, err := f.uc.Execute(context.Background(), &Request{EntryID: booked.HistoryEntryID})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, resp.Booking.Status)
}

func TestUseCase_AlreadyUndoneAndUnknown(t *testing.T) {
	f := newFixture(t)
	booked := f.bookShower(t, "g1", "08:00")

	_, err := f.uc.Execute(context.Background(), &Request{EntryID: booked.HistoryEntryID})
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), &Request{EntryID: booked.HistoryEntryID})
	assert.ErrorIs(t, err, ErrAlreadyUndone)
	assert.ErrorIs(t, err, domain.ErrAlreadyUndone)

	_, err = f.uc.Execute(context.Background(), &Request{EntryID: "missing"})
	assert.ErrorIs(t, err, ErrEntryNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.Execute(context.Background(), &Request{EntryID: " "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUseCase_RestoreRechecksCapacity(t *testing.T) {
	f := newFixture(t)

	first := f.bookShower(t, "g1", "08:00")
	cancelEntry := f.cancel(t, first.Booking.ID)
	f.bookShower(t, "g2", "08:00")
	f.bookShower(t, "g3", "08:00")

	_, err := f.uc.Execute(context.Background(), &Request{EntryID: cancelEntry})
	assert.ErrorIs(t, err, ErrSlotFull)
	assert.ErrorIs(t, err, domain.ErrSlotFull)

	assert.Equal(t, domain.StatusCancelled, f.store.Booking(first.Booking.ID).Status)
	assert.False(t, f.entry(t, cancelEntry).IsUndone())
	assert.Contains(t, f.store.LockedPartitions, "shower:"+day)
}

func TestUseCase_RestoreLaundrySkipsRecheck(t *testing.T) {
	f := newFixture(t)
	created := testutil.Morning.Add(-time.Hour)
	slot := ptr.Ptr("08:00 - 09:00")
	b := &domain.Booking{ID: "l", GuestID: "g", ServiceType: domain.ServiceLaundry, Date: day, SlotID: slot,
		LaundryType: ptr.Ptr(domain.LaundryOnsite), Status: domain.StatusCancelled, CreatedAt: created, LastUpdated: created}
	f.store.PutBooking(b)

	// cancelled laundry keeps its seat, so an overfull day does not block the restore
	for i := 0; i < domain.DefaultMaxOnsiteLaundrySlots; i++ {
		f.store.PutBooking(&domain.Booking{ID: "other" + string(rune('a'+i)), GuestID: "x", ServiceType: domain.ServiceLaundry,
			Date: day, SlotID: slot, LaundryType: ptr.Ptr(domain.LaundryOnsite), Status: domain.StatusWaiting,
			CreatedAt: created, LastUpdated: created})
	}

	prev := domain.StatusWaiting
	entry := domain.NewHistoryEntry(domain.ActionBookingCancelled, "Cancelled", ptr.Ptr("l"), day,
		domain.Inverse{Op: domain.InverseRestoreBooking, BookingID: "l", Restore: &domain.BookingRestore{Status: &prev}},
		testutil.Morning)
	require.NoError(t, f.store.HistoryRepo().Append(context.Background(), entry))

	resp, err := f.uc.Execute(context.Background(), &Request{EntryID: entry.ID})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusWaiting, resp.Booking.Status)
}

func TestUseCase_RestorePlacement(t *testing.T) {
	f := newFixture(t)
	created := testutil.Morning.Add(-time.Hour)
	f.store.PutBooking(&domain.Booking{ID: "s", GuestID: "g", ServiceType: domain.ServiceShower, Date: day,
		SlotID: ptr.Ptr("09:00"), Status: domain.StatusBooked, CreatedAt: created, LastUpdated: created})

	before := &domain.Booking{ID: "s", ServiceType: domain.ServiceShower, SlotID: ptr.Ptr("08:00"), Status: domain.StatusBooked}
	entry := domain.NewHistoryEntry(domain.ActionBookingRescheduled, "Moved", ptr.Ptr("s"), day,
		domain.Inverse{Op: domain.InverseRestoreBooking, BookingID: "s", Restore: domain.RestorePlacement(before)},
		testutil.Morning)
	require.NoError(t, f.store.HistoryRepo().Append(context.Background(), entry))

	resp, err := f.uc.Execute(context.Background(), &Request{EntryID: entry.ID})
	require.NoError(t, err)
	assert.Equal(t, "08:00", resp.Booking.Slot())
	assert.Equal(t, "08:00", f.store.Booking("s").Slot())
}

func TestUseCase_BlockInverses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ref := &domain.SlotRef{ServiceType: domain.ServiceLaundry, SlotID: "08:00 - 09:00", Date: day}

	f.store.PutBlocked(&domain.BlockedSlot{ServiceType: ref.ServiceType, SlotID: ref.SlotID, Date: day,
		CreatedBy: "admin", CreatedAt: testutil.Morning})
	blockEntry := domain.NewHistoryEntry(domain.ActionSlotBlocked, "Blocked", nil, day,
		domain.Inverse{Op: domain.InverseUnblockSlot, Slot: ref}, testutil.Morning)
	require.NoError(t, f.store.HistoryRepo().Append(ctx, blockEntry))

	resp, err := f.uc.Execute(ctx, &Request{EntryID: blockEntry.ID, StaffID: "staff-1"})
	require.NoError(t, err)
	assert.Nil(t, resp.Booking)
	blocked, err := f.store.BlockedRepo().IsBlocked(ctx, ref.ServiceType, ref.SlotID, day)
	require.NoError(t, err)
	assert.False(t, blocked)

	unblockEntry := domain.NewHistoryEntry(domain.ActionSlotUnblocked, "Unblocked", nil, day,
		domain.Inverse{Op: domain.InverseBlockSlot, Slot: ref}, testutil.Morning)
	require.NoError(t, f.store.HistoryRepo().Append(ctx, unblockEntry))

	_, err = f.uc.Execute(ctx, &Request{EntryID: unblockEntry.ID, StaffID: "staff-1"})
	require.NoError(t, err)
	slots, err := f.store.BlockedRepo().ListByDate(ctx, ref.ServiceType, day)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "staff-1", slots[0].CreatedBy)
	assert.Contains(t, f.cache.Invalidated(), "laundry:"+day)
}

func TestUseCase_UnblockAlreadyGoneIsNoop(t *testing.T) {
	f := newFixture(t)
	ref := &domain.SlotRef{ServiceType: domain.ServiceShower, SlotID: "08:00", Date: day}
	entry := domain.NewHistoryEntry(domain.ActionSlotBlocked, "Blocked", nil, day,
		domain.Inverse{Op: domain.InverseUnblockSlot, Slot: ref}, testutil.Morning)
	require.NoError(t, f.store.HistoryRepo().Append(context.Background(), entry))

	_, err := f.uc.Execute(context.Background(), &Request{EntryID: entry.ID})
	require.NoError(t, err)
	assert.True(t, f.entry(t, entry.ID).IsUndone())
}

func TestUseCase_MissingBookingRollsBack(t *testing.T) {
	f := newFixture(t)
	entry := domain.NewHistoryEntry(domain.ActionBookingCreated, "Booked", ptr.Ptr("gone"), day,
		domain.Inverse{Op: domain.InverseCancelBooking, BookingID: "gone"}, testutil.Morning)
	require.NoError(t, f.store.HistoryRepo().Append(context.Background(), entry))

	_, err := f.uc.Execute(context.Background(), &Request{EntryID: entry.ID})
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.False(t, f.entry(t, entry.ID).IsUndone())
}

func TestUseCase_RestoreIntoBlockedSlot(t *testing.T) {
	f := newFixture(t)

	first := f.bookShower(t, "g1", "08:00")
	cancelEntry := f.cancel(t, first.Booking.ID)
	f.store.PutBlocked(&domain.BlockedSlot{ServiceType: domain.ServiceShower, SlotID: "08:00", Date: day,
		CreatedBy: "admin", CreatedAt: testutil.Morning})

	_, err := f.uc.Execute(context.Background(), &Request{EntryID: cancelEntry})
	assert.ErrorIs(t, err, ErrSlotBlocked)
	assert.ErrorIs(t, err, domain.ErrSlotBlocked)

	assert.Equal(t, domain.StatusCancelled, f.store.Booking(first.Booking.ID).Status)
	assert.False(t, f.entry(t, cancelEntry).IsUndone())
}

func TestUseCase_LocksPartitionBeforeReading(t *testing.T) {
	f := newFixture(t)
	created := testutil.Morning.Add(-time.Hour)
	f.store.PutBooking(&domain.Booking{ID: "s", GuestID: "g", ServiceType: domain.ServiceShower, Date: day,
		SlotID: ptr.Ptr("08:00"), Status: domain.StatusCancelled, CreatedAt: created, LastUpdated: created})

	prev := domain.StatusBooked
	entry := domain.NewHistoryEntry(domain.ActionBookingCancelled, "Cancelled", ptr.Ptr("s"), day,
		domain.Inverse{Op: domain.InverseRestoreBooking, BookingID: "s", Restore: &domain.BookingRestore{Status: &prev}},
		testutil.Morning)
	require.NoError(t, f.store.HistoryRepo().Append(context.Background(), entry))

	_, err := f.uc.Execute(context.Background(), &Request{EntryID: entry.ID})
	require.NoError(t, err)

	assert.Equal(t, []string{"shower:" + day}, f.store.LockedPartitions)
	assert.Equal(t, []int{0}, f.store.StatementsBeforeLock)
}
