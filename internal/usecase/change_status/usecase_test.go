package change_status

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DropInService/internal/domain"
	"github.com/m04kA/SMC-DropInService/internal/testutil"
	"github.com/m04kA/SMC-DropInService/pkg/logger"
	"github.com/m04kA/SMC-DropInService/pkg/ptr"
)

const day = "2025-01-15"

func newUseCase(t *testing.T) (*UseCase, *testutil.Store) {
	t.Helper()
	store := testutil.NewStore()
	uc := NewUseCase(store.BookingRepo(), store.HistoryRepo(), testutil.NewCache(), testutil.NewTxManager(store),
		testutil.FixedClock(t, testutil.Morning), nil, logger.Nop())
	return uc, store
}

func laundry(id string, lt domain.LaundryType, status domain.BookingStatus, bag *string) *domain.Booking {
	created := testutil.Morning.Add(-time.Hour)
	b := &domain.Booking{
		ID: id, GuestID: "g-" + id, ServiceType: domain.ServiceLaundry, Date: day,
		LaundryType: ptr.Ptr(lt), Status: status, BagNumber: bag, CreatedAt: created, LastUpdated: created,
	}
	if lt == domain.LaundryOnsite {
		b.SlotID = ptr.Ptr("08:00 - 09:00")
	}
	return b
}

func TestUseCase_BagNumberGate(t *testing.T) {
	uc, store := newUseCase(t)
	store.PutBooking(laundry("l", domain.LaundryOnsite, domain.StatusWaiting, nil))

	_, err := uc.Execute(context.Background(), &Request{BookingID: "l", Status: "washer"})
	assert.ErrorIs(t, err, ErrBagNumberRequired)
	assert.ErrorIs(t, err, domain.ErrBagNumberRequired)
	got := store.Booking("l")
	assert.Equal(t, domain.StatusWaiting, got.Status)
	assert.Nil(t, got.BagNumber)
	assert.Empty(t, store.HistoryEntries())

	// blank bag number does not pass the gate either
	_, err = uc.Execute(context.Background(), &Request{BookingID: "l", Status: "washer", BagNumber: ptr.Ptr("  ")})
	assert.ErrorIs(t, err, ErrBagNumberRequired)

	resp, err := uc.Execute(context.Background(), &Request{BookingID: "l", Status: "washer", BagNumber: ptr.Ptr("B-4")})
	require.NoError(t, err)
	assert.True(t, resp.Changed)
	got = store.Booking("l")
	assert.Equal(t, domain.StatusWasher, got.Status)
	require.NotNil(t, got.BagNumber)
	assert.Equal(t, "B-4", *got.BagNumber)
	assert.Equal(t, testutil.Morning, got.LastUpdated)

	entries := store.HistoryEntries()
	require.Len(t, entries, 1)
	restore := entries[0].Inverse.Restore
	require.NotNil(t, restore)
	assert.Equal(t, domain.StatusWaiting, *restore.Status)
	assert.True(t, restore.RestoreBagNumber)
	assert.Nil(t, restore.BagNumber)

	// with a bag on record later moves need nothing extra
	_, err = uc.Execute(context.Background(), &Request{BookingID: "l", Status: "done"})
	require.NoError(t, err)
	entries = store.HistoryEntries()
	require.Len(t, entries, 2)
	assert.False(t, entries[1].Inverse.Restore.RestoreBagNumber)
}

func TestUseCase_BagNumberAndStatusRollBackTogether(t *testing.T) {
	uc, store := newUseCase(t)
	store.PutBooking(laundry("l", domain.LaundryOffsite, domain.StatusPending, nil))
	store.AppendErr = errors.New("timeout")

	_, err := uc.Execute(context.Background(), &Request{BookingID: "l", Status: "transported", BagNumber: ptr.Ptr("9")})
	assert.ErrorIs(t, err, domain.ErrStorage)

	got := store.Booking("l")
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.Nil(t, got.BagNumber)
}

func TestUseCase_LaundryAnyToAny(t *testing.T) {
	uc, store := newUseCase(t)
	store.PutBooking(laundry("l", domain.LaundryOnsite, domain.StatusPickedUp, ptr.Ptr("3")))

	for _, next := range []string{"waiting", "dryer", "washer", "done"} {
		_, err := uc.Execute(context.Background(), &Request{BookingID: "l", Status: next})
		require.NoError(t, err, next)
		assert.Equal(t, domain.BookingStatus(next), store.Booking("l").Status)
	}

	_, err := uc.Execute(context.Background(), &Request{BookingID: "l", Status: "transported"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUseCase_CancelSkipsGateAndIsTerminal(t *testing.T) {
	uc, store := newUseCase(t)
	store.PutBooking(laundry("l", domain.LaundryOnsite, domain.StatusWaiting, nil))

	resp, err := uc.Execute(context.Background(), &Request{BookingID: "l", Status: "cancelled"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, resp.Booking.Status)
	assert.Equal(t, domain.ActionBookingCancelled, store.HistoryEntries()[0].ActionType)

	_, err = uc.Execute(context.Background(), &Request{BookingID: "l", Status: "waiting", BagNumber: ptr.Ptr("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestUseCase_ShowerToggle(t *testing.T) {
	uc, store := newUseCase(t)
	created := testutil.Morning.Add(-time.Hour)
	store.PutBooking(&domain.Booking{ID: "s", GuestID: "g", ServiceType: domain.ServiceShower, Date: day,
		SlotID: ptr.Ptr("08:00"), Status: domain.StatusBooked, CreatedAt: created, LastUpdated: created})
	store.PutBooking(&domain.Booking{ID: "w", GuestID: "g", ServiceType: domain.ServiceShower, Date: day,
		Status: domain.StatusWaitlisted, CreatedAt: created, LastUpdated: created})

	_, err := uc.Execute(context.Background(), &Request{BookingID: "s", Status: "done"})
	require.NoError(t, err)
	_, err = uc.Execute(context.Background(), &Request{BookingID: "s", Status: "booked"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusBooked, store.Booking("s").Status)

	// same status is a no-op
	resp, err := uc.Execute(context.Background(), &Request{BookingID: "s", Status: "booked"})
	require.NoError(t, err)
	assert.False(t, resp.Changed)
	assert.Len(t, store.HistoryEntries(), 2)

	// waitlisted showers get a seat through slot assignment only
	_, err = uc.Execute(context.Background(), &Request{BookingID: "w", Status: "booked"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUseCase_Validation(t *testing.T) {
	uc, _ := newUseCase(t)

	_, err := uc.Execute(context.Background(), &Request{BookingID: "l", Status: "lost"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = uc.Execute(context.Background(), &Request{BookingID: "", Status: "done"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{BookingID: "missing", Status: "done"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
