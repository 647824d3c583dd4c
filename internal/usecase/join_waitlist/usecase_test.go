package join_waitlist

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DropInService/internal/domain"
	"github.com/m04kA/SMC-DropInService/internal/testutil"
	"github.com/m04kA/SMC-DropInService/pkg/logger"
)

const day = "2025-01-15"

func TestUseCase_PositionsFollowCreationOrder(t *testing.T) {
	store := testutil.NewStore()
	cache := testutil.NewCache()
	clock := testutil.FixedClock(t, testutil.Morning)
	uc := NewUseCase(store.BookingRepo(), store.HistoryRepo(), cache, testutil.NewTxManager(store), clock, nil, logger.Nop())
	ctx := context.Background()

	for i, guest := range []string{"A", "B", "C"} {
		clock.Set(testutil.Morning.Add(time.Duration(i) * time.Minute))
		resp, err := uc.Execute(ctx, &Request{GuestID: guest, Date: day})
		require.NoError(t, err)
		assert.Equal(t, i+1, resp.Position)
		assert.Equal(t, domain.StatusWaitlisted, resp.Booking.Status)
		assert.Nil(t, resp.Booking.SlotID)
	}

	entries := store.HistoryEntries()
	require.Len(t, entries, 3)
	assert.Equal(t, domain.ActionWaitlistAdded, entries[0].ActionType)
	assert.Equal(t, domain.InverseCancelBooking, entries[0].Inverse.Op)
	assert.Len(t, cache.Invalidated(), 3)

	// another day has its own queue
	resp, err := uc.Execute(ctx, &Request{GuestID: "D", Date: "2025-01-16"})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Position)
}

func TestUseCase_Validation(t *testing.T) {
	store := testutil.NewStore()
	uc := NewUseCase(store.BookingRepo(), store.HistoryRepo(), testutil.NewCache(), testutil.NewTxManager(store),
		testutil.FixedClock(t, testutil.Morning), nil, logger.Nop())

	_, err := uc.Execute(context.Background(), &Request{GuestID: "", Date: day})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{GuestID: "A", Date: "2025-13-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, store.Bookings())
}
