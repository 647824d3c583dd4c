package blocked_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DropInService/internal/domain"
	"github.com/m04kA/SMC-DropInService/internal/infra/storage/blocked"
	"github.com/m04kA/SMC-DropInService/internal/testutil"
	"github.com/m04kA/SMC-DropInService/pkg/dbmetrics"
)

const day = "2025-01-15"

func TestRepository_BlockIsIdempotent(t *testing.T) {
	repo := blocked.NewRepository(dbmetrics.Wrap(testutil.NewTestDB(t), nil, "test"))
	ctx := context.Background()

	slot := &domain.BlockedSlot{ServiceType: domain.ServiceShower, SlotID: "08:00", Date: day,
		CreatedBy: "staff-1", CreatedAt: testutil.Morning}

	created, err := repo.Create(ctx, slot)
	require.NoError(t, err)
	assert.True(t, created)

	again := *slot
	again.CreatedBy = "staff-2"
	created, err = repo.Create(ctx, &again)
	require.NoError(t, err)
	assert.False(t, created, "second block of the same slot is a no-op")

	slots, err := repo.ListByDate(ctx, domain.ServiceShower, day)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "staff-1", slots[0].CreatedBy)
	assert.Equal(t, day, slots[0].Date)

	isBlocked, err := repo.IsBlocked(ctx, domain.ServiceShower, "08:00", day)
	require.NoError(t, err)
	assert.True(t, isBlocked)

	isBlocked, err = repo.IsBlocked(ctx, domain.ServiceLaundry, "08:00", day)
	require.NoError(t, err)
	assert.False(t, isBlocked, "blocking is per service")

	require.NoError(t, repo.Delete(ctx, domain.ServiceShower, "08:00", day))
	err = repo.Delete(ctx, domain.ServiceShower, "08:00", day)
	assert.ErrorIs(t, err, blocked.ErrBlockedSlotNotFound)
}
