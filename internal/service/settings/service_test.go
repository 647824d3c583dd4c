package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DropInService/internal/domain"
	"github.com/m04kA/SMC-DropInService/internal/service/settings/models"
	"github.com/m04kA/SMC-DropInService/internal/testutil"
	"github.com/m04kA/SMC-DropInService/pkg/logger"
	"github.com/m04kA/SMC-DropInService/pkg/ptr"
)

func newTestService(t *testing.T) (*Service, *testutil.Store, *testutil.Cache) {
	t.Helper()
	store := testutil.NewStore()
	cache := testutil.NewCache()
	svc := NewService(store.SettingsRepo(), cache, testutil.FixedClock(t, testutil.Morning), *domain.DefaultSettings(), logger.Nop())
	return svc, store, cache
}

func TestService_CurrentFallsBackToDefaults(t *testing.T) {
	svc, _, _ := newTestService(t)

	got, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultMaxOnsiteLaundrySlots, got.MaxOnsiteLaundrySlots)
	assert.True(t, got.OffsiteLaundryEnabled)

	resp, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.IsDefault)
	assert.Nil(t, resp.UpdatedAt)
}

func TestService_UpdatePartial(t *testing.T) {
	svc, store, cache := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Update(ctx, &models.UpdateSettingsRequest{MaxOnsiteLaundrySlots: ptr.Ptr(8)})
	require.NoError(t, err)
	assert.Equal(t, 8, resp.MaxOnsiteLaundrySlots)
	assert.True(t, resp.OffsiteLaundryEnabled)
	assert.False(t, resp.IsDefault)
	assert.Equal(t, []domain.ServiceType{domain.ServiceLaundry}, cache.InvalidatedServices())

	resp, err = svc.Update(ctx, &models.UpdateSettingsRequest{OffsiteLaundryEnabled: ptr.Ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, 8, resp.MaxOnsiteLaundrySlots)
	assert.False(t, resp.OffsiteLaundryEnabled)

	current, err := store.SettingsRepo().Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8, current.MaxOnsiteLaundrySlots)
	assert.False(t, current.OffsiteLaundryEnabled)
}

func TestService_UpdateRejectsOutOfRange(t *testing.T) {
	svc, store, cache := newTestService(t)

	for _, v := range []int{0, 101, -3} {
		_, err := svc.Update(context.Background(), &models.UpdateSettingsRequest{MaxOnsiteLaundrySlots: ptr.Ptr(v)})
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}

	_, err := store.SettingsRepo().Get(context.Background())
	assert.Error(t, err)
	assert.Empty(t, cache.InvalidatedServices())
}
