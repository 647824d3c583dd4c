package unblock_slot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-DropInService/internal/service/blocking"
	"github.com/m04kA/SMC-DropInService/internal/service/blocking/models"
	"github.com/m04kA/SMC-DropInService/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Unblock(ctx context.Context, req *models.SlotRequest) error {
	return m.Called(ctx, req).Error(0)
}

func TestHandler(t *testing.T) {
	q := url.Values{}
	q.Set("serviceType", "laundry")
	q.Set("slotId", "08:00 - 09:00")
	q.Set("date", "2025-01-15")
	want := &models.SlotRequest{ServiceType: "laundry", SlotID: "08:00 - 09:00", Date: "2025-01-15"}

	tests := []struct {
		err    error
		status int
	}{
		{nil, http.StatusNoContent},
		{blocking.ErrNotBlocked, http.StatusNotFound},
		{blocking.ErrUnknownSlot, http.StatusBadRequest},
		{blocking.ErrInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		svc := &mockService{}
		svc.On("Unblock", mock.Anything, want).Return(tt.err)

		rec := httptest.NewRecorder()
		NewHandler(svc, logger.Nop()).Handle(rec, httptest.NewRequest(http.MethodDelete, "/blocked-slots?"+q.Encode(), nil))

		assert.Equal(t, tt.status, rec.Code)
		svc.AssertExpectations(t)
	}
}
