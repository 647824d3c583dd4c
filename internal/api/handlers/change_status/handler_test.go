package change_status

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DropInService/internal/api/handlers"
	"github.com/m04kA/SMC-DropInService/internal/domain"
	changeStatus "github.com/m04kA/SMC-DropInService/internal/usecase/change_status"
	"github.com/m04kA/SMC-DropInService/pkg/logger"
	"github.com/m04kA/SMC-DropInService/pkg/ptr"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *changeStatus.Request) (*changeStatus.Response, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*changeStatus.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

func serve(uc *mockUseCase, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/bookings/{bookingId}/status", NewHandler(uc, logger.Nop()).Handle).Methods(http.MethodPatch)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/bookings/l1/status", strings.NewReader(body)))
	return rec
}

func TestHandler_BagNumberGateMessage(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, &changeStatus.Request{BookingID: "l1", Status: "washer"}).
		Return(nil, changeStatus.ErrBagNumberRequired)

	rec := serve(uc, `{"status":"washer"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp handlers.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, handlers.CodeBagNumberRequired, resp.Code)
	assert.Equal(t, "enter a bag number to continue", resp.Error)
}

func TestHandler_PassesBagNumber(t *testing.T) {
	uc := &mockUseCase{}
	now := time.Date(2025, 1, 15, 18, 0, 0, 0, time.UTC)
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(r *changeStatus.Request) bool {
		return r.BookingID == "l1" && r.Status == "washer" && r.BagNumber != nil && *r.BagNumber == "B-4"
	})).Return(&changeStatus.Response{
		Booking: &domain.Booking{ID: "l1", ServiceType: domain.ServiceLaundry, Status: domain.StatusWasher,
			BagNumber: ptr.Ptr("B-4"), CreatedAt: now, LastUpdated: now},
		Changed:        true,
		HistoryEntryID: "h1",
	}, nil)

	rec := serve(uc, `{"status":"washer","bagNumber":"B-4"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ChangeStatusResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Changed)
	assert.Equal(t, "washer", resp.Booking.Status)
	assert.Equal(t, "B-4", *resp.Booking.BagNumber)
}

func TestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{changeStatus.ErrBookingNotFound, http.StatusNotFound},
		{changeStatus.ErrInvalidTransition, http.StatusUnprocessableEntity},
		{changeStatus.ErrInvalidInput, http.StatusBadRequest},
		{changeStatus.ErrInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		uc := &mockUseCase{}
		uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)
		assert.Equal(t, tt.status, serve(uc, `{"status":"done"}`).Code, tt.err.Error())
	}
}
