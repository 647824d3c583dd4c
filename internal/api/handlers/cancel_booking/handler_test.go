package cancel_booking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-DropInService/internal/service/bookings"
	"github.com/m04kA/SMC-DropInService/internal/service/bookings/models"
	"github.com/m04kA/SMC-DropInService/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Cancel(ctx context.Context, id string) (*models.BookingResponse, error) {
	args := m.Called(ctx, id)
	if resp := args.Get(0); resp != nil {
		return resp.(*models.BookingResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func serve(svc *mockService, id string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/bookings/{bookingId}/cancel", NewHandler(svc, logger.Nop()).Handle).Methods(http.MethodPatch)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/bookings/"+id+"/cancel", nil))
	return rec
}

func TestHandler(t *testing.T) {
	tests := []struct {
		name   string
		resp   *models.BookingResponse
		err    error
		status int
	}{
		{"ok", &models.BookingResponse{ID: "b1", Status: "cancelled"}, nil, http.StatusOK},
		{"missing", nil, bookings.ErrBookingNotFound, http.StatusNotFound},
		{"done shower", nil, bookings.ErrInvalidTransition, http.StatusUnprocessableEntity},
		{"storage", nil, bookings.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			svc.On("Cancel", mock.Anything, "b1").Return(tt.resp, tt.err)

			rec := serve(svc, "b1")
			assert.Equal(t, tt.status, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}
