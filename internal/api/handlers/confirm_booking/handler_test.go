package confirm_booking

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/ABS-SchedulingCore/internal/lifecycle"
	"github.com/m04kA/ABS-SchedulingCore/internal/service/bookings"
	"github.com/m04kA/ABS-SchedulingCore/internal/service/bookings/models"
)

type fakeService struct {
	resp *models.BookingResponse
	err  error
}

func (s *fakeService) Confirm(context.Context, string) (*models.BookingResponse, error) {
	return s.resp, s.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newRequest() *http.Request {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/b1/confirm", nil)
	return mux.SetURLVars(req, map[string]string{"bookingId": "b1"})
}

func TestHandle_TerminalBookingRejectedAsValidationError(t *testing.T) {
	svc := &fakeService{err: fmt.Errorf("%w: %w", bookings.ErrCannotConfirm, lifecycle.ErrTerminalState)}
	h := NewHandler(svc, nopLogger{})

	rec := httptest.NewRecorder()
	h.Handle(rec, newRequest())

	// Подтверждение завершенного или отмененного бронирования - некорректный запрос
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
