package reschedule_booking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/ABS-SchedulingCore/internal/api/handlers"
	rescheduleBooking "github.com/m04kA/ABS-SchedulingCore/internal/usecase/reschedule_booking"
)

type fakeUseCase struct {
	resp *rescheduleBooking.Response
	err  error
}

func (uc *fakeUseCase) Execute(context.Context, *rescheduleBooking.Request) (*rescheduleBooking.Response, error) {
	return uc.resp, uc.err
}

type fakeMetrics struct {
	conflicts int
}

func (m *fakeMetrics) IncConflicts() { m.conflicts++ }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newRequest() *http.Request {
	body := bytes.NewBufferString(`{"startTime": "2025-06-03T10:00:00Z"}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/b1/reschedule", body)
	return mux.SetURLVars(req, map[string]string{"bookingId": "b1"})
}

func TestHandle_ConflictNamesBusyOccurrence(t *testing.T) {
	usecaseErr := fmt.Errorf("%w: staff is busy at 2025-06-03T10:00:00Z", rescheduleBooking.ErrSlotNotAvailable)
	metrics := &fakeMetrics{}
	h := NewHandler(&fakeUseCase{err: usecaseErr}, metrics, nil, nopLogger{})

	rec := httptest.NewRecorder()
	h.Handle(rec, newRequest())

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, 1, metrics.conflicts)

	// В теле ответа назван занятый ресурс и время конфликтного вхождения
	var body handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Message, msgSlotNotAvailable)
	assert.Contains(t, body.Message, "staff is busy at 2025-06-03T10:00:00Z")
}
