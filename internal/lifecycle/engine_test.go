package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/ABS-SchedulingCore/internal/domain"
)

// fakeClock детерминированные часы для тестов
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func newBooking(status domain.BookingStatus, start, end time.Time) *domain.Booking {
	return &domain.Booking{
		ID:            "b1",
		Status:        status,
		PaymentStatus: domain.PaymentUnpaid,
		StartTime:     start,
		EndTime:       end,
		TotalPrice:    100,
	}
}

func TestConfirm_PendingBeforeStart(t *testing.T) {
	start := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: start.Add(-time.Hour)}
	engine := NewEngine(15*time.Minute, clock)

	b := newBooking(domain.StatusPending, start, start.Add(30*time.Minute))
	require.NoError(t, engine.Confirm(b))
	assert.Equal(t, domain.StatusConfirmed, b.Status)
}

func TestConfirm_AfterStartRejected(t *testing.T) {
	start := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: start.Add(time.Minute)}
	engine := NewEngine(15*time.Minute, clock)

	b := newBooking(domain.StatusPending, start, start.Add(30*time.Minute))
	assert.ErrorIs(t, engine.Confirm(b), ErrAlreadyStarted)
}

func TestConfirm_TerminalRejected(t *testing.T) {
	start := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: start.Add(-time.Hour)}
	engine := NewEngine(15*time.Minute, clock)

	for _, status := range []domain.BookingStatus{domain.StatusCompleted, domain.StatusCancelled} {
		b := newBooking(status, start, start.Add(30*time.Minute))
		assert.ErrorIs(t, engine.Confirm(b), ErrTerminalState, "status=%s", status)
	}
}

func TestCancel_PendingAndConfirmed(t *testing.T) {
	start := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: start.Add(-time.Hour)}
	engine := NewEngine(15*time.Minute, clock)

	for _, status := range []domain.BookingStatus{domain.StatusPending, domain.StatusConfirmed} {
		b := newBooking(status, start, start.Add(30*time.Minute))
		require.NoError(t, engine.Cancel(b, "клиент передумал"))
		assert.Equal(t, domain.StatusCancelled, b.Status)
		require.NotNil(t, b.CancelledAt)
		require.NotNil(t, b.CancellationReason)
	}
}

func TestCancel_Idempotent(t *testing.T) {
	start := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: start.Add(-time.Hour)}
	engine := NewEngine(15*time.Minute, clock)

	b := newBooking(domain.StatusConfirmed, start, start.Add(30*time.Minute))
	require.NoError(t, engine.Cancel(b, "первая отмена"))
	firstCancelledAt := *b.CancelledAt

	// Повторная отмена - no-op, состояние не меняется
	require.NoError(t, engine.Cancel(b, "вторая отмена"))
	assert.Equal(t, domain.StatusCancelled, b.Status)
	assert.Equal(t, firstCancelledAt, *b.CancelledAt)
	assert.Equal(t, "первая отмена", *b.CancellationReason)
}

func TestCancel_WithinGraceWindow(t *testing.T) {
	start := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	engine := NewEngine(15*time.Minute, &fakeClock{now: start.Add(10 * time.Minute)})

	b := newBooking(domain.StatusConfirmed, start, start.Add(30*time.Minute))
	require.NoError(t, engine.Cancel(b, ""))
	assert.Equal(t, domain.StatusCancelled, b.Status)
}

func TestCancel_GraceExpired(t *testing.T) {
	start := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	engine := NewEngine(15*time.Minute, &fakeClock{now: start.Add(16 * time.Minute)})

	b := newBooking(domain.StatusConfirmed, start, start.Add(30*time.Minute))
	assert.ErrorIs(t, engine.Cancel(b, ""), ErrGraceExpired)
	assert.Equal(t, domain.StatusConfirmed, b.Status)
}

func TestCancel_CompletedRejected(t *testing.T) {
	start := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	engine := NewEngine(15*time.Minute, &fakeClock{now: start})

	b := newBooking(domain.StatusCompleted, start, start.Add(30*time.Minute))
	assert.ErrorIs(t, engine.Cancel(b, ""), ErrTerminalState)
}

func TestComplete_ConfirmedAfterEnd(t *testing.T) {
	start := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)
	engine := NewEngine(15*time.Minute, &fakeClock{now: end.Add(time.Minute)})

	b := newBooking(domain.StatusConfirmed, start, end)
	require.NoError(t, engine.Complete(b))
	assert.Equal(t, domain.StatusCompleted, b.Status)
}

func TestComplete_BeforeEndRejected(t *testing.T) {
	start := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)
	engine := NewEngine(15*time.Minute, &fakeClock{now: end.Add(-time.Minute)})

	b := newBooking(domain.StatusConfirmed, start, end)
	assert.ErrorIs(t, engine.Complete(b), ErrNotElapsed)
}

func TestComplete_PendingRejected(t *testing.T) {
	start := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)
	engine := NewEngine(15*time.Minute, &fakeClock{now: end.Add(time.Minute)})

	b := newBooking(domain.StatusPending, start, end)
	assert.ErrorIs(t, engine.Complete(b), ErrNotConfirmed)
}

func TestComplete_CancelledRejected(t *testing.T) {
	start := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)
	engine := NewEngine(15*time.Minute, &fakeClock{now: end.Add(time.Minute)})

	b := newBooking(domain.StatusCancelled, start, end)
	assert.ErrorIs(t, engine.Complete(b), ErrTerminalState)
}

func TestApplyPayment_RecomputesStatus(t *testing.T) {
	start := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	engine := NewEngine(15*time.Minute, &fakeClock{now: start})

	b := newBooking(domain.StatusConfirmed, start, start.Add(30*time.Minute))

	require.NoError(t, engine.ApplyPayment(b, 40))
	assert.Equal(t, domain.PaymentUnpaid, b.PaymentStatus)
	assert.Equal(t, 40.0, b.PaidAmount)

	require.NoError(t, engine.ApplyPayment(b, 100))
	assert.Equal(t, domain.PaymentPaid, b.PaymentStatus)

	// Возврат части суммы снова делает бронирование неоплаченным
	require.NoError(t, engine.ApplyPayment(b, 60))
	assert.Equal(t, domain.PaymentUnpaid, b.PaymentStatus)
}

func TestApplyPayment_InvalidAmounts(t *testing.T) {
	start := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	engine := NewEngine(15*time.Minute, &fakeClock{now: start})

	b := newBooking(domain.StatusConfirmed, start, start.Add(30*time.Minute))

	assert.ErrorIs(t, engine.ApplyPayment(b, -1), ErrInvalidPaidAmount)
	assert.ErrorIs(t, engine.ApplyPayment(b, 100.01), ErrInvalidPaidAmount)
	assert.Equal(t, 0.0, b.PaidAmount)
}

func TestApplyPayment_AllowedOnTerminalBooking(t *testing.T) {
	start := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	engine := NewEngine(15*time.Minute, &fakeClock{now: start})

	b := newBooking(domain.StatusCompleted, start, start.Add(30*time.Minute))
	require.NoError(t, engine.ApplyPayment(b, 100))
	assert.Equal(t, domain.PaymentPaid, b.PaymentStatus)
	assert.Equal(t, domain.StatusCompleted, b.Status)
}
