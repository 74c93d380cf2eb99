package lifecycle

import (
	"errors"
	"time"

	"github.com/m04kA/ABS-SchedulingCore/internal/domain"
)

var (
	// ErrTerminalState возвращается при попытке перевести завершенное или
	// отмененное бронирование в другой статус
	ErrTerminalState = errors.New("lifecycle: booking is in a terminal state")

	// ErrAlreadyStarted возвращается, когда переход разрешен только до начала бронирования
	ErrAlreadyStarted = errors.New("lifecycle: booking has already started")

	// ErrNotConfirmable возвращается при попытке подтвердить бронирование не из статуса pending
	ErrNotConfirmable = errors.New("lifecycle: booking cannot be confirmed")

	// ErrNotElapsed возвращается при попытке завершить бронирование до его окончания
	ErrNotElapsed = errors.New("lifecycle: booking has not ended yet")

	// ErrNotConfirmed возвращается при попытке завершить неподтвержденное бронирование
	ErrNotConfirmed = errors.New("lifecycle: only confirmed bookings can be completed")

	// ErrGraceExpired возвращается, когда окно отмены после начала уже закрыто
	ErrGraceExpired = errors.New("lifecycle: cancellation grace window has expired")

	// ErrInvalidPaidAmount возвращается при некорректной сумме оплаты
	ErrInvalidPaidAmount = errors.New("lifecycle: invalid paid amount")
)

// Clock интерфейс для получения текущего времени (для тестирования)
type Clock interface {
	Now() time.Time
}

// RealClock реальные часы для production
type RealClock struct{}

// Now возвращает текущее время
func (RealClock) Now() time.Time {
	return time.Now()
}

// Engine управляет переходами жизненного цикла бронирования.
//
// Статусы completed и cancelled терминальные: из них нет переходов,
// меняться могут только поля оплаты (сверка с платежным сервисом).
type Engine struct {
	cancelGrace time.Duration
	clock       Clock
}

// NewEngine создает движок жизненного цикла.
// cancelGrace - окно после начала бронирования, в течение которого отмена еще разрешена.
func NewEngine(cancelGrace time.Duration, clock Clock) *Engine {
	if clock == nil {
		clock = RealClock{}
	}
	if cancelGrace < 0 {
		cancelGrace = 0
	}
	return &Engine{cancelGrace: cancelGrace, clock: clock}
}

// Confirm переводит бронирование pending -> confirmed.
// Разрешено только до начала бронирования.
func (e *Engine) Confirm(b *domain.Booking) error {
	if b.IsTerminal() {
		return ErrTerminalState
	}
	if !b.CanBeConfirmed() {
		return ErrNotConfirmable
	}
	if !e.clock.Now().Before(b.StartTime) {
		return ErrAlreadyStarted
	}

	b.Status = domain.StatusConfirmed
	return nil
}

// Cancel переводит бронирование в cancelled.
// Уже отмененное бронирование - no-op (отмена идемпотентна).
// Завершенное бронирование отменить нельзя.
// Отмена разрешена до начала бронирования плюс окно cancelGrace.
func (e *Engine) Cancel(b *domain.Booking, reason string) error {
	if b.IsCancelled() {
		return nil
	}
	if b.Status == domain.StatusCompleted {
		return ErrTerminalState
	}

	deadline := b.StartTime.Add(e.cancelGrace)
	if e.clock.Now().After(deadline) {
		return ErrGraceExpired
	}

	now := e.clock.Now()
	b.Status = domain.StatusCancelled
	b.CancelledAt = &now
	if reason != "" {
		b.CancellationReason = &reason
	}
	return nil
}

// Complete переводит бронирование confirmed -> completed.
// Разрешено только после окончания бронирования.
func (e *Engine) Complete(b *domain.Booking) error {
	if b.IsTerminal() {
		return ErrTerminalState
	}
	if b.Status != domain.StatusConfirmed {
		return ErrNotConfirmed
	}
	if e.clock.Now().Before(b.EndTime) {
		return ErrNotElapsed
	}

	b.Status = domain.StatusCompleted
	return nil
}

// ApplyPayment применяет отчет платежного сервиса о сумме оплаты.
// Статус оплаты пересчитывается детерминированно: paid тогда и только тогда,
// когда оплачена вся стоимость. Допустимо и для терминальных бронирований
// (сверка платежей не меняет жизненный цикл).
func (e *Engine) ApplyPayment(b *domain.Booking, paidAmount float64) error {
	if paidAmount < 0 || paidAmount > b.TotalPrice {
		return ErrInvalidPaidAmount
	}

	b.PaidAmount = paidAmount
	if paidAmount == b.TotalPrice {
		b.PaymentStatus = domain.PaymentPaid
	} else {
		b.PaymentStatus = domain.PaymentUnpaid
	}
	return nil
}
