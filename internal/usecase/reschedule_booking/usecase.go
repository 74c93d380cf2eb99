package reschedule_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/ABS-SchedulingCore/internal/availability"
	"github.com/m04kA/ABS-SchedulingCore/internal/domain"
	bookingRepo "github.com/m04kA/ABS-SchedulingCore/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/ABS-SchedulingCore/internal/infra/storage/catalog"
	"github.com/m04kA/ABS-SchedulingCore/internal/recurrence"
	"github.com/m04kA/ABS-SchedulingCore/pkg/txmanager"
)

// UseCase use case для переноса бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	catalogRepo  CatalogRepository
	index        AvailabilityIndex
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger

	horizonDays     int
	maxOccurrences  int
	conflictRetries int
	conflictBackoff time.Duration
}

// NewUseCase создает новый экземпляр use case.
// conflictRetries и conflictBackoff задают повторные попытки при конфликте:
// конкурентный перенос мог освободить слот к следующей попытке.
func NewUseCase(
	bookingRepo BookingRepository,
	catalogRepo CatalogRepository,
	index AvailabilityIndex,
	txManager TransactionManager,
	logger Logger,
	horizonDays int,
	maxOccurrences int,
	conflictRetries int,
	conflictBackoff time.Duration,
) *UseCase {
	if horizonDays <= 0 {
		horizonDays = domain.DefaultHorizonDays
	}
	if maxOccurrences <= 0 {
		maxOccurrences = domain.DefaultMaxOccurrences
	}
	if conflictRetries < 0 {
		conflictRetries = 0
	}
	if conflictBackoff <= 0 {
		conflictBackoff = 50 * time.Millisecond
	}
	return &UseCase{
		bookingRepo:     bookingRepo,
		catalogRepo:     catalogRepo,
		index:           index,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
		horizonDays:     horizonDays,
		maxOccurrences:  maxOccurrences,
		conflictRetries: conflictRetries,
		conflictBackoff: conflictBackoff,
	}
}

// Execute выполняет use case переноса бронирования.
//
// Перенос атомарен: старые резервации серии заменяются новыми одним шагом
// (Rebook), при конфликте старые остаются на месте и бронь не меняется.
// Конфликт повторяется ограниченное число раз с паузой - конкурентный
// перенос мог освободить нужный слот.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleBooking: booking=%s, newStart=%s", req.BookingID, req.StartTime.Format(time.RFC3339))

	now := uc.timeProvider.Now()

	// 1. Валидация входных данных
	if req.BookingID == "" {
		return nil, fmt.Errorf("%w: bookingID is required", ErrInvalidInput)
	}
	if req.StartTime.IsZero() {
		return nil, fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}
	if req.StartTime.Before(now) {
		return nil, ErrStartInPast
	}
	if !req.StartTime.Before(now.AddDate(0, 0, uc.horizonDays)) {
		return nil, fmt.Errorf("%w: can only reschedule within %d days", ErrDateTooFarInFuture, uc.horizonDays)
	}

	// 2. Получаем бронирование
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("RescheduleBooking: booking id=%s not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("RescheduleBooking: failed to get booking id=%s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	if !booking.CanBeRescheduled() {
		uc.logger.Warn("RescheduleBooking: booking id=%s cannot be rescheduled, status=%s", booking.ID, booking.Status)
		return nil, ErrCannotReschedule
	}

	// 3. Справочные данные для вместимости и таймзоны
	service, err := uc.catalogRepo.GetService(ctx, booking.ServiceID)
	if err != nil {
		uc.logger.Error("RescheduleBooking: failed to get service id=%s: %v", booking.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	location, err := uc.catalogRepo.GetLocation(ctx, booking.LocationID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrLocationNotFound) {
			return nil, ErrLocationNotFound
		}
		uc.logger.Error("RescheduleBooking: failed to get location id=%s: %v", booking.LocationID, err)
		return nil, fmt.Errorf("%w: failed to get location: %v", ErrInternal, err)
	}

	tz, err := time.LoadLocation(location.Timezone)
	if err != nil {
		uc.logger.Warn("RescheduleBooking: invalid timezone=%q for location=%s, falling back to UTC", location.Timezone, location.ID)
		tz = time.UTC
	}

	// 4. Строим перенесенный якорь с прежней длительностью
	duration := booking.Duration()
	moved := *booking
	moved.StartTime = req.StartTime
	moved.EndTime = req.StartTime.Add(duration)

	horizon := domain.Interval{Start: now, End: now.AddDate(0, 0, uc.horizonDays)}
	newOccurrences, err := recurrence.Expand(&moved, tz, horizon, uc.maxOccurrences)
	if err != nil {
		uc.logger.Error("RescheduleBooking: expansion failed: %v", err)
		return nil, fmt.Errorf("%w: expansion failed: %v", ErrInternal, err)
	}

	resources := []availability.Resource{
		{Key: availability.StaffKey(booking.StaffID), Capacity: 1},
		{Key: availability.ServiceLocationKey(booking.ServiceID, booking.LocationID), Capacity: service.MaxCapacity},
	}

	// 5. Атомарно заменяем резервации серии с повторами при конфликте
	rebookReq := availability.Request{
		AnchorID:    booking.ID,
		Resources:   resources,
		Occurrences: newOccurrences,
	}
	if err := uc.rebookWithRetries(ctx, rebookReq); err != nil {
		return nil, err
	}

	// 6. Сохраняем новый интервал; при сбое возвращаем старые резервации
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := uc.bookingRepo.UpdateSchedule(txCtx, booking.ID, moved.StartTime, moved.EndTime); err != nil {
			return fmt.Errorf("%w: failed to update schedule: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		uc.rollbackReservations(ctx, booking, resources, tz, horizon)
		uc.logger.Error("RescheduleBooking: persistence failed, reservations rolled back: %v", err)
		if errors.Is(err, txmanager.ErrRetriesExhausted) {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		return nil, err
	}

	uc.logger.Info("RescheduleBooking: successfully moved booking id=%s to %s", booking.ID, moved.StartTime.Format(time.RFC3339))

	return &Response{
		ID:                moved.ID,
		LocationID:        moved.LocationID,
		ServiceID:         moved.ServiceID,
		StaffID:           moved.StaffID,
		CustomerID:        moved.CustomerID,
		StartTime:         moved.StartTime,
		EndTime:           moved.EndTime,
		Status:            string(moved.Status),
		RecurrencePattern: string(moved.RecurrencePattern),
		OccurrenceCount:   len(newOccurrences),
	}, nil
}

// rebookWithRetries выполняет Rebook, повторяя при конфликте до исчерпания попыток
func (uc *UseCase) rebookWithRetries(ctx context.Context, req availability.Request) error {
	attempts := uc.conflictRetries + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		err := uc.index.Rebook(ctx, req)
		if err == nil {
			return nil
		}

		var conflict *availability.Conflict
		if !errors.As(err, &conflict) {
			uc.logger.Error("RescheduleBooking: rebook failed: %v", err)
			return fmt.Errorf("%w: rebook failed: %v", ErrInternal, err)
		}

		if attempt == attempts {
			uc.logger.Warn("RescheduleBooking: conflict on %s after %d attempts", conflict.Resource.ID, attempts)
			return fmt.Errorf("%w: %s is busy at %s", ErrSlotNotAvailable,
				conflict.Resource.Kind, conflict.Occurrence.Interval.Start.Format(time.RFC3339))
		}

		uc.logger.Info("RescheduleBooking: conflict on attempt %d/%d, retrying in %s", attempt, attempts, uc.conflictBackoff)
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ErrInternal, ctx.Err())
		case <-time.After(uc.conflictBackoff):
		}
	}
	return nil
}

// rollbackReservations возвращает резервации к старому интервалу бронирования
// после сбоя сохранения
func (uc *UseCase) rollbackReservations(
	ctx context.Context,
	booking *domain.Booking,
	resources []availability.Resource,
	tz *time.Location,
	horizon domain.Interval,
) {
	oldOccurrences, err := recurrence.Expand(booking, tz, horizon, uc.maxOccurrences)
	if err != nil {
		uc.logger.Error("RescheduleBooking: rollback expansion failed for booking id=%s: %v", booking.ID, err)
		return
	}
	if err := uc.index.Rebook(ctx, availability.Request{
		AnchorID:    booking.ID,
		Resources:   resources,
		Occurrences: oldOccurrences,
	}); err != nil {
		uc.logger.Error("RescheduleBooking: rollback rebook failed for booking id=%s: %v", booking.ID, err)
	}
}
