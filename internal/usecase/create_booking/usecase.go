package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/ABS-SchedulingCore/internal/availability"
	"github.com/m04kA/ABS-SchedulingCore/internal/domain"
	catalogRepo "github.com/m04kA/ABS-SchedulingCore/internal/infra/storage/catalog"
	"github.com/m04kA/ABS-SchedulingCore/internal/recurrence"
	"github.com/m04kA/ABS-SchedulingCore/pkg/txmanager"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	catalogRepo  CatalogRepository
	index        AvailabilityIndex
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger

	horizonDays    int
	maxOccurrences int
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	catalogRepo CatalogRepository,
	index AvailabilityIndex,
	txManager TransactionManager,
	logger Logger,
	horizonDays int,
	maxOccurrences int,
) *UseCase {
	if horizonDays <= 0 {
		horizonDays = domain.DefaultHorizonDays
	}
	if maxOccurrences <= 0 {
		maxOccurrences = domain.DefaultMaxOccurrences
	}
	return &UseCase{
		bookingRepo:    bookingRepo,
		catalogRepo:    catalogRepo,
		index:          index,
		txManager:      txManager,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
		horizonDays:    horizonDays,
		maxOccurrences: maxOccurrences,
	}
}

// Execute выполняет use case создания бронирования.
//
// Серия резервируется по принципу "все или ничего": если хотя бы одно
// вхождение в пределах горизонта конфликтует, не создается ничего.
// Сначала занимается индекс доступности, затем бронь сохраняется в
// сериализуемой транзакции; при сбое сохранения резервации снимаются.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: customer=%s, location=%s, service=%s, staff=%s, start=%s, pattern=%s",
		req.CustomerID, req.LocationID, req.ServiceID, req.StaffID,
		req.StartTime.Format(time.RFC3339), req.RecurrencePattern)

	now := uc.timeProvider.Now()

	// 1. Валидация входных данных
	if err := validateRequest(req, now, uc.horizonDays); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем справочные данные
	location, err := uc.catalogRepo.GetLocation(ctx, req.LocationID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrLocationNotFound) {
			uc.logger.Warn("CreateBooking: location id=%s not found", req.LocationID)
			return nil, ErrLocationNotFound
		}
		uc.logger.Error("CreateBooking: failed to get location id=%s: %v", req.LocationID, err)
		return nil, fmt.Errorf("%w: failed to get location: %v", ErrInternal, err)
	}

	service, err := uc.catalogRepo.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%s not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%s: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	staff, err := uc.catalogRepo.GetStaff(ctx, req.StaffID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrStaffNotFound) {
			uc.logger.Warn("CreateBooking: staff id=%s not found", req.StaffID)
			return nil, ErrStaffNotFound
		}
		uc.logger.Error("CreateBooking: failed to get staff id=%s: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}

	// 3. Проверяем согласованность справочника
	if err := validateCatalog(service, staff, req.LocationID); err != nil {
		uc.logger.Warn("CreateBooking: catalog validation failed: %v", err)
		return nil, err
	}

	// 4. Собираем якорь бронирования
	paymentMethod, _ := toPaymentMethod(req.PaymentMethod)
	pattern, _ := toRecurrencePattern(req.RecurrencePattern)

	booking := &domain.Booking{
		ID:                uuid.NewString(),
		LocationID:        req.LocationID,
		ServiceID:         req.ServiceID,
		StaffID:           req.StaffID,
		CustomerID:        req.CustomerID,
		StartTime:         req.StartTime,
		EndTime:           req.StartTime.Add(service.Duration()),
		Status:            domain.StatusPending,
		PaymentStatus:     domain.PaymentUnpaid,
		PaymentMethod:     paymentMethod,
		TotalPrice:        service.Price,
		PaidAmount:        0,
		Notes:             req.Notes,
		RecurrencePattern: pattern,
	}

	// 5. Разворачиваем серию в таймзоне локации
	tz, err := time.LoadLocation(location.Timezone)
	if err != nil {
		uc.logger.Warn("CreateBooking: invalid timezone=%q for location=%s, falling back to UTC", location.Timezone, location.ID)
		tz = time.UTC
	}

	horizon := domain.Interval{Start: now, End: now.AddDate(0, 0, uc.horizonDays)}
	occurrences, err := recurrence.Expand(booking, tz, horizon, uc.maxOccurrences)
	if err != nil {
		uc.logger.Error("CreateBooking: expansion failed: %v", err)
		return nil, fmt.Errorf("%w: expansion failed: %v", ErrInternal, err)
	}

	// 6. Резервируем все вхождения атомарно
	reserveReq := availability.Request{
		AnchorID: booking.ID,
		Resources: []availability.Resource{
			{Key: availability.StaffKey(req.StaffID), Capacity: 1},
			{Key: availability.ServiceLocationKey(req.ServiceID, req.LocationID), Capacity: service.MaxCapacity},
		},
		Occurrences: occurrences,
	}

	if err := uc.index.ReserveSeries(ctx, reserveReq); err != nil {
		var conflict *availability.Conflict
		if errors.As(err, &conflict) {
			uc.logger.Warn("CreateBooking: conflict on %s at occurrence %s", conflict.Resource.ID, conflict.Occurrence.Ref())
			return nil, fmt.Errorf("%w: %s is busy at %s", ErrSlotNotAvailable,
				conflict.Resource.Kind, conflict.Occurrence.Interval.Start.Format(time.RFC3339))
		}
		uc.logger.Error("CreateBooking: reservation failed: %v", err)
		return nil, fmt.Errorf("%w: reservation failed: %v", ErrInternal, err)
	}

	// 7. Сохраняем бронь; при сбое снимаем только что занятые резервации
	var result *domain.Booking
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}
		result = created
		return nil
	})
	if err != nil {
		uc.index.ReleaseAnchor(booking.ID)
		uc.logger.Error("CreateBooking: persistence failed, reservations released: %v", err)
		if errors.Is(err, txmanager.ErrRetriesExhausted) {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%s with %d occurrences", result.ID, len(occurrences))

	return &Response{
		ID:                result.ID,
		LocationID:        result.LocationID,
		ServiceID:         result.ServiceID,
		StaffID:           result.StaffID,
		CustomerID:        result.CustomerID,
		StartTime:         result.StartTime,
		EndTime:           result.EndTime,
		Status:            string(result.Status),
		PaymentStatus:     string(result.PaymentStatus),
		PaymentMethod:     string(result.PaymentMethod),
		TotalPrice:        result.TotalPrice,
		PaidAmount:        result.PaidAmount,
		RecurrencePattern: string(result.RecurrencePattern),
		OccurrenceCount:   len(occurrences),
		Notes:             result.Notes,
		CreatedAt:         result.CreatedAt,
		UpdatedAt:         result.UpdatedAt,
	}, nil
}
