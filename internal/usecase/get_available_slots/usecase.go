package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/ABS-SchedulingCore/internal/domain"
	"github.com/m04kA/ABS-SchedulingCore/internal/infra/cache"
	catalogRepo "github.com/m04kA/ABS-SchedulingCore/internal/infra/storage/catalog"
)

// UseCase use case для получения свободных слотов
type UseCase struct {
	catalogRepo  CatalogRepository
	index        AvailabilityIndex
	slotCache    SlotCache
	timeProvider TimeProvider
	logger       Logger

	horizonDays int
}

// NewUseCase создает новый экземпляр use case.
// slotCache может быть nil - кэширование тогда отключено.
func NewUseCase(
	catalogRepo CatalogRepository,
	index AvailabilityIndex,
	slotCache SlotCache,
	logger Logger,
	horizonDays int,
) *UseCase {
	if horizonDays <= 0 {
		horizonDays = domain.DefaultHorizonDays
	}
	return &UseCase{
		catalogRepo:  catalogRepo,
		index:        index,
		slotCache:    slotCache,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		horizonDays:  horizonDays,
	}
}

// Execute выполняет use case получения свободных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: location=%s, service=%s, date=%s",
		req.LocationID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if req.LocationID == "" {
		return nil, fmt.Errorf("%w: locationID is required", ErrInvalidInput)
	}
	if req.ServiceID == "" {
		return nil, fmt.Errorf("%w: serviceID is required", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	now := uc.timeProvider.Now()

	// 2. Кэш: слоты короткоживущие, но повторные запросы одного дня часты
	cacheKey := cache.Key(req.LocationID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StaffID)
	if uc.slotCache != nil {
		var cached Response
		if err := uc.slotCache.Get(ctx, cacheKey, &cached); err == nil {
			uc.logger.Info("GetAvailableSlots: cache hit for %s", cacheKey)
			return &cached, nil
		}
	}

	// 3. Получаем справочные данные
	location, err := uc.catalogRepo.GetLocation(ctx, req.LocationID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrLocationNotFound) {
			uc.logger.Warn("GetAvailableSlots: location id=%s not found", req.LocationID)
			return nil, ErrLocationNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get location id=%s: %v", req.LocationID, err)
		return nil, fmt.Errorf("%w: failed to get location: %v", ErrInternal, err)
	}

	service, err := uc.catalogRepo.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%s not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%s: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !service.IsActive {
		return nil, ErrServiceInactive
	}
	if !service.IsOfferedAt(req.LocationID) {
		return nil, ErrServiceNotAtLocation
	}

	tz, err := time.LoadLocation(location.Timezone)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: invalid timezone=%q for location=%s, falling back to UTC", location.Timezone, location.ID)
		tz = time.UTC
	}

	// 4. Валидация даты в таймзоне локации
	if isDateInPast(req.Date, now, tz) {
		return nil, ErrInvalidDate
	}
	if !req.Date.Before(now.AddDate(0, 0, uc.horizonDays)) {
		return nil, fmt.Errorf("%w: can only view %d days in advance", ErrDateTooFarInFuture, uc.horizonDays)
	}

	// 5. Определяем кандидатов-сотрудников
	var candidates []*domain.Staff
	if req.StaffID != nil {
		staff, err := uc.catalogRepo.GetStaff(ctx, *req.StaffID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrStaffNotFound) {
				uc.logger.Warn("GetAvailableSlots: staff id=%s not found", *req.StaffID)
				return nil, ErrStaffNotFound
			}
			uc.logger.Error("GetAvailableSlots: failed to get staff id=%s: %v", *req.StaffID, err)
			return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
		}
		if !staff.IsQualifiedFor(req.ServiceID) {
			return nil, ErrStaffNotQualified
		}
		if !staff.WorksAt(req.LocationID) {
			return nil, ErrStaffNotAtLocation
		}
		candidates = []*domain.Staff{staff}
	} else {
		candidates, err = uc.catalogRepo.ListStaffForService(ctx, req.ServiceID, req.LocationID)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to list staff: %v", err)
			return nil, fmt.Errorf("%w: failed to list staff: %v", ErrInternal, err)
		}
	}

	// 6. Генерируем слоты
	slots := generateSlots(uc.index, service, req.LocationID, candidates, req.Date, tz, now)

	uc.logger.Info("GetAvailableSlots: %d free slots for location=%s, service=%s, date=%s",
		len(slots), req.LocationID, req.ServiceID, req.Date.Format(domain.DateFormat))

	resp := &Response{
		LocationID: req.LocationID,
		ServiceID:  req.ServiceID,
		Date:       req.Date.Format(domain.DateFormat),
		Slots:      slots,
	}

	if uc.slotCache != nil {
		if err := uc.slotCache.Set(ctx, cacheKey, resp); err != nil {
			// Кэш вспомогательный: сбой записи не влияет на ответ
			uc.logger.Warn("GetAvailableSlots: cache set failed: %v", err)
		}
	}

	return resp, nil
}
