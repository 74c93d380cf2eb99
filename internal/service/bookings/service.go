package bookings

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/ABS-SchedulingCore/internal/availability"
	"github.com/m04kA/ABS-SchedulingCore/internal/domain"
	bookingRepo "github.com/m04kA/ABS-SchedulingCore/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/ABS-SchedulingCore/internal/infra/storage/catalog"
	"github.com/m04kA/ABS-SchedulingCore/internal/lifecycle"
	"github.com/m04kA/ABS-SchedulingCore/internal/recurrence"
	"github.com/m04kA/ABS-SchedulingCore/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo BookingRepository
	catalogRepo CatalogRepository
	index       AvailabilityIndex
	engine      *lifecycle.Engine
	txManager   TransactionManager
	logger      Logger

	horizonDays    int
	maxOccurrences int
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	catalogRepo CatalogRepository,
	index AvailabilityIndex,
	engine *lifecycle.Engine,
	txManager TransactionManager,
	logger Logger,
	horizonDays int,
	maxOccurrences int,
) *Service {
	if horizonDays <= 0 {
		horizonDays = domain.DefaultHorizonDays
	}
	if maxOccurrences <= 0 {
		maxOccurrences = domain.DefaultMaxOccurrences
	}
	return &Service{
		bookingRepo:    bookingRepo,
		catalogRepo:    catalogRepo,
		index:          index,
		engine:         engine,
		txManager:      txManager,
		logger:         logger,
		horizonDays:    horizonDays,
		maxOccurrences: maxOccurrences,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id string) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s", id)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%s not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBooking(booking), nil
}

// Cancel отменяет бронирование и освобождает его резервации.
// Отмена идемпотентна: повторная отмена уже отмененного бронирования
// успешна и не затирает причину первой отмены.
func (s *Service) Cancel(ctx context.Context, id string, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%s", id)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%s not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if booking.IsCancelled() {
		s.logger.Info("Cancel: booking id=%s already cancelled, no-op", id)
		return models.FromDomainBooking(booking), nil
	}

	if err := s.engine.Cancel(booking, req.Reason); err != nil {
		s.logger.Warn("Cancel: booking id=%s cannot be cancelled: %v", id, err)
		// Причина отказа (терминальный статус, истекшее окно) сохраняется в цепочке
		return nil, fmt.Errorf("%w: %w", ErrCannotCancel, err)
	}

	if err := s.bookingRepo.Cancel(ctx, id, booking.CancellationReason, *booking.CancelledAt); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	// Освобождаем все резервации серии: слоты снова доступны для бронирования
	s.index.ReleaseAnchor(id)

	s.logger.Info("Cancel: successfully cancelled booking id=%s", id)
	return models.FromDomainBooking(booking), nil
}

// Confirm переводит бронирование pending -> confirmed
func (s *Service) Confirm(ctx context.Context, id string) (*models.BookingResponse, error) {
	s.logger.Info("Confirm: confirming booking id=%s", id)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Confirm: booking id=%s not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("Confirm: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Confirm - repository error: %v", ErrInternal, err)
	}

	if err := s.engine.Confirm(booking); err != nil {
		s.logger.Warn("Confirm: booking id=%s cannot be confirmed: %v", id, err)
		return nil, fmt.Errorf("%w: %w", ErrCannotConfirm, err)
	}

	if err := s.bookingRepo.UpdateStatus(ctx, id, booking.Status); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		s.logger.Error("Confirm: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Confirm - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Confirm: successfully confirmed booking id=%s", id)
	return models.FromDomainBooking(booking), nil
}

// ApplyPayment применяет отчет платежного сервиса к бронированию.
// Статус оплаты пересчитывается детерминированно из суммы. Если ожидающее
// бронирование полностью оплачено до своего начала, оно подтверждается
// автоматически.
func (s *Service) ApplyPayment(ctx context.Context, id string, req *models.ApplyPaymentRequest) (*models.BookingResponse, error) {
	s.logger.Info("ApplyPayment: applying payment for booking id=%s, amount=%.2f", id, req.PaidAmount)

	var booking *domain.Booking
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		b, err := s.bookingRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if err := s.engine.ApplyPayment(b, req.PaidAmount); err != nil {
			return err
		}
		if err := s.bookingRepo.UpdatePayment(ctx, id, b.PaidAmount, b.PaymentStatus); err != nil {
			return err
		}

		// Полная оплата подтверждает ожидающее бронирование
		if b.CanBeConfirmed() && b.IsFullyPaid() {
			if err := s.engine.Confirm(b); err == nil {
				if err := s.bookingRepo.UpdateStatus(ctx, id, b.Status); err != nil {
					return err
				}
				s.logger.Info("ApplyPayment: booking id=%s auto-confirmed after full payment", id)
			}
		}

		booking = b
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, bookingRepo.ErrBookingNotFound):
			s.logger.Warn("ApplyPayment: booking id=%s not found", id)
			return nil, ErrBookingNotFound
		case errors.Is(err, lifecycle.ErrInvalidPaidAmount):
			s.logger.Warn("ApplyPayment: invalid amount=%.2f for booking id=%s", req.PaidAmount, id)
			return nil, ErrInvalidPaidAmount
		default:
			s.logger.Error("ApplyPayment: failed for booking id=%s: %v", id, err)
			return nil, fmt.Errorf("%w: ApplyPayment: %v", ErrInternal, err)
		}
	}

	s.logger.Info("ApplyPayment: booking id=%s payment_status=%s paid=%.2f", id, booking.PaymentStatus, booking.PaidAmount)
	return models.FromDomainBooking(booking), nil
}

// Occurrences разворачивает бронирование в список вхождений до горизонта.
// Для неповторяющегося бронирования список состоит из одного вхождения.
func (s *Service) Occurrences(ctx context.Context, id string) (*models.OccurrenceListResponse, error) {
	s.logger.Info("Occurrences: expanding booking id=%s", id)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Occurrences: booking id=%s not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("Occurrences: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Occurrences - repository error: %v", ErrInternal, err)
	}

	// Горизонт начинается не раньше текущего момента: для давно начавшихся
	// серий лимит вхождений заполняется предстоящими, а не прошедшими
	now := time.Now()
	start := booking.StartTime
	if start.Before(now) {
		start = now
	}
	horizon := domain.Interval{
		Start: start,
		End:   now.AddDate(0, 0, s.horizonDays),
	}
	if !horizon.IsValid() {
		// Якорь начинается за горизонтом - серия в пределах горизонта пуста
		return models.FromDomainOccurrences(id, nil), nil
	}

	occurrences, err := s.expandForBooking(ctx, booking, horizon)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Occurrences: booking id=%s expanded to %d occurrences", id, len(occurrences))
	return models.FromDomainOccurrences(id, occurrences), nil
}

// Agenda строит расписание сотрудника за период: бронирования разворачиваются
// в конкретные вхождения, попадающие в окно запроса
func (s *Service) Agenda(ctx context.Context, req *models.GetAgendaRequest) (*models.AgendaResponse, error) {
	s.logger.Info("Agenda: building agenda for staff=%s, from=%s, to=%s",
		req.StaffID, req.From.Format(time.RFC3339), req.To.Format(time.RFC3339))

	window := domain.Interval{Start: req.From, End: req.To}
	if !window.IsValid() {
		s.logger.Warn("Agenda: invalid window for staff=%s", req.StaffID)
		return nil, fmt.Errorf("%w: invalid time window", ErrInvalidInput)
	}

	// Окно ограничивается горизонтом планирования
	maxEnd := time.Now().AddDate(0, 0, s.horizonDays)
	if window.End.After(maxEnd) {
		window.End = maxEnd
	}
	if !window.IsValid() {
		return &models.AgendaResponse{
			StaffID: req.StaffID,
			From:    req.From.Format(time.RFC3339),
			To:      req.To.Format(time.RFC3339),
			Entries: []models.AgendaEntryResponse{},
		}, nil
	}

	if _, err := s.catalogRepo.GetStaff(ctx, req.StaffID); err != nil {
		if errors.Is(err, catalogRepo.ErrStaffNotFound) {
			s.logger.Warn("Agenda: staff=%s not found", req.StaffID)
			return nil, ErrStaffNotFound
		}
		s.logger.Error("Agenda: catalog error for staff=%s: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: Agenda - catalog error: %v", ErrInternal, err)
	}

	// Якоря повторяющихся серий могут начинаться задолго до окна,
	// поэтому выборка идет по началу до конца окна, а не по пересечению
	bookingList, err := s.bookingRepo.ListByStaff(ctx, req.StaffID, window.End, req.IncludeInactive)
	if err != nil {
		s.logger.Error("Agenda: repository error for staff=%s: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: Agenda - repository error: %v", ErrInternal, err)
	}

	type agendaItem struct {
		booking    *domain.Booking
		occurrence domain.Occurrence
	}
	items := make([]agendaItem, 0)
	for _, b := range bookingList {
		occurrences, err := s.expandForBooking(ctx, b, window)
		if err != nil {
			return nil, err
		}
		for _, occ := range occurrences {
			items = append(items, agendaItem{booking: b, occurrence: occ})
		}
	}

	// Вхождения строятся в таймзоне своей локации, поэтому сортировка
	// идет по моментам времени, а не по их строковому представлению
	sort.Slice(items, func(i, j int) bool {
		si, sj := items[i].occurrence.Interval.Start, items[j].occurrence.Interval.Start
		if !si.Equal(sj) {
			return si.Before(sj)
		}
		return items[i].booking.ID < items[j].booking.ID
	})

	entries := make([]models.AgendaEntryResponse, 0, len(items))
	for _, it := range items {
		entries = append(entries, models.AgendaEntryResponse{
			BookingID:  it.booking.ID,
			Ref:        it.occurrence.Ref(),
			LocationID: it.booking.LocationID,
			ServiceID:  it.booking.ServiceID,
			CustomerID: it.booking.CustomerID,
			Status:     string(it.booking.Status),
			StartTime:  it.occurrence.Interval.Start.Format(time.RFC3339),
			EndTime:    it.occurrence.Interval.End.Format(time.RFC3339),
		})
	}

	s.logger.Info("Agenda: staff=%s has %d entries in window", req.StaffID, len(entries))
	return &models.AgendaResponse{
		StaffID: req.StaffID,
		From:    req.From.Format(time.RFC3339),
		To:      req.To.Format(time.RFC3339),
		Entries: entries,
	}, nil
}

// CompleteElapsed завершает подтвержденные бронирования, время которых прошло.
// Вызывается фоновым тикером. Повторяющиеся серии не завершаются автоматически:
// их якорь представляет всю серию и остается подтвержденным.
func (s *Service) CompleteElapsed(ctx context.Context) (int, error) {
	now := time.Now()

	elapsed, err := s.bookingRepo.ListElapsedConfirmed(ctx, now)
	if err != nil {
		s.logger.Error("CompleteElapsed: repository error: %v", err)
		return 0, fmt.Errorf("%w: CompleteElapsed - repository error: %v", ErrInternal, err)
	}

	completed := 0
	for _, b := range elapsed {
		if err := s.engine.Complete(b); err != nil {
			s.logger.Warn("CompleteElapsed: booking id=%s not completable: %v", b.ID, err)
			continue
		}
		if err := s.bookingRepo.UpdateStatus(ctx, b.ID, b.Status); err != nil {
			s.logger.Error("CompleteElapsed: failed to persist booking id=%s: %v", b.ID, err)
			continue
		}
		// Интервал в прошлом больше не конфликтует с новыми бронями,
		// резервации снимаются, чтобы индекс не рос бесконечно
		s.index.ReleaseAnchor(b.ID)
		completed++
	}

	if completed > 0 {
		s.logger.Info("CompleteElapsed: completed %d elapsed bookings", completed)
	}
	return completed, nil
}

// RestoreAvailability восстанавливает индекс доступности из хранилища.
// Вызывается один раз при старте сервиса, до приема трафика.
func (s *Service) RestoreAvailability(ctx context.Context) error {
	horizon := time.Now().AddDate(0, 0, s.horizonDays)

	active, err := s.bookingRepo.ListActive(ctx, horizon)
	if err != nil {
		s.logger.Error("RestoreAvailability: repository error: %v", err)
		return fmt.Errorf("%w: RestoreAvailability - repository error: %v", ErrInternal, err)
	}

	window := domain.Interval{Start: time.Now(), End: horizon}
	restored := 0
	for _, b := range active {
		occurrences, err := s.expandForBooking(ctx, b, window)
		if err != nil {
			s.logger.Warn("RestoreAvailability: skipping booking id=%s: %v", b.ID, err)
			continue
		}
		if len(occurrences) == 0 {
			continue
		}

		service, err := s.catalogRepo.GetService(ctx, b.ServiceID)
		if err != nil {
			s.logger.Warn("RestoreAvailability: unknown service=%s for booking id=%s: %v", b.ServiceID, b.ID, err)
			continue
		}

		req := availability.Request{
			AnchorID: b.ID,
			Resources: []availability.Resource{
				{Key: availability.StaffKey(b.StaffID), Capacity: 1},
				{Key: availability.ServiceLocationKey(b.ServiceID, b.LocationID), Capacity: service.MaxCapacity},
			},
			Occurrences: occurrences,
		}
		// Конфликт при восстановлении означает рассинхронизацию данных:
		// бронь уже сохранена, поэтому логируем и продолжаем
		if err := s.index.ReserveSeries(ctx, req); err != nil {
			s.logger.Error("RestoreAvailability: failed to restore booking id=%s: %v", b.ID, err)
			continue
		}
		restored++
	}

	s.logger.Info("RestoreAvailability: restored %d of %d active bookings", restored, len(active))
	return nil
}

// expandForBooking разворачивает бронирование в таймзоне его локации
func (s *Service) expandForBooking(ctx context.Context, b *domain.Booking, horizon domain.Interval) ([]domain.Occurrence, error) {
	location, err := s.catalogRepo.GetLocation(ctx, b.LocationID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrLocationNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, fmt.Errorf("%w: expandForBooking - catalog error: %v", ErrInternal, err)
	}

	tz, err := time.LoadLocation(location.Timezone)
	if err != nil {
		s.logger.Warn("expandForBooking: invalid timezone=%q for location=%s, falling back to UTC", location.Timezone, location.ID)
		tz = time.UTC
	}

	occurrences, err := recurrence.Expand(b, tz, horizon, s.maxOccurrences)
	if err != nil {
		return nil, fmt.Errorf("%w: expandForBooking - expansion failed: %v", ErrInternal, err)
	}
	return occurrences, nil
}
