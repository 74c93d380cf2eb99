package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/ABS-SchedulingCore/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, now time.Time, horizonDays int) error {
	if req.LocationID == "" {
		return fmt.Errorf("%w: locationID is required", ErrInvalidInput)
	}
	if req.ServiceID == "" {
		return fmt.Errorf("%w: serviceID is required", ErrInvalidInput)
	}
	if req.StaffID == "" {
		return fmt.Errorf("%w: staffID is required", ErrInvalidInput)
	}
	if req.CustomerID == "" {
		return fmt.Errorf("%w: customerID is required", ErrInvalidInput)
	}
	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if _, err := toPaymentMethod(req.PaymentMethod); err != nil {
		return err
	}
	if _, err := toRecurrencePattern(req.RecurrencePattern); err != nil {
		return err
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	if req.StartTime.Before(now) {
		return ErrStartInPast
	}
	if !req.StartTime.Before(now.AddDate(0, 0, horizonDays)) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, horizonDays)
	}

	return nil
}

// validateCatalog проверяет согласованность услуги, сотрудника и локации
func validateCatalog(service *domain.Service, staff *domain.Staff, locationID string) error {
	if !service.IsActive {
		return ErrServiceInactive
	}
	if !service.IsOfferedAt(locationID) {
		return ErrServiceNotAtLocation
	}
	if !staff.IsQualifiedFor(service.ID) {
		return ErrStaffNotQualified
	}
	if !staff.WorksAt(locationID) {
		return ErrStaffNotAtLocation
	}
	return nil
}

// toPaymentMethod конвертирует строку в domain.PaymentMethod с валидацией
func toPaymentMethod(method string) (domain.PaymentMethod, error) {
	m := domain.PaymentMethod(method)
	switch m {
	case domain.PaymentMethodAbaPay, domain.PaymentMethodStripe, domain.PaymentMethodCreditCard, domain.PaymentMethodPayLater:
		return m, nil
	}
	return "", fmt.Errorf("%w: unknown payment method %q", ErrInvalidInput, method)
}

// toRecurrencePattern конвертирует строку в domain.RecurrencePattern с валидацией.
// Пустая строка означает неповторяющееся бронирование.
func toRecurrencePattern(pattern string) (domain.RecurrencePattern, error) {
	if pattern == "" {
		return domain.RecurrenceNone, nil
	}
	p := domain.RecurrencePattern(pattern)
	switch p {
	case domain.RecurrenceNone, domain.RecurrenceDaily, domain.RecurrenceWeekly, domain.RecurrenceMonthly:
		return p, nil
	}
	return "", fmt.Errorf("%w: unknown recurrence pattern %q", ErrInvalidInput, pattern)
}
