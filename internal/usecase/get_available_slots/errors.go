package get_available_slots

import "errors"

var (
	// ErrLocationNotFound возвращается, когда локация не найдена
	ErrLocationNotFound = errors.New("get_available_slots: location not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("get_available_slots: service not found")

	// ErrStaffNotFound возвращается, когда сотрудник не найден
	ErrStaffNotFound = errors.New("get_available_slots: staff member not found")

	// ErrServiceInactive возвращается, когда услуга отключена
	ErrServiceInactive = errors.New("get_available_slots: service is inactive")

	// ErrServiceNotAtLocation возвращается, когда услуга не предоставляется на локации
	ErrServiceNotAtLocation = errors.New("get_available_slots: service is not offered at this location")

	// ErrStaffNotQualified возвращается, когда сотрудник не оказывает услугу
	ErrStaffNotQualified = errors.New("get_available_slots: staff member is not qualified for this service")

	// ErrStaffNotAtLocation возвращается, когда сотрудник не работает на локации
	ErrStaffNotAtLocation = errors.New("get_available_slots: staff member does not work at this location")

	// ErrInvalidDate возвращается при дате в прошлом
	ErrInvalidDate = errors.New("get_available_slots: date is in the past")

	// ErrDateTooFarInFuture возвращается, когда дата за горизонтом планирования
	ErrDateTooFarInFuture = errors.New("get_available_slots: date is beyond the scheduling horizon")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
