package create_booking

import "errors"

var (
	// ErrLocationNotFound возвращается, когда локация не найдена
	ErrLocationNotFound = errors.New("create_booking: location not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrStaffNotFound возвращается, когда сотрудник не найден
	ErrStaffNotFound = errors.New("create_booking: staff member not found")

	// ErrServiceInactive возвращается, когда услуга отключена
	ErrServiceInactive = errors.New("create_booking: service is inactive")

	// ErrServiceNotAtLocation возвращается, когда услуга не предоставляется на локации
	ErrServiceNotAtLocation = errors.New("create_booking: service is not offered at this location")

	// ErrStaffNotQualified возвращается, когда сотрудник не оказывает услугу
	ErrStaffNotQualified = errors.New("create_booking: staff member is not qualified for this service")

	// ErrStaffNotAtLocation возвращается, когда сотрудник не работает на локации
	ErrStaffNotAtLocation = errors.New("create_booking: staff member does not work at this location")

	// ErrStartInPast возвращается, когда бронирование начинается в прошлом
	ErrStartInPast = errors.New("create_booking: start time is in the past")

	// ErrDateTooFarInFuture возвращается, когда начало за горизонтом планирования
	ErrDateTooFarInFuture = errors.New("create_booking: start time is beyond the scheduling horizon")

	// ErrSlotNotAvailable возвращается при конфликте хотя бы одного вхождения серии
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrStoreUnavailable возвращается, когда хранилище не приняло запись
	// за отведенный бюджет повторов
	ErrStoreUnavailable = errors.New("create_booking: store unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
