package reschedule_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("reschedule_booking: booking not found")

	// ErrLocationNotFound возвращается, когда локация бронирования не найдена
	ErrLocationNotFound = errors.New("reschedule_booking: location not found")

	// ErrCannotReschedule возвращается, когда бронирование нельзя перенести
	ErrCannotReschedule = errors.New("reschedule_booking: booking cannot be rescheduled")

	// ErrStartInPast возвращается, когда новое начало в прошлом
	ErrStartInPast = errors.New("reschedule_booking: new start time is in the past")

	// ErrDateTooFarInFuture возвращается, когда новое начало за горизонтом планирования
	ErrDateTooFarInFuture = errors.New("reschedule_booking: new start time is beyond the scheduling horizon")

	// ErrSlotNotAvailable возвращается, когда новый слот занят даже после повторных попыток
	ErrSlotNotAvailable = errors.New("reschedule_booking: new slot is not available")

	// ErrStoreUnavailable возвращается, когда хранилище не приняло запись
	// за отведенный бюджет повторов
	ErrStoreUnavailable = errors.New("reschedule_booking: store unavailable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_booking: internal error")
)
