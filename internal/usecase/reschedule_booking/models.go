package reschedule_booking

import "time"

// Request модель запроса на перенос бронирования.
// Длительность сохраняется: конец вычисляется из прежней длительности.
type Request struct {
	BookingID string    // ID переносимого бронирования
	StartTime time.Time // Новое начало (якоря для повторяющейся серии)
}

// Response модель ответа с перенесенным бронированием
type Response struct {
	ID         string    // ID бронирования
	LocationID string    // ID локации
	ServiceID  string    // ID услуги
	StaffID    string    // ID сотрудника
	CustomerID string    // ID клиента
	StartTime  time.Time // Новое начало
	EndTime    time.Time // Новый конец
	Status     string    // Статус бронирования

	RecurrencePattern string // Шаблон повторения
	OccurrenceCount   int    // Число вхождений серии после переноса
}
