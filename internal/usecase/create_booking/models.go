package create_booking

import "time"

// Request модель запроса на создание бронирования.
// Конец бронирования вычисляется из длительности услуги.
type Request struct {
	LocationID        string    // ID локации
	ServiceID         string    // ID услуги
	StaffID           string    // ID сотрудника
	CustomerID        string    // ID клиента
	StartTime         time.Time // Начало первого вхождения
	PaymentMethod     string    // Способ оплаты
	RecurrencePattern string    // Шаблон повторения (none/daily/weekly/monthly)
	Notes             *string   // Дополнительные заметки (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID         string    // ID созданного бронирования
	LocationID string    // ID локации
	ServiceID  string    // ID услуги
	StaffID    string    // ID сотрудника
	CustomerID string    // ID клиента
	StartTime  time.Time // Начало первого вхождения
	EndTime    time.Time // Конец первого вхождения
	Status     string    // Статус бронирования

	PaymentStatus string  // Статус оплаты
	PaymentMethod string  // Способ оплаты
	TotalPrice    float64 // Стоимость услуги
	PaidAmount    float64 // Оплаченная сумма

	RecurrencePattern string  // Шаблон повторения
	OccurrenceCount   int     // Число зарезервированных вхождений в пределах горизонта
	Notes             *string // Заметки

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
