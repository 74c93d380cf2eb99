package get_available_slots

import "time"

// Request модель запроса доступных слотов
type Request struct {
	LocationID string    // ID локации
	ServiceID  string    // ID услуги
	Date       time.Time // Запрашиваемая дата (время игнорируется)
	StaffID    *string   // Конкретный сотрудник (опционально)
}

// Slot один свободный слот
type Slot struct {
	StartTime      string   `json:"startTime"` // ISO 8601
	EndTime        string   `json:"endTime"`   // ISO 8601
	AvailableStaff []string `json:"availableStaff"`
	AvailableSpots int      `json:"availableSpots"`
	TotalSpots     int      `json:"totalSpots"`
}

// Response модель ответа со свободными слотами
type Response struct {
	LocationID string `json:"locationId"`
	ServiceID  string `json:"serviceId"`
	Date       string `json:"date"` // YYYY-MM-DD
	Slots      []Slot `json:"slots"`
}
