package advisory

// ServiceOption описание услуги, передаваемое модели для выбора
type ServiceOption struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"duration_minutes"`
}

// Suggestion рекомендация услуги, возвращаемая моделью
type Suggestion struct {
	ServiceID string `json:"service_id"`
	Reasoning string `json:"reasoning"`
}
