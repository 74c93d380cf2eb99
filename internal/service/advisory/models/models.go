package models

// SuggestServiceRequest запрос на подбор услуги по описанию клиента
type SuggestServiceRequest struct {
	Request    string  `json:"request"`
	LocationID *string `json:"locationId,omitempty"`
}

// SuggestServiceResponse рекомендация услуги.
// Пустой ServiceID означает, что рекомендация недоступна.
type SuggestServiceResponse struct {
	ServiceID string `json:"serviceId,omitempty"`
	Reasoning string `json:"reasoning,omitempty"`
}

// SummarizeNotesRequest запрос на сводку заметок
type SummarizeNotesRequest struct {
	Notes []string `json:"notes"`
}

// SummarizeNotesResponse сводка заметок.
// Пустая строка означает, что сводка недоступна.
type SummarizeNotesResponse struct {
	Summary string `json:"summary,omitempty"`
}
