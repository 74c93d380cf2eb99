package summarize_notes

import "github.com/m04kA/ABS-SchedulingCore/internal/service/advisory/models"

// SummarizeNotesRequest HTTP request model
type SummarizeNotesRequest struct {
	Notes []string `json:"notes" validate:"required,min=1"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *SummarizeNotesRequest) ToServiceRequest() *models.SummarizeNotesRequest {
	return &models.SummarizeNotesRequest{
		Notes: r.Notes,
	}
}
