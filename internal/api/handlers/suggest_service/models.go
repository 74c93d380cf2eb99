package suggest_service

import "github.com/m04kA/ABS-SchedulingCore/internal/service/advisory/models"

// SuggestServiceRequest HTTP request model
type SuggestServiceRequest struct {
	Request    string  `json:"request" validate:"required"`
	LocationID *string `json:"locationId,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *SuggestServiceRequest) ToServiceRequest() *models.SuggestServiceRequest {
	return &models.SuggestServiceRequest{
		Request:    r.Request,
		LocationID: r.LocationID,
	}
}
