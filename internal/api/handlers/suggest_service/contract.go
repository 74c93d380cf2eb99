package suggest_service

import (
	"context"

	"github.com/m04kA/ABS-SchedulingCore/internal/service/advisory/models"
)

type AdvisoryService interface {
	SuggestService(ctx context.Context, req *models.SuggestServiceRequest) (*models.SuggestServiceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
