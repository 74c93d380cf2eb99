package summarize_notes

import (
	"context"

	"github.com/m04kA/ABS-SchedulingCore/internal/service/advisory/models"
)

type AdvisoryService interface {
	SummarizeNotes(ctx context.Context, req *models.SummarizeNotesRequest) (*models.SummarizeNotesResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
