package get_staff_agenda

import (
	"context"

	"github.com/m04kA/ABS-SchedulingCore/internal/service/bookings/models"
)

type BookingsService interface {
	Agenda(ctx context.Context, req *models.GetAgendaRequest) (*models.AgendaResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
