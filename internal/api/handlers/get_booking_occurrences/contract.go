package get_booking_occurrences

import (
	"context"

	"github.com/m04kA/ABS-SchedulingCore/internal/service/bookings/models"
)

type BookingsService interface {
	Occurrences(ctx context.Context, id string) (*models.OccurrenceListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
