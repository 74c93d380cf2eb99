package cancel_booking

import (
	"context"

	"github.com/m04kA/ABS-SchedulingCore/internal/service/bookings/models"
)

type BookingsService interface {
	Cancel(ctx context.Context, id string, req *models.CancelBookingRequest) (*models.BookingResponse, error)
}

type Metrics interface {
	IncBookingsCancelled()
}

// SlotCacheInvalidator сбрасывает закэшированные слоты после изменения расписания
type SlotCacheInvalidator interface {
	InvalidateResource(ctx context.Context, locationID, serviceID string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
