package reschedule_booking

import (
	"context"

	rescheduleBooking "github.com/m04kA/ABS-SchedulingCore/internal/usecase/reschedule_booking"
)

type RescheduleBookingUseCase interface {
	Execute(ctx context.Context, req *rescheduleBooking.Request) (*rescheduleBooking.Response, error)
}

type Metrics interface {
	IncConflicts()
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
