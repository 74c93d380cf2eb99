package create_booking

import (
	"context"

	createBooking "github.com/m04kA/ABS-SchedulingCore/internal/usecase/create_booking"
)

type CreateBookingUseCase interface {
	Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error)
}

type Metrics interface {
	IncBookingsCreated()
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
