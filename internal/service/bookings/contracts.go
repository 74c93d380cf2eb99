package bookings

import (
	"context"
	"time"

	"github.com/m04kA/ABS-SchedulingCore/internal/availability"
	"github.com/m04kA/ABS-SchedulingCore/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	ListByStaff(ctx context.Context, staffID string, until time.Time, includeInactive bool) ([]*domain.Booking, error)
	ListActive(ctx context.Context, until time.Time) ([]*domain.Booking, error)
	ListElapsedConfirmed(ctx context.Context, now time.Time) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error
	UpdatePayment(ctx context.Context, id string, paidAmount float64, paymentStatus domain.PaymentStatus) error
	Cancel(ctx context.Context, id string, reason *string, cancelledAt time.Time) error
}

// CatalogRepository интерфейс репозитория справочника
type CatalogRepository interface {
	GetLocation(ctx context.Context, id string) (*domain.Location, error)
	GetService(ctx context.Context, id string) (*domain.Service, error)
	GetStaff(ctx context.Context, id string) (*domain.Staff, error)
}

// AvailabilityIndex интерфейс индекса доступности
type AvailabilityIndex interface {
	ReserveSeries(ctx context.Context, req availability.Request) error
	ReleaseAnchor(anchorID string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
