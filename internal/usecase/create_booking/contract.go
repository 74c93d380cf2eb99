package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/ABS-SchedulingCore/internal/availability"
	"github.com/m04kA/ABS-SchedulingCore/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
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
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
