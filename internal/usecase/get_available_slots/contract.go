package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/ABS-SchedulingCore/internal/availability"
	"github.com/m04kA/ABS-SchedulingCore/internal/domain"
)

// CatalogRepository интерфейс репозитория справочника
type CatalogRepository interface {
	GetLocation(ctx context.Context, id string) (*domain.Location, error)
	GetService(ctx context.Context, id string) (*domain.Service, error)
	GetStaff(ctx context.Context, id string) (*domain.Staff, error)
	ListStaffForService(ctx context.Context, serviceID, locationID string) ([]*domain.Staff, error)
}

// AvailabilityIndex интерфейс индекса доступности
type AvailabilityIndex interface {
	IsFree(key availability.ResourceKey, interval domain.Interval, capacity int, excludeAnchor string) bool
	CountOverlapping(key availability.ResourceKey, interval domain.Interval, excludeAnchor string) int
}

// SlotCache кэш ответов со свободными слотами. Может быть nil - тогда
// каждый запрос вычисляется заново.
type SlotCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}) error
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
