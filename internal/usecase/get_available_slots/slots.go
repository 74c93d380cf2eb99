package get_available_slots

import (
	"time"

	"github.com/m04kA/ABS-SchedulingCore/internal/availability"
	"github.com/m04kA/ABS-SchedulingCore/internal/domain"
)

// Рабочее окно локации. Слоты генерируются по настенным часам
// в таймзоне локации.
const (
	dayOpenHour  = 8
	dayCloseHour = 20
)

// generateSlots строит свободные слоты на дату с шагом длительности услуги.
//
// Слот свободен, если пара услуга+локация не выбрала вместимость и хотя бы
// один из кандидатов-сотрудников не занят на всем интервале слота.
// Слоты, начинающиеся раньше текущего момента, не выдаются.
func generateSlots(
	index AvailabilityIndex,
	service *domain.Service,
	locationID string,
	candidates []*domain.Staff,
	date time.Time,
	tz *time.Location,
	now time.Time,
) []Slot {
	slotDuration := service.Duration()
	y, m, d := date.In(tz).Date()

	dayOpen := time.Date(y, m, d, dayOpenHour, 0, 0, 0, tz)
	dayClose := time.Date(y, m, d, dayCloseHour, 0, 0, 0, tz)

	serviceKey := availability.ServiceLocationKey(service.ID, locationID)

	slots := make([]Slot, 0)
	for start := dayOpen; !start.Add(slotDuration).After(dayClose); start = start.Add(slotDuration) {
		if start.Before(now) {
			continue
		}

		iv := domain.Interval{Start: start, End: start.Add(slotDuration)}

		// Существующие резервации услуги на локации уменьшают остаток мест
		remaining := service.MaxCapacity - index.CountOverlapping(serviceKey, iv, "")
		if remaining <= 0 {
			continue
		}

		free := make([]string, 0, len(candidates))
		for _, st := range candidates {
			if index.IsFree(availability.StaffKey(st.ID), iv, 1, "") {
				free = append(free, st.ID)
			}
		}
		if len(free) == 0 {
			continue
		}

		spots := remaining
		if len(free) < spots {
			spots = len(free)
		}

		slots = append(slots, Slot{
			StartTime:      iv.Start.Format(time.RFC3339),
			EndTime:        iv.End.Format(time.RFC3339),
			AvailableStaff: free,
			AvailableSpots: spots,
			TotalSpots:     service.MaxCapacity,
		})
	}

	return slots
}

// isDateInPast проверяет, что дата раньше сегодняшнего дня в таймзоне локации
func isDateInPast(date, now time.Time, tz *time.Location) bool {
	dy, dm, dd := date.In(tz).Date()
	ny, nm, nd := now.In(tz).Date()
	dateOnly := time.Date(dy, dm, dd, 0, 0, 0, 0, tz)
	nowOnly := time.Date(ny, nm, nd, 0, 0, 0, 0, tz)
	return dateOnly.Before(nowOnly)
}
