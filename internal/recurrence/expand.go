package recurrence

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/ABS-SchedulingCore/internal/domain"
)

var (
	// ErrInvalidAnchor возвращается, когда у якорного бронирования некорректный интервал
	ErrInvalidAnchor = errors.New("recurrence: anchor has invalid time range")

	// ErrInvalidHorizon возвращается при некорректном горизонте расширения
	ErrInvalidHorizon = errors.New("recurrence: invalid expansion horizon")

	// ErrUnknownPattern возвращается при неизвестном шаблоне повторения
	ErrUnknownPattern = errors.New("recurrence: unknown recurrence pattern")
)

// Expand разворачивает якорное бронирование в конечный набор конкретных
// вхождений в пределах горизонта.
//
// Все вычисления ведутся в таймзоне локации (loc): каждое вхождение строится
// заново из локального времени суток якоря, поэтому переход на летнее/зимнее
// время не меняет длительность по настенным часам.
//
// Индекс вхождения равен номеру шага от якоря (дни/недели/месяцы), поэтому
// одно и то же календарное вхождение всегда получает один и тот же индекс,
// независимо от горизонта. Для monthly шаблона месяцы без нужного числа
// (например, 31-го) пропускаются, НЕ переносятся на соседний день.
//
// Результат детерминирован и ограничен maxOccurrences.
func Expand(anchor *domain.Booking, loc *time.Location, horizon domain.Interval, maxOccurrences int) ([]domain.Occurrence, error) {
	if anchor == nil || !anchor.Interval().IsValid() {
		return nil, ErrInvalidAnchor
	}
	if !horizon.IsValid() {
		return nil, ErrInvalidHorizon
	}
	if loc == nil {
		loc = time.UTC
	}
	if maxOccurrences <= 0 {
		maxOccurrences = domain.DefaultMaxOccurrences
	}

	pattern := anchor.RecurrencePattern
	if pattern == "" {
		pattern = domain.RecurrenceNone
	}

	// Настенные компоненты начала и конца в таймзоне локации
	start := anchor.StartTime.In(loc)
	end := anchor.EndTime.In(loc)

	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()

	// Сдвиг в днях между датой начала и датой конца (бронирование через полночь)
	startDay := time.Date(sy, sm, sd, 0, 0, 0, 0, time.UTC)
	endDay := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)
	daySpan := int(endDay.Sub(startDay).Hours() / 24)

	// at строит интервал вхождения для даты (y, m, d) по настенным часам якоря
	at := func(y int, m time.Month, d int) domain.Interval {
		occStart := time.Date(y, m, d, start.Hour(), start.Minute(), start.Second(), 0, loc)
		occEnd := time.Date(y, m, d+daySpan, end.Hour(), end.Minute(), end.Second(), 0, loc)
		return domain.Interval{Start: occStart, End: occEnd}
	}

	switch pattern {
	case domain.RecurrenceNone:
		if anchor.Interval().Overlaps(horizon) {
			return []domain.Occurrence{{AnchorID: anchor.ID, Index: 0, Interval: anchor.Interval()}}, nil
		}
		return []domain.Occurrence{}, nil

	case domain.RecurrenceDaily:
		return expandByDays(anchor.ID, sy, sm, sd, 1, at, horizon, maxOccurrences), nil

	case domain.RecurrenceWeekly:
		return expandByDays(anchor.ID, sy, sm, sd, 7, at, horizon, maxOccurrences), nil

	case domain.RecurrenceMonthly:
		return expandMonthly(anchor.ID, sy, sm, sd, at, horizon, maxOccurrences), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPattern, pattern)
	}
}

// expandByDays генерирует вхождения с фиксированным шагом в днях (daily/weekly)
func expandByDays(
	anchorID string,
	y int, m time.Month, d int,
	stepDays int,
	at func(int, time.Month, int) domain.Interval,
	horizon domain.Interval,
	maxOccurrences int,
) []domain.Occurrence {
	occurrences := make([]domain.Occurrence, 0)

	for step := 0; ; step++ {
		iv := at(y, m, d+step*stepDays)

		// Вхождения строго возрастают по времени начала - как только вышли
		// за горизонт, дальше идти бессмысленно
		if !iv.Start.Before(horizon.End) {
			break
		}

		if iv.Overlaps(horizon) {
			occurrences = append(occurrences, domain.Occurrence{
				AnchorID: anchorID,
				Index:    step,
				Interval: iv,
			})
			if len(occurrences) >= maxOccurrences {
				break
			}
		}
	}

	return occurrences
}

// expandMonthly генерирует вхождения по тому же числу месяца, что у якоря.
// Если в целевом месяце такого числа нет (например, 31-е), месяц пропускается.
func expandMonthly(
	anchorID string,
	y int, m time.Month, d int,
	at func(int, time.Month, int) domain.Interval,
	horizon domain.Interval,
	maxOccurrences int,
) []domain.Occurrence {
	occurrences := make([]domain.Occurrence, 0)

	for step := 0; ; step++ {
		// Нормализуем (год, месяц + step) через time.Date
		monthCursor := time.Date(y, m+time.Month(step), 1, 0, 0, 0, 0, time.UTC)
		ty, tm := monthCursor.Year(), monthCursor.Month()

		// Если даже первое число месяца уже за горизонтом - дальше идти некуда
		if !at(ty, tm, 1).Start.Before(horizon.End) {
			break
		}

		// Проверяем, что нужное число существует в целевом месяце:
		// time.Date нормализует 31 февраля в март, и тогда Day() не совпадет
		probe := time.Date(ty, tm, d, 12, 0, 0, 0, time.UTC)
		if probe.Day() != d || probe.Month() != tm {
			continue
		}

		iv := at(ty, tm, d)
		if !iv.Start.Before(horizon.End) {
			break
		}

		if iv.Overlaps(horizon) {
			occurrences = append(occurrences, domain.Occurrence{
				AnchorID: anchorID,
				Index:    step,
				Interval: iv,
			})
			if len(occurrences) >= maxOccurrences {
				break
			}
		}
	}

	return occurrences
}
