package availability

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/ABS-SchedulingCore/internal/domain"
)

// ResourceKind тип ресурса, на который накладываются резервации
type ResourceKind string

const (
	// KindStaff сотрудник: не более одной активной брони в любой момент
	KindStaff ResourceKind = "staff"

	// KindServiceLocation пара услуга+локация с ограничением вместимости
	KindServiceLocation ResourceKind = "service_location"
)

// ResourceKey идентифицирует ресурс в индексе
type ResourceKey struct {
	Kind ResourceKind
	ID   string
}

// StaffKey строит ключ ресурса сотрудника
func StaffKey(staffID string) ResourceKey {
	return ResourceKey{Kind: KindStaff, ID: staffID}
}

// ServiceLocationKey строит ключ ресурса услуги на конкретной локации
func ServiceLocationKey(serviceID, locationID string) ResourceKey {
	return ResourceKey{Kind: KindServiceLocation, ID: serviceID + "@" + locationID}
}

// Resource ресурс с его вместимостью в рамках одного запроса на резервирование
type Resource struct {
	Key      ResourceKey
	Capacity int
}

// Request запрос на резервирование серии вхождений на наборе ресурсов
type Request struct {
	AnchorID    string
	Resources   []Resource
	Occurrences []domain.Occurrence
}

// reservation одна занятая резервация на ресурсе
type reservation struct {
	ref      string
	anchorID string
	interval domain.Interval
}

// resource состояние одного ресурса: замок-семафор для сценария
// "проверить и занять" и данные резерваций под отдельным RWMutex,
// чтобы читатели не блокировали друг друга
type resource struct {
	sem chan struct{}

	mu           sync.RWMutex
	reservations []reservation // отсортированы по interval.Start
}

func newResource() *resource {
	return &resource{sem: make(chan struct{}, 1)}
}

// Index индекс доступности: хранит активные резервации по ресурсам.
// Проверка занятости - O(log n) поиск границы + проход по кандидатам.
type Index struct {
	lockTimeout time.Duration

	mu        sync.RWMutex
	resources map[ResourceKey]*resource
}

// NewIndex создает пустой индекс доступности.
// lockTimeout ограничивает ожидание замка ресурса: по истечении возвращается
// ErrLockTimeout, а не бесконечная блокировка.
func NewIndex(lockTimeout time.Duration) *Index {
	if lockTimeout <= 0 {
		lockTimeout = 2 * time.Second
	}
	return &Index{
		lockTimeout: lockTimeout,
		resources:   make(map[ResourceKey]*resource),
	}
}

func (ix *Index) resourceFor(key ResourceKey) *resource {
	ix.mu.RLock()
	r, ok := ix.resources[key]
	ix.mu.RUnlock()
	if ok {
		return r
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	if r, ok = ix.resources[key]; ok {
		return r
	}
	r = newResource()
	ix.resources[key] = r
	return r
}

// acquire захватывает замок ресурса с ограничением по времени и контексту
func (ix *Index) acquire(ctx context.Context, r *resource) error {
	timer := time.NewTimer(ix.lockTimeout)
	defer timer.Stop()

	select {
	case r.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrLockTimeout
	}
}

func (ix *Index) release(r *resource) {
	<-r.sem
}

// CountOverlapping возвращает число активных резерваций ресурса,
// пересекающихся с интервалом. Резервации якоря excludeAnchor не учитываются
// (пустая строка - учитывать все).
func (ix *Index) CountOverlapping(key ResourceKey, interval domain.Interval, excludeAnchor string) int {
	r := ix.resourceFor(key)
	r.mu.RLock()
	defer r.mu.RUnlock()
	return countOverlapping(r.reservations, interval, excludeAnchor)
}

// IsFree проверяет, поместится ли еще одна резервация интервала на ресурсе
// с учетом его вместимости
func (ix *Index) IsFree(key ResourceKey, interval domain.Interval, capacity int, excludeAnchor string) bool {
	if capacity < 1 {
		capacity = 1
	}
	return ix.CountOverlapping(key, interval, excludeAnchor) < capacity
}

// ReserveSeries атомарно резервирует все вхождения серии на всех ресурсах запроса.
// Либо заняты все вхождения, либо ни одного: никакие частичные резервации
// не переживают выход из метода, включая отмену контекста на полпути.
//
// Замки ресурсов захватываются в детерминированном порядке ключей,
// поэтому два конкурентных запроса не могут взаимоблокироваться.
func (ix *Index) ReserveSeries(ctx context.Context, req Request) error {
	return ix.withResources(ctx, req.Resources, func(held map[ResourceKey]*resource) error {
		// Фаза 1: проверяем все вхождения на всех ресурсах
		for _, res := range req.Resources {
			r := held[res.Key]
			capacity := res.Capacity
			if capacity < 1 {
				capacity = 1
			}

			r.mu.RLock()
			for _, occ := range req.Occurrences {
				if countOverlapping(r.reservations, occ.Interval, "") >= capacity {
					r.mu.RUnlock()
					return &Conflict{Resource: res.Key, Occurrence: occ}
				}
			}
			r.mu.RUnlock()
		}

		// Фаза 2: все свободно - вставляем резервации
		for _, res := range req.Resources {
			r := held[res.Key]
			r.mu.Lock()
			for _, occ := range req.Occurrences {
				insertReservation(r, reservation{
					ref:      occ.Ref(),
					anchorID: req.AnchorID,
					interval: occ.Interval,
				})
			}
			r.mu.Unlock()
		}
		return nil
	})
}

// Rebook атомарно заменяет все резервации якоря на ресурсах запроса новыми
// вхождениями. При конфликте старые резервации остаются на месте.
// Используется переносом бронирования: своя прежняя бронь не считается конфликтом.
func (ix *Index) Rebook(ctx context.Context, req Request) error {
	return ix.withResources(ctx, req.Resources, func(held map[ResourceKey]*resource) error {
		// Снимаем старые резервации якоря, запоминая их для отката
		removed := make(map[ResourceKey][]reservation)
		for _, res := range req.Resources {
			r := held[res.Key]
			r.mu.Lock()
			removed[res.Key] = removeAnchor(r, req.AnchorID)
			r.mu.Unlock()
		}

		restore := func() {
			for key, old := range removed {
				r := held[key]
				r.mu.Lock()
				for _, rv := range old {
					insertReservation(r, rv)
				}
				r.mu.Unlock()
			}
		}

		// Проверяем новые вхождения
		for _, res := range req.Resources {
			r := held[res.Key]
			capacity := res.Capacity
			if capacity < 1 {
				capacity = 1
			}

			r.mu.RLock()
			for _, occ := range req.Occurrences {
				if countOverlapping(r.reservations, occ.Interval, "") >= capacity {
					r.mu.RUnlock()
					restore()
					return &Conflict{Resource: res.Key, Occurrence: occ}
				}
			}
			r.mu.RUnlock()
		}

		// Вставляем новые
		for _, res := range req.Resources {
			r := held[res.Key]
			r.mu.Lock()
			for _, occ := range req.Occurrences {
				insertReservation(r, reservation{
					ref:      occ.Ref(),
					anchorID: req.AnchorID,
					interval: occ.Interval,
				})
			}
			r.mu.Unlock()
		}
		return nil
	})
}

// ReleaseAnchor снимает все резервации якоря со всех ресурсов индекса.
// Идемпотентна: повторный вызов ничего не делает.
func (ix *Index) ReleaseAnchor(anchorID string) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	for _, r := range ix.resources {
		r.mu.Lock()
		removeAnchor(r, anchorID)
		r.mu.Unlock()
	}
}

// Release снимает одну резервацию по ссылке вхождения
func (ix *Index) Release(key ResourceKey, ref string) {
	r := ix.resourceFor(key)
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.reservations[:0]
	for _, rv := range r.reservations {
		if rv.ref != ref {
			kept = append(kept, rv)
		}
	}
	r.reservations = kept
}

// withResources захватывает замки ресурсов в порядке возрастания ключей,
// вызывает fn и гарантированно отпускает все захваченное
func (ix *Index) withResources(ctx context.Context, resources []Resource, fn func(map[ResourceKey]*resource) error) error {
	keys := make([]ResourceKey, 0, len(resources))
	seen := make(map[ResourceKey]struct{}, len(resources))
	for _, res := range resources {
		if _, ok := seen[res.Key]; ok {
			continue
		}
		seen[res.Key] = struct{}{}
		keys = append(keys, res.Key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Kind != keys[j].Kind {
			return keys[i].Kind < keys[j].Kind
		}
		return keys[i].ID < keys[j].ID
	})

	held := make(map[ResourceKey]*resource, len(keys))
	acquired := make([]*resource, 0, len(keys))

	releaseAll := func() {
		for i := len(acquired) - 1; i >= 0; i-- {
			ix.release(acquired[i])
		}
	}

	for _, key := range keys {
		r := ix.resourceFor(key)
		if err := ix.acquire(ctx, r); err != nil {
			releaseAll()
			return err
		}
		held[key] = r
		acquired = append(acquired, r)
	}

	defer releaseAll()
	return fn(held)
}

// countOverlapping считает пересечения в отсортированном по началу списке.
// Бинарным поиском отсекаем резервации, начинающиеся не раньше конца интервала.
func countOverlapping(reservations []reservation, interval domain.Interval, excludeAnchor string) int {
	upper := sort.Search(len(reservations), func(i int) bool {
		return !reservations[i].interval.Start.Before(interval.End)
	})

	count := 0
	for i := 0; i < upper; i++ {
		rv := reservations[i]
		if excludeAnchor != "" && rv.anchorID == excludeAnchor {
			continue
		}
		if rv.interval.Overlaps(interval) {
			count++
		}
	}
	return count
}

// insertReservation вставляет резервацию, сохраняя сортировку по началу интервала
func insertReservation(r *resource, rv reservation) {
	pos := sort.Search(len(r.reservations), func(i int) bool {
		return r.reservations[i].interval.Start.After(rv.interval.Start)
	})
	r.reservations = append(r.reservations, reservation{})
	copy(r.reservations[pos+1:], r.reservations[pos:])
	r.reservations[pos] = rv
}

// removeAnchor удаляет все резервации якоря из ресурса, возвращая удаленные
func removeAnchor(r *resource, anchorID string) []reservation {
	var removed []reservation
	kept := r.reservations[:0]
	for _, rv := range r.reservations {
		if rv.anchorID == anchorID {
			removed = append(removed, rv)
			continue
		}
		kept = append(kept, rv)
	}
	r.reservations = kept
	return removed
}
