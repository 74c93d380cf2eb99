package availability

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/ABS-SchedulingCore/internal/domain"
)

func ivl(startHour, startMin, durMin int) domain.Interval {
	start := time.Date(2025, 6, 10, startHour, startMin, 0, 0, time.UTC)
	return domain.Interval{Start: start, End: start.Add(time.Duration(durMin) * time.Minute)}
}

func occ(anchorID string, index int, iv domain.Interval) domain.Occurrence {
	return domain.Occurrence{AnchorID: anchorID, Index: index, Interval: iv}
}

func staffRequest(anchorID, staffID string, occs ...domain.Occurrence) Request {
	return Request{
		AnchorID:    anchorID,
		Resources:   []Resource{{Key: StaffKey(staffID), Capacity: 1}},
		Occurrences: occs,
	}
}

func TestReserveSeries_StaffOverlapRejected(t *testing.T) {
	ix := NewIndex(time.Second)
	ctx := context.Background()

	// Сотрудник занят 10:00-11:00
	require.NoError(t, ix.ReserveSeries(ctx, staffRequest("b1", "staff-1", occ("b1", 0, ivl(10, 0, 60)))))

	// 10:30-11:30 пересекается - конфликт
	err := ix.ReserveSeries(ctx, staffRequest("b2", "staff-1", occ("b2", 0, ivl(10, 30, 60))))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)

	var conflict *Conflict
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, StaffKey("staff-1"), conflict.Resource)
	assert.Equal(t, "b2#0", conflict.Occurrence.Ref())

	// 11:00-12:00 граничит, но не пересекается - успех
	require.NoError(t, ix.ReserveSeries(ctx, staffRequest("b3", "staff-1", occ("b3", 0, ivl(11, 0, 60)))))
}

func TestReserveSeries_CapacityLimited(t *testing.T) {
	ix := NewIndex(time.Second)
	ctx := context.Background()
	key := ServiceLocationKey("svc-1", "loc-1")

	req := func(anchor string) Request {
		return Request{
			AnchorID:    anchor,
			Resources:   []Resource{{Key: key, Capacity: 2}},
			Occurrences: []domain.Occurrence{occ(anchor, 0, ivl(10, 0, 10))},
		}
	}

	require.NoError(t, ix.ReserveSeries(ctx, req("b1")))
	require.NoError(t, ix.ReserveSeries(ctx, req("b2")))

	err := ix.ReserveSeries(ctx, req("b3"))
	assert.ErrorIs(t, err, ErrConflict)
}

func TestReserveSeries_AllOrNothing(t *testing.T) {
	ix := NewIndex(time.Second)
	ctx := context.Background()

	// Занимаем слот, с которым пересечется второе вхождение серии
	require.NoError(t, ix.ReserveSeries(ctx, staffRequest("b1", "staff-1", occ("b1", 0, ivl(12, 0, 60)))))

	// Серия из двух вхождений: первое свободно, второе конфликтует
	err := ix.ReserveSeries(ctx, staffRequest("b2", "staff-1",
		occ("b2", 0, ivl(9, 0, 60)),
		occ("b2", 1, ivl(12, 30, 60)),
	))
	require.ErrorIs(t, err, ErrConflict)

	// Первое вхождение серии не должно было остаться занятым
	assert.Equal(t, 0, ix.CountOverlapping(StaffKey("staff-1"), ivl(9, 0, 60), ""))
}

func TestReserveSeries_ConcurrentCapacity_ExactlyTwoSucceed(t *testing.T) {
	ix := NewIndex(time.Second)
	key := ServiceLocationKey("svc-1", "loc-1")

	var wg sync.WaitGroup
	results := make(chan error, 3)

	for i := 0; i < 3; i++ {
		wg.Add(1)
		anchor := string(rune('a' + i))
		go func() {
			defer wg.Done()
			results <- ix.ReserveSeries(context.Background(), Request{
				AnchorID:    anchor,
				Resources:   []Resource{{Key: key, Capacity: 2}},
				Occurrences: []domain.Occurrence{occ(anchor, 0, ivl(10, 0, 10))},
			})
		}()
	}
	wg.Wait()
	close(results)

	succeeded, conflicted := 0, 0
	for err := range results {
		if err == nil {
			succeeded++
		} else if assert.ErrorIs(t, err, ErrConflict) {
			conflicted++
		}
	}
	assert.Equal(t, 2, succeeded)
	assert.Equal(t, 1, conflicted)
}

func TestReserveSeries_ConcurrentStaff_AtMostOneWins(t *testing.T) {
	ix := NewIndex(time.Second)

	var wg sync.WaitGroup
	results := make(chan error, 8)

	for i := 0; i < 8; i++ {
		wg.Add(1)
		anchor := string(rune('a' + i))
		go func() {
			defer wg.Done()
			results <- ix.ReserveSeries(context.Background(),
				staffRequest(anchor, "staff-1", occ(anchor, 0, ivl(10, 0, 30))))
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded)
}

func TestRebook_MovesReservationAtomically(t *testing.T) {
	ix := NewIndex(time.Second)
	ctx := context.Background()

	require.NoError(t, ix.ReserveSeries(ctx, staffRequest("b1", "staff-1", occ("b1", 0, ivl(10, 0, 60)))))

	// Перенос на интервал, пересекающийся со старым собственным - не конфликт
	require.NoError(t, ix.Rebook(ctx, staffRequest("b1", "staff-1", occ("b1", 0, ivl(10, 30, 60)))))

	assert.Equal(t, 0, ix.CountOverlapping(StaffKey("staff-1"), ivl(10, 0, 30), ""))
	assert.Equal(t, 1, ix.CountOverlapping(StaffKey("staff-1"), ivl(10, 30, 60), ""))
}

func TestRebook_ConflictRestoresOldReservations(t *testing.T) {
	ix := NewIndex(time.Second)
	ctx := context.Background()

	require.NoError(t, ix.ReserveSeries(ctx, staffRequest("b1", "staff-1", occ("b1", 0, ivl(10, 0, 60)))))
	require.NoError(t, ix.ReserveSeries(ctx, staffRequest("b2", "staff-1", occ("b2", 0, ivl(12, 0, 60)))))

	// Перенос b1 на занятый b2 интервал - конфликт, старая резервация b1 остается
	err := ix.Rebook(ctx, staffRequest("b1", "staff-1", occ("b1", 0, ivl(12, 0, 60))))
	require.ErrorIs(t, err, ErrConflict)

	assert.Equal(t, 1, ix.CountOverlapping(StaffKey("staff-1"), ivl(10, 0, 60), ""))
	assert.Equal(t, 1, ix.CountOverlapping(StaffKey("staff-1"), ivl(12, 0, 60), ""))
}

func TestReleaseAnchor_Idempotent(t *testing.T) {
	ix := NewIndex(time.Second)
	ctx := context.Background()

	require.NoError(t, ix.ReserveSeries(ctx, staffRequest("b1", "staff-1",
		occ("b1", 0, ivl(10, 0, 30)),
		occ("b1", 1, ivl(11, 0, 30)),
	)))

	ix.ReleaseAnchor("b1")
	assert.Equal(t, 0, ix.CountOverlapping(StaffKey("staff-1"), ivl(9, 0, 240), ""))

	// Повторный вызов безопасен
	ix.ReleaseAnchor("b1")
	assert.Equal(t, 0, ix.CountOverlapping(StaffKey("staff-1"), ivl(9, 0, 240), ""))
}

func TestCountOverlapping_ExcludesAnchor(t *testing.T) {
	ix := NewIndex(time.Second)
	ctx := context.Background()

	require.NoError(t, ix.ReserveSeries(ctx, staffRequest("b1", "staff-1", occ("b1", 0, ivl(10, 0, 60)))))

	assert.Equal(t, 1, ix.CountOverlapping(StaffKey("staff-1"), ivl(10, 0, 60), ""))
	assert.Equal(t, 0, ix.CountOverlapping(StaffKey("staff-1"), ivl(10, 0, 60), "b1"))
}

func TestReserveSeries_LockTimeout(t *testing.T) {
	ix := NewIndex(50 * time.Millisecond)
	key := StaffKey("staff-1")

	// Держим замок ресурса вручную, имитируя долгого конкурента
	r := ix.resourceFor(key)
	require.NoError(t, ix.acquire(context.Background(), r))
	defer ix.release(r)

	err := ix.ReserveSeries(context.Background(), staffRequest("b1", "staff-1", occ("b1", 0, ivl(10, 0, 30))))
	assert.ErrorIs(t, err, ErrLockTimeout)
}

func TestReserveSeries_ContextCancelled(t *testing.T) {
	ix := NewIndex(time.Second)
	key := StaffKey("staff-1")

	r := ix.resourceFor(key)
	require.NoError(t, ix.acquire(context.Background(), r))
	defer ix.release(r)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ix.ReserveSeries(ctx, staffRequest("b1", "staff-1", occ("b1", 0, ivl(10, 0, 30))))
	assert.ErrorIs(t, err, context.Canceled)
}
