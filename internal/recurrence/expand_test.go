package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/ABS-SchedulingCore/internal/domain"
)

func anchorAt(start, end time.Time, pattern domain.RecurrencePattern) *domain.Booking {
	return &domain.Booking{
		ID:                "anchor-1",
		StartTime:         start,
		EndTime:           end,
		Status:            domain.StatusPending,
		RecurrencePattern: pattern,
	}
}

func TestExpand_None_InsideHorizon(t *testing.T) {
	start := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	anchor := anchorAt(start, start.Add(30*time.Minute), domain.RecurrenceNone)

	horizon := domain.Interval{
		Start: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	}

	occs, err := Expand(anchor, time.UTC, horizon, 0)
	require.NoError(t, err)
	require.Len(t, occs, 1)
	assert.Equal(t, 0, occs[0].Index)
	assert.Equal(t, anchor.Interval(), occs[0].Interval)
	assert.Equal(t, "anchor-1#0", occs[0].Ref())
}

func TestExpand_None_OutsideHorizon(t *testing.T) {
	start := time.Date(2025, 8, 10, 10, 0, 0, 0, time.UTC)
	anchor := anchorAt(start, start.Add(30*time.Minute), domain.RecurrenceNone)

	horizon := domain.Interval{
		Start: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	}

	occs, err := Expand(anchor, time.UTC, horizon, 0)
	require.NoError(t, err)
	assert.Empty(t, occs)
}

func TestExpand_Daily_OnePerDay(t *testing.T) {
	start := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	anchor := anchorAt(start, start.Add(time.Hour), domain.RecurrenceDaily)

	horizon := domain.Interval{
		Start: start,
		End:   time.Date(2025, 6, 17, 0, 0, 0, 0, time.UTC),
	}

	occs, err := Expand(anchor, time.UTC, horizon, 0)
	require.NoError(t, err)
	require.Len(t, occs, 7)

	for i, occ := range occs {
		assert.Equal(t, i, occ.Index)
		assert.Equal(t, 9, occ.Interval.Start.Hour())
		assert.Equal(t, time.Hour, occ.Interval.Duration())
	}
	assert.Equal(t, time.Date(2025, 6, 16, 9, 0, 0, 0, time.UTC), occs[6].Interval.Start)
}

func TestExpand_Weekly_AlignedToAnchorWeekday(t *testing.T) {
	// 2025-06-10 is a Tuesday
	start := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)
	anchor := anchorAt(start, start.Add(45*time.Minute), domain.RecurrenceWeekly)

	horizon := domain.Interval{
		Start: start,
		End:   time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC),
	}

	occs, err := Expand(anchor, time.UTC, horizon, 0)
	require.NoError(t, err)
	require.Len(t, occs, 5)

	for _, occ := range occs {
		assert.Equal(t, time.Tuesday, occ.Interval.Start.Weekday())
		assert.Equal(t, 14, occ.Interval.Start.Hour())
	}
}

func TestExpand_Monthly_SkipsShortMonths(t *testing.T) {
	// Anchor on Jan 31, horizon Jan-Apr: only Jan 31 and Mar 31 exist,
	// Feb and Apr are skipped without rolling forward
	start := time.Date(2025, 1, 31, 10, 0, 0, 0, time.UTC)
	anchor := anchorAt(start, start.Add(30*time.Minute), domain.RecurrenceMonthly)

	horizon := domain.Interval{
		Start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
	}

	occs, err := Expand(anchor, time.UTC, horizon, 0)
	require.NoError(t, err)
	require.Len(t, occs, 2)

	assert.Equal(t, time.Date(2025, 1, 31, 10, 0, 0, 0, time.UTC), occs[0].Interval.Start)
	assert.Equal(t, 0, occs[0].Index)
	assert.Equal(t, time.Date(2025, 3, 31, 10, 0, 0, 0, time.UTC), occs[1].Interval.Start)
	// Индекс = номер шага от якоря, поэтому пропущенный февраль не сдвигает март
	assert.Equal(t, 2, occs[1].Index)
}

func TestExpand_Monthly_RegularDay(t *testing.T) {
	start := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	anchor := anchorAt(start, start.Add(time.Hour), domain.RecurrenceMonthly)

	horizon := domain.Interval{
		Start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	}

	occs, err := Expand(anchor, time.UTC, horizon, 0)
	require.NoError(t, err)
	require.Len(t, occs, 6)
	for i, occ := range occs {
		assert.Equal(t, i, occ.Index)
		assert.Equal(t, 15, occ.Interval.Start.Day())
	}
}

func TestExpand_Daily_WallClockDurationAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// DST in the US starts on 2025-03-09: clocks jump from 02:00 to 03:00
	start := time.Date(2025, 3, 7, 10, 0, 0, 0, loc)
	anchor := anchorAt(start, start.Add(30*time.Minute), domain.RecurrenceDaily)

	horizon := domain.Interval{
		Start: start,
		End:   time.Date(2025, 3, 12, 0, 0, 0, 0, loc),
	}

	occs, err := Expand(anchor, loc, horizon, 0)
	require.NoError(t, err)
	require.Len(t, occs, 5)

	for _, occ := range occs {
		localStart := occ.Interval.Start.In(loc)
		localEnd := occ.Interval.End.In(loc)
		// Время по настенным часам не плывет через переход на летнее время
		assert.Equal(t, 10, localStart.Hour(), "start hour on %s", localStart.Format(domain.DateFormat))
		assert.Equal(t, 0, localStart.Minute())
		assert.Equal(t, 10, localEnd.Hour())
		assert.Equal(t, 30, localEnd.Minute())
	}
}

func TestExpand_Deterministic(t *testing.T) {
	start := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	anchor := anchorAt(start, start.Add(time.Hour), domain.RecurrenceWeekly)

	horizon := domain.Interval{
		Start: start,
		End:   time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
	}

	first, err := Expand(anchor, time.UTC, horizon, 0)
	require.NoError(t, err)
	second, err := Expand(anchor, time.UTC, horizon, 0)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestExpand_CappedByMaxOccurrences(t *testing.T) {
	start := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	anchor := anchorAt(start, start.Add(time.Hour), domain.RecurrenceDaily)

	horizon := domain.Interval{
		Start: start,
		End:   time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
	}

	occs, err := Expand(anchor, time.UTC, horizon, 10)
	require.NoError(t, err)
	assert.Len(t, occs, 10)
}

func TestExpand_InvalidInput(t *testing.T) {
	start := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	horizon := domain.Interval{Start: start, End: start.Add(24 * time.Hour)}

	// Якорь с нулевой длительностью
	badAnchor := anchorAt(start, start, domain.RecurrenceDaily)
	_, err := Expand(badAnchor, time.UTC, horizon, 0)
	assert.ErrorIs(t, err, ErrInvalidAnchor)

	// Горизонт с концом раньше начала
	goodAnchor := anchorAt(start, start.Add(time.Hour), domain.RecurrenceDaily)
	_, err = Expand(goodAnchor, time.UTC, domain.Interval{Start: start, End: start.Add(-time.Hour)}, 0)
	assert.ErrorIs(t, err, ErrInvalidHorizon)

	// Неизвестный шаблон
	weird := anchorAt(start, start.Add(time.Hour), domain.RecurrencePattern("yearly"))
	_, err = Expand(weird, time.UTC, horizon, 0)
	assert.ErrorIs(t, err, ErrUnknownPattern)
}
