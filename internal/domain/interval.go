package domain

import (
	"fmt"
	"time"
)

// Interval is a half-open time interval [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval builds an interval from a start instant and a duration
func NewInterval(start time.Time, d time.Duration) Interval {
	return Interval{Start: start, End: start.Add(d)}
}

// IsValid returns true if the interval has positive length
func (i Interval) IsValid() bool {
	return i.End.After(i.Start)
}

// Overlaps returns true if the two half-open intervals share any instant.
// Touching boundaries (one ends exactly where the other starts) do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Contains returns true if t lies within [Start, End)
func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

// Duration returns the absolute length of the interval
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

func (i Interval) String() string {
	return fmt.Sprintf("[%s, %s)", i.Start.Format(time.RFC3339), i.End.Format(time.RFC3339))
}

// Occurrence is one concrete interval derived from a recurring anchor booking.
// Occurrences are computed values keyed by (AnchorID, Index); they are never
// stored or linked back to the anchor.
type Occurrence struct {
	AnchorID string
	Index    int
	Interval Interval
}

// Ref returns the stable reservation reference of the occurrence
func (o Occurrence) Ref() string {
	return fmt.Sprintf("%s#%d", o.AnchorID, o.Index)
}
