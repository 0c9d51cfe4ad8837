package appointment

import (
	"testing"
	"time"

	"github.com/BruksfildServices01/practice-scheduler/internal/models"
)

func at(day, hour, minute int) time.Time {
	return time.Date(2024, time.January, day, hour, minute, 0, 0, brt)
}

func booked(id uint, start, end time.Time) models.Appointment {
	return models.Appointment{ID: id, StartTime: start, EndTime: end, Status: string(StatusScheduled)}
}

func TestFindConflict(t *testing.T) {
	t.Parallel()

	existing := []models.Appointment{booked(1, at(1, 9, 0), at(1, 10, 0))}

	tests := map[string]struct {
		candidate Interval
		exclude   *uint
		wantID    uint
	}{
		"touching at the end":   {candidate: Interval{at(1, 10, 0), at(1, 11, 0)}},
		"touching at the start": {candidate: Interval{at(1, 8, 0), at(1, 9, 0)}},
		"partial overlap":       {candidate: Interval{at(1, 9, 30), at(1, 10, 30)}, wantID: 1},
		"contained":             {candidate: Interval{at(1, 9, 15), at(1, 9, 45)}, wantID: 1},
		"containing":            {candidate: Interval{at(1, 8, 0), at(1, 11, 0)}, wantID: 1},
		"other day":             {candidate: Interval{at(2, 9, 0), at(2, 10, 0)}},
		"excluded self":         {candidate: Interval{at(1, 9, 0), at(1, 10, 0)}, exclude: ptr(uint(1))},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			got := FindConflict(tc.candidate, existing, tc.exclude)
			if tc.wantID == 0 {
				if got != nil {
					t.Fatalf("expected no conflict, got %d", got.ID)
				}
				return
			}
			if got == nil || got.ID != tc.wantID {
				t.Fatalf("expected conflict with %d, got %v", tc.wantID, got)
			}
		})
	}
}

func TestFindConflict_ReturnsFirstInInputOrder(t *testing.T) {
	t.Parallel()

	existing := []models.Appointment{
		booked(7, at(1, 9, 30), at(1, 10, 30)),
		booked(3, at(1, 9, 0), at(1, 10, 0)),
	}
	got := FindConflict(Interval{at(1, 9, 0), at(1, 10, 0)}, existing, nil)
	if got == nil || got.ID != 7 {
		t.Fatalf("expected the first listed overlap (7), got %v", got)
	}
}

func TestFindSeriesConflicts(t *testing.T) {
	t.Parallel()

	group := "g-1"
	other := "g-2"

	sibling := booked(10, at(8, 9, 0), at(8, 10, 0))
	sibling.RecurrenceGroupID = &group

	otherSeries := booked(20, at(8, 14, 0), at(8, 15, 0))
	otherSeries.RecurrenceGroupID = &other

	existing := []models.Appointment{
		sibling,
		otherSeries,
		booked(21, at(1, 14, 30), at(1, 15, 30)),
		booked(22, at(15, 16, 0), at(15, 17, 0)),
		booked(23, at(22, 13, 0), at(22, 14, 0)),
	}

	occurrences := []Occurrence{
		{ID: 9, Interval: Interval{at(1, 14, 0), at(1, 15, 0)}},
		{ID: 10, Interval: Interval{at(8, 14, 0), at(8, 15, 0)}},
		{ID: 11, Interval: Interval{at(15, 14, 0), at(15, 15, 0)}},
		{ID: 12, Interval: Interval{at(22, 14, 0), at(22, 15, 0)}},
	}

	got := FindSeriesConflicts(occurrences, existing, group, brt)
	if len(got) != 2 {
		t.Fatalf("expected 2 conflicts, got %d: %+v", len(got), got)
	}
	if got[0].OccurrenceID != 9 || got[0].Conflicting.ID != 21 {
		t.Fatalf("unexpected first conflict %+v", got[0])
	}
	if got[1].OccurrenceID != 10 || got[1].Conflicting.ID != 20 {
		t.Fatalf("unexpected second conflict %+v", got[1])
	}
}

func TestSameDate_UsesLocation(t *testing.T) {
	t.Parallel()

	// 23:30 BRT is already the next day in UTC.
	a := time.Date(2024, time.January, 1, 23, 30, 0, 0, brt)
	b := time.Date(2024, time.January, 1, 8, 0, 0, 0, brt)

	if !SameDate(a, b, brt) {
		t.Fatal("expected same date in BRT")
	}
	if SameDate(a, b, time.UTC) {
		t.Fatal("expected different dates in UTC")
	}
}

func ptr[T any](v T) *T { return &v }
