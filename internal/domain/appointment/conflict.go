package appointment

import (
	"time"

	"github.com/BruksfildServices01/practice-scheduler/internal/models"
)

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps uses the half-open test: touching endpoints do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && i.End.After(other.Start)
}

func IntervalOf(ap *models.Appointment) Interval {
	return Interval{Start: ap.StartTime, End: ap.EndTime}
}

// FindConflict returns the first appointment in existing (input order) whose
// interval overlaps candidate, skipping excludeID. Conflicts are advisory:
// callers surface them as warnings and never block the submission.
func FindConflict(candidate Interval, existing []models.Appointment, excludeID *uint) *models.Appointment {
	for i := range existing {
		ap := &existing[i]
		if excludeID != nil && ap.ID == *excludeID {
			continue
		}
		if candidate.Overlaps(IntervalOf(ap)) {
			return ap
		}
	}
	return nil
}

// Occurrence is a series member with the interval it would move to.
type Occurrence struct {
	ID       uint
	Interval Interval
}

type SeriesConflict struct {
	OccurrenceID uint                `json:"occurrence_id"`
	Candidate    Interval            `json:"candidate"`
	Conflicting  *models.Appointment `json:"conflicting"`
}

// FindSeriesConflicts is the strict variant used before a series-wide time change:
// each occurrence's new interval is checked against every appointment outside
// the series that falls on the same calendar date (in loc), and all conflicts
// are collected.
func FindSeriesConflicts(
	occurrences []Occurrence,
	existing []models.Appointment,
	groupID string,
	loc *time.Location,
) []SeriesConflict {

	if loc == nil {
		loc = time.UTC
	}

	var out []SeriesConflict
	for _, occ := range occurrences {
		for i := range existing {
			ap := &existing[i]
			if ap.ID == occ.ID {
				continue
			}
			if ap.RecurrenceGroupID != nil && *ap.RecurrenceGroupID == groupID {
				continue
			}
			if !SameDate(ap.StartTime, occ.Interval.Start, loc) {
				continue
			}
			if occ.Interval.Overlaps(IntervalOf(ap)) {
				out = append(out, SeriesConflict{
					OccurrenceID: occ.ID,
					Candidate:    occ.Interval,
					Conflicting:  ap,
				})
			}
		}
	}
	return out
}

func SameDate(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
