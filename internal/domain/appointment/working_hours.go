package appointment

import (
	"time"

	"github.com/BruksfildServices01/practice-scheduler/internal/models"
)

// IsWithinWorkingHours valida se um horário está dentro do expediente,
// incluindo pausa de almoço. Used only to warn; nothing is blocked by it.
func IsWithinWorkingHours(wh *models.WorkingHours, start, end time.Time) bool {
	if wh == nil || !wh.Active || wh.StartTime == "" || wh.EndTime == "" {
		return false
	}

	day := DayBounds(wh, start)
	if start.Before(day.Start) || end.After(day.End) {
		return false
	}

	if lunch, ok := LunchBounds(wh, start); ok {
		if (Interval{Start: start, End: end}).Overlaps(lunch) {
			return false
		}
	}

	return true
}

// DayBounds is the working day of wh on the calendar date of ref, in ref's location.
func DayBounds(wh *models.WorkingHours, ref time.Time) Interval {
	return Interval{
		Start: clockOn(ref, wh.StartTime),
		End:   clockOn(ref, wh.EndTime),
	}
}

func LunchBounds(wh *models.WorkingHours, ref time.Time) (Interval, bool) {
	if wh.LunchStart == "" || wh.LunchEnd == "" {
		return Interval{}, false
	}
	return Interval{
		Start: clockOn(ref, wh.LunchStart),
		End:   clockOn(ref, wh.LunchEnd),
	}, true
}

// ValidClock reports whether hm is a "15:04" clock time.
func ValidClock(hm string) bool {
	_, err := time.Parse("15:04", hm)
	return err == nil
}

func clockOn(ref time.Time, hm string) time.Time {
	t, _ := time.Parse("15:04", hm)
	return time.Date(
		ref.Year(), ref.Month(), ref.Day(),
		t.Hour(), t.Minute(), 0, 0,
		ref.Location(),
	)
}
