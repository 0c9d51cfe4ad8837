package appointment

import (
	"time"

	"github.com/BruksfildServices01/practice-scheduler/internal/models"
)

type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// FreeSlots walks the working day of date in steps of duration and keeps every
// slot that misses lunch and every appointment in busy. busy need not be sorted.
func FreeSlots(wh *models.WorkingHours, date time.Time, duration time.Duration, busy []models.Appointment) []TimeSlot {
	slots := []TimeSlot{}
	if wh == nil || !wh.Active || duration <= 0 {
		return slots
	}

	day := DayBounds(wh, date)
	lunch, hasLunch := LunchBounds(wh, date)

	for cur := day.Start; !cur.Add(duration).After(day.End); cur = cur.Add(duration) {
		slot := Interval{Start: cur, End: cur.Add(duration)}

		// almoço
		if hasLunch && slot.Overlaps(lunch) {
			continue
		}
		if FindConflict(slot, busy, nil) != nil {
			continue
		}

		slots = append(slots, TimeSlot{
			Start: slot.Start.Format("15:04"),
			End:   slot.End.Format("15:04"),
		})
	}

	return slots
}
