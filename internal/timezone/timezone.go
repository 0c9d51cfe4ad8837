package timezone

import (
	"sync"
	"time"
	_ "time/tzdata"
)

const DefaultTimezone = "America/Sao_Paulo"

var (
	mu       sync.RWMutex
	fallback = DefaultTimezone
)

// SetDefault changes the zone used when a user has none (or an invalid one).
func SetDefault(tz string) {
	if !IsValid(tz) {
		return
	}
	mu.Lock()
	fallback = tz
	mu.Unlock()
}

func Default() string {
	mu.RLock()
	defer mu.RUnlock()
	return fallback
}

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	if loc, err := time.LoadLocation(Default()); err == nil {
		return loc
	}
	return time.UTC
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// ParseDate reads "2006-01-02" as midnight in loc.
func ParseDate(v string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", v, loc)
}

// DayRange returns [00:00, next 00:00) of t's calendar date in loc.
func DayRange(t time.Time, loc *time.Location) (time.Time, time.Time) {
	y, m, d := t.In(loc).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

func MonthRange(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}
