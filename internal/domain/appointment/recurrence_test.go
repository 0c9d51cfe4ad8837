package appointment

import (
	"testing"
	"time"
)

var brt = time.FixedZone("BRT", -3*60*60)

func TestNthOccurrence(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, time.January, 1, 9, 0, 0, 0, brt)
	end := start.Add(time.Hour)

	t.Run("index zero returns the base interval", func(t *testing.T) {
		for _, freq := range []Frequency{FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly} {
			s, e := NthOccurrence(start, end, freq, 0)
			if !s.Equal(start) || !e.Equal(end) {
				t.Fatalf("%s: expected base interval, got %v-%v", freq, s, e)
			}
		}
	})

	t.Run("weekly adds whole weeks to both ends", func(t *testing.T) {
		for i := 0; i < 6; i++ {
			s, e := NthOccurrence(start, end, FrequencyWeekly, i)
			wantStart := start.AddDate(0, 0, 7*i)
			if !s.Equal(wantStart) {
				t.Fatalf("index %d: expected start %v, got %v", i, wantStart, s)
			}
			if e.Sub(s) != time.Hour {
				t.Fatalf("index %d: expected one hour, got %v", i, e.Sub(s))
			}
		}
	})

	t.Run("biweekly advances only the start", func(t *testing.T) {
		s, e := NthOccurrence(start, end, FrequencyBiweekly, 1)
		if want := time.Date(2024, time.January, 15, 9, 0, 0, 0, brt); !s.Equal(want) {
			t.Fatalf("expected start %v, got %v", want, s)
		}
		if !e.Equal(end) {
			t.Fatalf("expected end to stay at %v, got %v", end, e)
		}
		if e.After(s) {
			t.Fatalf("expected a non-positive duration, got %v", e.Sub(s))
		}
	})

	t.Run("monthly from the 31st follows day overflow", func(t *testing.T) {
		base := time.Date(2024, time.January, 31, 9, 0, 0, 0, brt)
		baseEnd := base.Add(time.Hour)

		want := []time.Time{
			time.Date(2024, time.January, 31, 9, 0, 0, 0, brt),
			time.Date(2024, time.March, 2, 9, 0, 0, 0, brt),
			time.Date(2024, time.March, 31, 9, 0, 0, 0, brt),
			time.Date(2024, time.May, 1, 9, 0, 0, 0, brt),
		}
		for i, w := range want {
			s, e := NthOccurrence(base, baseEnd, FrequencyMonthly, i)
			if !s.Equal(w) {
				t.Fatalf("index %d: expected %v, got %v", i, w, s)
			}
			if e.Sub(s) != time.Hour {
				t.Fatalf("index %d: expected one hour, got %v", i, e.Sub(s))
			}
		}
	})

	t.Run("is deterministic", func(t *testing.T) {
		s1, e1 := NthOccurrence(start, end, FrequencyMonthly, 5)
		s2, e2 := NthOccurrence(start, end, FrequencyMonthly, 5)
		if !s1.Equal(s2) || !e1.Equal(e2) {
			t.Fatal("expected identical results for identical inputs")
		}
	})
}

func TestParseFrequency(t *testing.T) {
	t.Parallel()

	for _, v := range []string{"weekly", "biweekly", "monthly"} {
		if _, err := ParseFrequency(v); err != nil {
			t.Fatalf("expected %q to parse: %v", v, err)
		}
	}
	if _, err := ParseFrequency("daily"); err == nil {
		t.Fatal("expected an error for daily")
	}
	if FrequencyBiweekly.Interval() != 2 || FrequencyWeekly.Interval() != 1 {
		t.Fatal("unexpected frequency intervals")
	}
}
