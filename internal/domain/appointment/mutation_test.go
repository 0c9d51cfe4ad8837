package appointment

import (
	"errors"
	"testing"
	"time"

	"github.com/BruksfildServices01/practice-scheduler/internal/httperr"
	"github.com/BruksfildServices01/practice-scheduler/internal/models"
)

func weeklySeries(t *testing.T) []models.Appointment {
	t.Helper()

	base := Interval{Start: at(1, 9, 0), End: at(1, 10, 0)}
	series := ExpandSeries(ClientRef{ID: 5, Name: "Ana"}, base, FrequencyWeekly, 4, Template{UserID: 1}, fixedGroup("g-ana"))
	for i := range series {
		series[i].ID = uint(i + 1)
	}
	return series
}

func TestEditCoordinator_SeriesTimeOfDay(t *testing.T) {
	t.Parallel()

	series := weeklySeries(t)
	target := series[1]

	newStart, newEnd := at(8, 14, 0), at(8, 15, 0)
	color := "#10b981"
	co := NewEditCoordinator(target, Changes{StartTime: &newStart, EndTime: &newEnd, Color: &color}, brt)

	state, err := co.Submit()
	if err != nil || state != StatePendingScopeChoice {
		t.Fatalf("expected scope prompt, got %s (%v)", state, err)
	}
	if err := co.ChooseScope(ScopeSeries); err != nil {
		t.Fatalf("choose scope: %v", err)
	}

	planned, err := co.Plan(series, at(1, 0, 0))
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(planned) != len(series) {
		t.Fatalf("expected %d rows, got %d", len(series), len(planned))
	}

	for i, ap := range planned {
		if !SameDate(ap.StartTime, series[i].StartTime, brt) {
			t.Fatalf("sibling %d moved from %v to %v", i, series[i].StartTime, ap.StartTime)
		}
		if h, m, _ := ap.StartTime.In(brt).Clock(); h != 14 || m != 0 {
			t.Fatalf("sibling %d: start clock %02d:%02d", i, h, m)
		}
		if ap.EndTime.Sub(ap.StartTime) != time.Hour {
			t.Fatalf("sibling %d: duration %v", i, ap.EndTime.Sub(ap.StartTime))
		}
		if ap.Color != color {
			t.Fatalf("sibling %d: color not applied", i)
		}
		if ap.Title != "Ana" {
			t.Fatalf("sibling %d: title changed to %q", i, ap.Title)
		}
	}

	if co.Finish(nil) != StateDone {
		t.Fatal("expected done")
	}
}

func TestEditCoordinator_OccurrenceOnly(t *testing.T) {
	t.Parallel()

	series := weeklySeries(t)
	target := series[2]

	newStart, newEnd := at(15, 11, 0), at(15, 12, 0)
	co := NewEditCoordinator(target, Changes{StartTime: &newStart, EndTime: &newEnd}, brt)

	if state, _ := co.Submit(); state != StatePendingScopeChoice {
		t.Fatalf("expected scope prompt, got %s", state)
	}
	if err := co.ChooseScope(ScopeOccurrence); err != nil {
		t.Fatal(err)
	}

	planned, err := co.Plan(series, at(1, 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if len(planned) != 1 || planned[0].ID != target.ID {
		t.Fatalf("expected only the target, got %+v", planned)
	}
	if !planned[0].StartTime.Equal(newStart) || !planned[0].EndTime.Equal(newEnd) {
		t.Fatalf("unexpected interval %v-%v", planned[0].StartTime, planned[0].EndTime)
	}

	for i, sib := range weeklySeries(t) {
		if !series[i].StartTime.Equal(sib.StartTime) {
			t.Fatalf("sibling %d was mutated", i)
		}
	}
}

func TestEditCoordinator_DirectApply(t *testing.T) {
	t.Parallel()

	series := weeklySeries(t)

	t.Run("date move on a recurring member", func(t *testing.T) {
		newStart, newEnd := at(9, 9, 0), at(9, 10, 0)
		co := NewEditCoordinator(series[1], Changes{StartTime: &newStart, EndTime: &newEnd}, brt)
		state, err := co.Submit()
		if err != nil || state != StateApplying || co.Scope() != ScopeOccurrence {
			t.Fatalf("expected direct apply, got %s/%s (%v)", state, co.Scope(), err)
		}
	})

	t.Run("non time field on a recurring member", func(t *testing.T) {
		desc := "trazer exames"
		co := NewEditCoordinator(series[0], Changes{Description: &desc}, brt)
		if state, _ := co.Submit(); state != StateApplying {
			t.Fatalf("expected direct apply, got %s", state)
		}
	})

	t.Run("time change on a single appointment", func(t *testing.T) {
		single := NewDraft(Single(), &ClientRef{ID: 1, Name: "Rui"}, Interval{at(3, 9, 0), at(3, 10, 0)}, Template{})
		newStart, newEnd := at(3, 15, 0), at(3, 16, 0)
		co := NewEditCoordinator(single, Changes{StartTime: &newStart, EndTime: &newEnd}, brt)
		if state, _ := co.Submit(); state != StateApplying {
			t.Fatalf("expected direct apply, got %s", state)
		}
		if err := co.ChooseScope(ScopeSeries); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected invalid transition, got %v", err)
		}
	})

	t.Run("client change on a recurring member", func(t *testing.T) {
		other := uint(99)
		co := NewEditCoordinator(series[0], Changes{ClientID: &other}, brt)
		state, err := co.Submit()
		if state != StateFailed || !httperr.IsBusiness(err, "series_client_immutable") {
			t.Fatalf("expected failure, got %s (%v)", state, err)
		}
	})
}

func TestEditCoordinator_StatusAcrossSeries(t *testing.T) {
	t.Parallel()

	series := weeklySeries(t)
	newStart, newEnd := at(1, 10, 0), at(1, 11, 0)
	status := StatusConfirmed
	co := NewEditCoordinator(series[0], Changes{StartTime: &newStart, EndTime: &newEnd, Status: &status}, brt)

	co.Submit()
	if err := co.ChooseScope(ScopeSeries); err != nil {
		t.Fatal(err)
	}
	planned, err := co.Plan(series, at(1, 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	for i, ap := range planned {
		if ap.Status != string(StatusConfirmed) {
			t.Fatalf("sibling %d: status %s", i, ap.Status)
		}
	}
}

func TestEditCoordinator_SeriesKeepsTerminalStatus(t *testing.T) {
	t.Parallel()

	series := weeklySeries(t)
	series[0].Status = string(StatusCompleted)

	newStart, newEnd := at(8, 14, 0), at(8, 15, 0)
	status := StatusConfirmed
	co := NewEditCoordinator(series[1], Changes{StartTime: &newStart, EndTime: &newEnd, Status: &status}, brt)

	if state, err := co.Submit(); err != nil || state != StatePendingScopeChoice {
		t.Fatalf("expected a scope prompt, got %s/%v", state, err)
	}
	if err := co.ChooseScope(ScopeSeries); err != nil {
		t.Fatal(err)
	}

	planned, err := co.Plan(series, at(1, 0, 0))
	if err != nil {
		t.Fatalf("a completed sibling must not block the series edit: %v", err)
	}
	if len(planned) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(planned))
	}

	if planned[0].Status != string(StatusCompleted) {
		t.Fatalf("completed sibling was changed to %s", planned[0].Status)
	}
	if !planned[0].StartTime.Equal(at(1, 14, 0)) {
		t.Fatalf("completed sibling should still be retimed, got %v", planned[0].StartTime)
	}
	for i, ap := range planned[1:] {
		if ap.Status != string(StatusConfirmed) {
			t.Fatalf("sibling %d: status %s", i+1, ap.Status)
		}
	}

	kept := co.StatusKept()
	if len(kept) != 1 || kept[0] != series[0].ID {
		t.Fatalf("expected only %d to keep its status, got %v", series[0].ID, kept)
	}
}

func TestEditCoordinator_OccurrenceStatusStillGuarded(t *testing.T) {
	t.Parallel()

	single := models.Appointment{ID: 9, StartTime: at(3, 9, 0), EndTime: at(3, 10, 0), Status: string(StatusCancelled)}
	status := StatusConfirmed
	co := NewEditCoordinator(single, Changes{Status: &status}, brt)

	co.Submit()
	if _, err := co.Plan(nil, at(1, 0, 0)); !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("expected invalid_state, got %v", err)
	}
	if len(co.StatusKept()) != 0 {
		t.Fatal("occurrence edits never keep a status silently")
	}
}

func TestApplyTimeOfDay(t *testing.T) {
	t.Parallel()

	t.Run("keeps the date", func(t *testing.T) {
		s, e := ApplyTimeOfDay(at(22, 9, 0), at(1, 14, 30), at(1, 15, 20), brt)
		if !s.Equal(at(22, 14, 30)) || !e.Equal(at(22, 15, 20)) {
			t.Fatalf("got %v-%v", s, e)
		}
	})

	t.Run("rolls the end over midnight", func(t *testing.T) {
		s, e := ApplyTimeOfDay(at(22, 9, 0), at(1, 23, 0), at(2, 0, 30), brt)
		if !s.Equal(at(22, 23, 0)) || !e.Equal(at(23, 0, 30)) {
			t.Fatalf("got %v-%v", s, e)
		}
	})
}

func TestDeleteCoordinator(t *testing.T) {
	t.Parallel()

	series := weeklySeries(t)

	t.Run("series delete filters by group", func(t *testing.T) {
		co := NewDeleteCoordinator(series[2])
		if state, _ := co.Submit(); state != StatePendingScopeChoice {
			t.Fatalf("expected scope prompt, got %s", state)
		}
		if err := co.ChooseScope(ScopeSeries); err != nil {
			t.Fatal(err)
		}
		if co.State() != StatePendingFinancialChoice {
			t.Fatalf("expected financial prompt, got %s", co.State())
		}
		if err := co.ChooseFinancial(FinancialDelete); err != nil {
			t.Fatal(err)
		}

		plan, err := co.Plan()
		if err != nil {
			t.Fatal(err)
		}
		if plan.Filter.GroupID == nil || *plan.Filter.GroupID != "g-ana" || plan.Filter.ID != nil {
			t.Fatalf("unexpected filter %+v", plan.Filter)
		}
		if !plan.DeleteFinancial {
			t.Fatal("expected financial deletion")
		}

		if state, err := co.Finish(4, nil); state != StateDone || err != nil {
			t.Fatalf("expected done, got %s (%v)", state, err)
		}
	})

	t.Run("occurrence delete filters by id", func(t *testing.T) {
		co := NewDeleteCoordinator(series[2])
		co.Submit()
		co.ChooseScope(ScopeOccurrence)
		co.ChooseFinancial(FinancialKeep)

		plan, _ := co.Plan()
		if plan.Filter.ID == nil || *plan.Filter.ID != series[2].ID || plan.Filter.GroupID != nil {
			t.Fatalf("unexpected filter %+v", plan.Filter)
		}
		if plan.DeleteFinancial {
			t.Fatal("expected financial records to be kept")
		}
	})

	t.Run("single goes straight to the financial prompt", func(t *testing.T) {
		single := NewDraft(Single(), &ClientRef{ID: 1, Name: "Rui"}, Interval{at(3, 9, 0), at(3, 10, 0)}, Template{})
		single.ID = 40

		co := NewDeleteCoordinator(single)
		if state, _ := co.Submit(); state != StatePendingFinancialChoice {
			t.Fatalf("expected financial prompt, got %s", state)
		}
		if err := co.ChooseScope(ScopeSeries); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected invalid transition, got %v", err)
		}
	})

	t.Run("zero affected rows fails", func(t *testing.T) {
		single := NewDraft(Personal(), nil, Interval{at(3, 9, 0), at(3, 10, 0)}, Template{Title: "Academia"})
		single.ID = 41

		co := NewDeleteCoordinator(single)
		co.Submit()
		co.ChooseFinancial(FinancialKeep)
		co.Plan()

		state, err := co.Finish(0, nil)
		if state != StateFailed || !errors.Is(err, ErrNothingDeleted) {
			t.Fatalf("expected failure, got %s (%v)", state, err)
		}
	})

	t.Run("rejects unknown options", func(t *testing.T) {
		co := NewDeleteCoordinator(series[0])
		co.Submit()
		if err := co.ChooseScope("everything"); !httperr.IsBusiness(err, "invalid_scope") {
			t.Fatalf("expected invalid_scope, got %v", err)
		}
	})
}
