package appointment

import (
	"errors"
	"fmt"
	"time"

	"github.com/BruksfildServices01/practice-scheduler/internal/httperr"
	"github.com/BruksfildServices01/practice-scheduler/internal/models"
)

// Scope answers "this occurrence or the whole series?".
type Scope string

const (
	ScopeOccurrence Scope = "occurrence"
	ScopeSeries     Scope = "series"
)

func ParseScope(v string) (Scope, bool) {
	switch s := Scope(v); s {
	case ScopeOccurrence, ScopeSeries:
		return s, true
	}
	return "", false
}

// Financial is the disposition of payments linked to deleted appointments.
type Financial string

const (
	FinancialKeep   Financial = "keep"
	FinancialDelete Financial = "delete"
)

func ParseFinancial(v string) (Financial, bool) {
	switch f := Financial(v); f {
	case FinancialKeep, FinancialDelete:
		return f, true
	}
	return "", false
}

type State string

const (
	StateIdle                   State = "idle"
	StatePendingScopeChoice     State = "pending_scope_choice"
	StatePendingFinancialChoice State = "pending_financial_choice"
	StateApplying               State = "applying"
	StateDone                   State = "done"
	StateFailed                 State = "failed"
)

var (
	ErrInvalidTransition = errors.New("appointment: invalid coordinator transition")
	ErrNothingDeleted    = httperr.ErrBusiness("appointment_not_found")
	ErrSeriesClient      = httperr.ErrBusiness("series_client_immutable")
)

// Changes is a partial edit; nil fields are left untouched.
type Changes struct {
	StartTime   *time.Time
	EndTime     *time.Time
	ClientID    *uint
	Title       *string
	Description *string
	Color       *string
	Status      *Status
	Price       *float64
	IsOnline    *bool
	OnlineURL   *string
}

// ==================================================
// EDIT
// ==================================================

// EditCoordinator walks one edit through Idle → [PendingScopeChoice] → Applying → Done|Failed.
type EditCoordinator struct {
	state      State
	target     models.Appointment
	changes    Changes
	loc        *time.Location
	scope      Scope
	statusKept []uint
}

func NewEditCoordinator(target models.Appointment, changes Changes, loc *time.Location) *EditCoordinator {
	if loc == nil {
		loc = time.UTC
	}
	return &EditCoordinator{
		state:   StateIdle,
		target:  target,
		changes: changes,
		loc:     loc,
	}
}

func (e *EditCoordinator) State() State { return e.state }
func (e *EditCoordinator) Scope() Scope { return e.scope }

// StatusKept lists the siblings of a series edit whose status could not take
// the requested change and was left as it was.
func (e *EditCoordinator) StatusKept() []uint { return e.statusKept }

// NewInterval is the target's interval after the edit.
func (e *EditCoordinator) NewInterval() Interval {
	iv := IntervalOf(&e.target)
	if e.changes.StartTime != nil {
		iv.Start = *e.changes.StartTime
	}
	if e.changes.EndTime != nil {
		iv.End = *e.changes.EndTime
	}
	return iv
}

// TimeOfDayChanged reports a change of the clock time on the same calendar date.
// A date change is a single occurrence move and never asks for a scope.
func (e *EditCoordinator) TimeOfDayChanged() bool {
	next := e.NewInterval()
	if !SameDate(next.Start, e.target.StartTime, e.loc) {
		return false
	}
	return clockOf(next.Start, e.loc) != clockOf(e.target.StartTime, e.loc) ||
		clockOf(next.End, e.loc) != clockOf(e.target.EndTime, e.loc)
}

// Submit leaves Idle: recurring members whose time of day changed wait for a scope.
func (e *EditCoordinator) Submit() (State, error) {
	if e.state != StateIdle {
		return e.state, ErrInvalidTransition
	}

	kind := KindOf(&e.target)
	if kind.IsRecurring() && e.changes.ClientID != nil &&
		(e.target.ClientID == nil || *e.changes.ClientID != *e.target.ClientID) {
		e.state = StateFailed
		return e.state, ErrSeriesClient
	}

	if kind.IsRecurring() && e.TimeOfDayChanged() {
		e.state = StatePendingScopeChoice
		return e.state, nil
	}

	e.scope = ScopeOccurrence
	e.state = StateApplying
	return e.state, nil
}

func (e *EditCoordinator) ChooseScope(scope Scope) error {
	if e.state != StatePendingScopeChoice {
		return ErrInvalidTransition
	}
	if _, ok := ParseScope(string(scope)); !ok {
		return httperr.ErrBusiness("invalid_scope")
	}
	e.scope = scope
	e.state = StateApplying
	return nil
}

// Plan returns the rows to persist. For the series scope every sibling keeps
// its own calendar date, takes the new time of day and the shared field changes.
// Siblings must include the target itself.
func (e *EditCoordinator) Plan(siblings []models.Appointment, now time.Time) ([]models.Appointment, error) {
	if e.state != StateApplying {
		return nil, ErrInvalidTransition
	}

	if e.scope == ScopeOccurrence {
		ap := e.target
		next := e.NewInterval()
		ap.StartTime, ap.EndTime = next.Start, next.End
		if e.changes.ClientID != nil {
			id := *e.changes.ClientID
			ap.ClientID = &id
			ap.Client = nil
		}
		if e.changes.Title != nil {
			ap.Title = *e.changes.Title
		}
		if err := e.applyShared(&ap, now, false); err != nil {
			return nil, err
		}
		return []models.Appointment{ap}, nil
	}

	groupID, _ := KindOf(&e.target).GroupID()
	next := e.NewInterval()

	e.statusKept = nil
	out := make([]models.Appointment, 0, len(siblings))
	for _, sib := range siblings {
		if sib.RecurrenceGroupID == nil || *sib.RecurrenceGroupID != groupID {
			return nil, fmt.Errorf("appointment: %d is not a member of series %s", sib.ID, groupID)
		}
		sib.StartTime, sib.EndTime = ApplyTimeOfDay(sib.StartTime, next.Start, next.End, e.loc)
		if err := e.applyShared(&sib, now, true); err != nil {
			return nil, err
		}
		out = append(out, sib)
	}
	return out, nil
}

// Finish records the outcome of the persistence step.
func (e *EditCoordinator) Finish(err error) State {
	if e.state != StateApplying {
		return e.state
	}
	if err != nil {
		e.state = StateFailed
	} else {
		e.state = StateDone
	}
	return e.state
}

// applyShared copies the fields every sibling shares. With keepLocked a
// sibling in a terminal status keeps it instead of failing the whole plan.
func (e *EditCoordinator) applyShared(ap *models.Appointment, now time.Time, keepLocked bool) error {
	ch := e.changes
	if ch.Description != nil {
		ap.Description = *ch.Description
	}
	if ch.Color != nil {
		ap.Color = *ch.Color
	}
	if ch.Price != nil {
		price := *ch.Price
		ap.Price = &price
	}
	if ch.IsOnline != nil {
		ap.IsOnline = *ch.IsOnline
	}
	if ch.OnlineURL != nil {
		ap.OnlineURL = *ch.OnlineURL
	}
	if ch.Status != nil {
		err := ChangeStatus(ap, *ch.Status, now)
		if err != nil && keepLocked && ch.Status.Valid() {
			e.statusKept = append(e.statusKept, ap.ID)
			return nil
		}
		return err
	}
	return nil
}

// ApplyTimeOfDay keeps the calendar date of dateSource and takes the clock
// times of newStart/newEnd. An end clock at or before the start clock rolls
// over to the following day.
func ApplyTimeOfDay(dateSource, newStart, newEnd time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := dateSource.In(loc).Date()

	sh, sm, ss := newStart.In(loc).Clock()
	eh, em, es := newEnd.In(loc).Clock()

	start := time.Date(y, m, d, sh, sm, ss, 0, loc)
	end := time.Date(y, m, d, eh, em, es, 0, loc)
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}
	return start, end
}

func clockOf(t time.Time, loc *time.Location) int {
	h, m, s := t.In(loc).Clock()
	return h*3600 + m*60 + s
}

// ==================================================
// DELETE
// ==================================================

// DeleteFilter selects rows by exact id or by recurrence group.
type DeleteFilter struct {
	ID      *uint
	GroupID *string
}

type DeletePlan struct {
	Filter          DeleteFilter
	DeleteFinancial bool
}

// DeleteCoordinator walks Idle → [PendingScopeChoice] → PendingFinancialChoice → Applying → Done|Failed.
type DeleteCoordinator struct {
	state     State
	target    models.Appointment
	scope     Scope
	financial Financial
}

func NewDeleteCoordinator(target models.Appointment) *DeleteCoordinator {
	return &DeleteCoordinator{state: StateIdle, target: target}
}

func (d *DeleteCoordinator) State() State { return d.state }
func (d *DeleteCoordinator) Scope() Scope { return d.scope }

func (d *DeleteCoordinator) Submit() (State, error) {
	if d.state != StateIdle {
		return d.state, ErrInvalidTransition
	}
	if KindOf(&d.target).IsRecurring() {
		d.state = StatePendingScopeChoice
		return d.state, nil
	}
	d.scope = ScopeOccurrence
	d.state = StatePendingFinancialChoice
	return d.state, nil
}

func (d *DeleteCoordinator) ChooseScope(scope Scope) error {
	if d.state != StatePendingScopeChoice {
		return ErrInvalidTransition
	}
	if _, ok := ParseScope(string(scope)); !ok {
		return httperr.ErrBusiness("invalid_scope")
	}
	d.scope = scope
	d.state = StatePendingFinancialChoice
	return nil
}

func (d *DeleteCoordinator) ChooseFinancial(f Financial) error {
	if d.state != StatePendingFinancialChoice {
		return ErrInvalidTransition
	}
	if _, ok := ParseFinancial(string(f)); !ok {
		return httperr.ErrBusiness("invalid_financial_option")
	}
	d.financial = f
	d.state = StateApplying
	return nil
}

func (d *DeleteCoordinator) Plan() (DeletePlan, error) {
	if d.state != StateApplying {
		return DeletePlan{}, ErrInvalidTransition
	}

	plan := DeletePlan{DeleteFinancial: d.financial == FinancialDelete}
	if groupID, ok := KindOf(&d.target).GroupID(); ok && d.scope == ScopeSeries {
		plan.Filter.GroupID = &groupID
	} else {
		id := d.target.ID
		plan.Filter.ID = &id
	}
	return plan, nil
}

// Finish treats zero affected rows as a failure.
func (d *DeleteCoordinator) Finish(affected int64, err error) (State, error) {
	if d.state != StateApplying {
		return d.state, ErrInvalidTransition
	}
	if err == nil && affected == 0 {
		err = ErrNothingDeleted
	}
	if err != nil {
		d.state = StateFailed
		return d.state, err
	}
	d.state = StateDone
	return d.state, nil
}
