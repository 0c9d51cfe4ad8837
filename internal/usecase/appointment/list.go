package appointment

import (
	"context"
	"time"

	"github.com/teambition/rrule-go"

	domain "github.com/BruksfildServices01/practice-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/practice-scheduler/internal/dto"
	"github.com/BruksfildServices01/practice-scheduler/internal/httperr"
	"github.com/BruksfildServices01/practice-scheduler/internal/timezone"
)

// ======================================================
// BY DATE
// ======================================================

type ListAppointmentsByDate struct {
	repo domain.Repository
}

func NewListAppointmentsByDate(repo domain.Repository) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{repo: repo}
}

// Execute lists the appointments of the calendar date "2006-01-02" in the user's timezone.
func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	userID uint,
	date string,
) ([]dto.AppointmentListDTO, error) {

	user, err := uc.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user_not_found")
	}

	loc := timezone.Location(user.Timezone)
	day, err := timezone.ParseDate(date, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	start, end := timezone.DayRange(day, loc)

	appointments, err := uc.repo.ListAppointmentsForPeriod(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	return dto.NewAppointmentList(appointments), nil
}

// ======================================================
// BY MONTH
// ======================================================

type ListAppointmentsByMonth struct {
	repo domain.Repository
}

func NewListAppointmentsByMonth(repo domain.Repository) *ListAppointmentsByMonth {
	return &ListAppointmentsByMonth{repo: repo}
}

func (uc *ListAppointmentsByMonth) Execute(
	ctx context.Context,
	userID uint,
	year int,
	month int,
) ([]dto.AppointmentListDTO, error) {

	if year < 2000 || year > 2100 {
		return nil, httperr.ErrBusiness("invalid_year")
	}
	if month < 1 || month > 12 {
		return nil, httperr.ErrBusiness("invalid_month")
	}

	user, err := uc.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user_not_found")
	}

	start, end := timezone.MonthRange(year, time.Month(month), timezone.Location(user.Timezone))

	appointments, err := uc.repo.ListAppointmentsForPeriod(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	return dto.NewAppointmentList(appointments), nil
}

// ======================================================
// SERIES
// ======================================================

type SeriesView struct {
	GroupID      string                   `json:"recurrence_group_id"`
	Frequency    string                   `json:"frequency"`
	RRule        string                   `json:"rrule,omitempty"`
	Count        int                      `json:"count"`
	Appointments []dto.AppointmentListDTO `json:"appointments"`
}

type GetSeries struct {
	repo domain.Repository
}

func NewGetSeries(repo domain.Repository) *GetSeries {
	return &GetSeries{repo: repo}
}

func (uc *GetSeries) Execute(ctx context.Context, userID uint, groupID string) (*SeriesView, error) {
	members, err := uc.repo.ListSeries(ctx, userID, groupID)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, httperr.ErrBusiness("series_not_found")
	}

	view := &SeriesView{
		GroupID:      groupID,
		Frequency:    members[0].RecurrenceFrequency,
		Count:        len(members),
		Appointments: dto.NewAppointmentList(members),
	}

	if freq, err := domain.ParseFrequency(view.Frequency); err == nil {
		view.RRule = SeriesRRule(freq, members[0].StartTime, len(members))
	}

	return view, nil
}

// SeriesRRule describes a series as an RFC 5545 rule (without DTSTART).
// Empty when the rule cannot be built.
func SeriesRRule(freq domain.Frequency, start time.Time, count int) string {
	opt := rrule.ROption{
		Interval: freq.Interval(),
		Count:    count,
		Dtstart:  start,
	}
	switch freq {
	case domain.FrequencyWeekly, domain.FrequencyBiweekly:
		opt.Freq = rrule.WEEKLY
	case domain.FrequencyMonthly:
		opt.Freq = rrule.MONTHLY
	default:
		return ""
	}

	r, err := rrule.NewRRule(opt)
	if err != nil {
		return ""
	}
	return r.OrigOptions.RRuleString()
}

// ======================================================
// AVAILABILITY
// ======================================================

type GetAvailability struct {
	repo domain.Repository
	now  Clock
}

func NewGetAvailability(repo domain.Repository, now Clock) *GetAvailability {
	return &GetAvailability{repo: repo, now: now}
}

// Execute returns the free slots of duration minutes on date ("2006-01-02").
// A zero duration uses the user's default session length.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	userID uint,
	date string,
	durationMin int,
) ([]domain.TimeSlot, error) {

	scope, err := LoadScope(ctx, uc.repo, userID, uc.now)
	if err != nil {
		return nil, err
	}

	day, err := timezone.ParseDate(date, scope.Location)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	if durationMin <= 0 {
		durationMin = scope.User.SessionMin
	}
	if durationMin <= 0 {
		durationMin = defaultSessionMinutes
	}

	wh, ok := scope.WorkingHours[day.Weekday()]
	if !ok || !wh.Active {
		return []domain.TimeSlot{}, nil
	}

	start, end := timezone.DayRange(day, scope.Location)
	busy, err := uc.repo.ListOverlapping(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	return domain.FreeSlots(wh, day, time.Duration(durationMin)*time.Minute, busy), nil
}
