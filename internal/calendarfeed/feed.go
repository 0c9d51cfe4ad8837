package calendarfeed

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	domain "github.com/BruksfildServices01/practice-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/practice-scheduler/internal/models"
)

const productID = "-//practice-scheduler//agenda//PT-BR"

// Window is how far back and ahead a subscribed feed reaches.
var (
	PastWindow   = 30 * 24 * time.Hour
	FutureWindow = 180 * 24 * time.Hour
)

// Render builds a read-only ICS calendar of the professional's appointments.
func Render(user *models.User, apps []models.Appointment, now time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	cal.SetName(calendarName(user))
	if user.Timezone != "" {
		cal.SetXWRTimezone(user.Timezone)
	}

	for i := range apps {
		addEvent(cal, &apps[i], now)
	}

	return cal.Serialize()
}

func addEvent(cal *ical.Calendar, ap *models.Appointment, now time.Time) {
	ev := cal.AddEvent(fmt.Sprintf("appointment-%d@practice-scheduler", ap.ID))
	ev.SetDtStampTime(now)
	ev.SetCreatedTime(ap.CreatedAt)
	ev.SetModifiedAt(ap.UpdatedAt)
	ev.SetStartAt(ap.StartTime)
	ev.SetEndAt(ap.EndTime)
	ev.SetSummary(summary(ap))

	if ap.Description != "" {
		ev.SetDescription(ap.Description)
	}
	if ap.IsOnline && ap.OnlineURL != "" {
		ev.SetLocation("Online")
		ev.SetURL(ap.OnlineURL)
	}

	switch domain.Status(ap.Status) {
	case domain.StatusCancelled:
		ev.SetStatus(ical.ObjectStatusCancelled)
	case domain.StatusConfirmed, domain.StatusCompleted:
		ev.SetStatus(ical.ObjectStatusConfirmed)
	default:
		ev.SetStatus(ical.ObjectStatusTentative)
	}
}

func summary(ap *models.Appointment) string {
	switch domain.KindOf(ap).AppointmentType() {
	case domain.TypeBlock:
		if ap.Title == "" {
			return "Bloqueado"
		}
	case domain.TypePersonal:
		if ap.Title == "" {
			return "Compromisso pessoal"
		}
	}
	if ap.Title == "" && ap.Client != nil {
		return ap.Client.Name
	}
	return ap.Title
}

func calendarName(user *models.User) string {
	if user.PracticeName != "" {
		return user.PracticeName
	}
	return "Agenda - " + user.Name
}
