package calendarfeed

import (
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/BruksfildServices01/practice-scheduler/internal/models"
)

func TestRender(t *testing.T) {
	now := time.Date(2024, time.March, 11, 12, 0, 0, 0, time.UTC)
	start := time.Date(2024, time.March, 12, 13, 0, 0, 0, time.UTC)

	user := &models.User{Name: "Lia", PracticeName: "Consultório Lia"}
	apps := []models.Appointment{
		{ID: 1, Title: "Ana", StartTime: start, EndTime: start.Add(50 * time.Minute), Status: "confirmed", AppointmentType: "appointment"},
		{ID: 2, StartTime: start.Add(2 * time.Hour), EndTime: start.Add(3 * time.Hour), Status: "scheduled", AppointmentType: "block"},
		{ID: 3, Title: "Bruno", StartTime: start.Add(4 * time.Hour), EndTime: start.Add(5 * time.Hour), Status: "cancelled", AppointmentType: "appointment", IsOnline: true, OnlineURL: "https://meet.example/b"},
	}

	out := Render(user, apps, now)

	cal, err := ical.ParseCalendar(strings.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}

	events := cal.Events()
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}

	summaries := map[string]string{}
	for _, ev := range events {
		uid := ev.GetProperty(ical.ComponentPropertyUniqueId).Value
		summaries[uid] = ev.GetProperty(ical.ComponentPropertySummary).Value
	}
	if summaries["appointment-2@practice-scheduler"] != "Bloqueado" {
		t.Fatalf("unexpected block summary %q", summaries["appointment-2@practice-scheduler"])
	}

	if !strings.Contains(out, "STATUS:CANCELLED") || !strings.Contains(out, "Consultório Lia") {
		t.Fatalf("unexpected calendar:\n%s", out)
	}
}
