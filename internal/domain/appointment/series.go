package appointment

import (
	"github.com/google/uuid"

	"github.com/BruksfildServices01/practice-scheduler/internal/domain/payment"
	"github.com/BruksfildServices01/practice-scheduler/internal/models"
)

type ClientRef struct {
	ID   uint
	Name string
}

// Template carries the form fields copied onto every generated appointment.
type Template struct {
	UserID      uint
	ServiceID   *uint
	Title       string
	Description string
	Color       string
	IsOnline    bool
	OnlineURL   string
	Price       *float64
	Status      Status
}

// GroupIDFunc generates recurrence group identifiers.
type GroupIDFunc func() string

func NewGroupID() string {
	return uuid.NewString()
}

// NewDraft builds one non-recurring appointment row of the given kind.
func NewDraft(kind Kind, client *ClientRef, base Interval, tpl Template) models.Appointment {
	ap := fromTemplate(tpl, base)
	if client != nil && kind.RequiresClient() {
		id := client.ID
		ap.ClientID = &id
		if ap.Title == "" {
			ap.Title = client.Name
		}
	}
	kind.Apply(&ap)
	return ap
}

// ExpandSeries produces exactly count drafts, index 0 being the base interval,
// all sharing one freshly generated recurrence group. Recurring appointments
// always display the client's name as title.
func ExpandSeries(
	client ClientRef,
	base Interval,
	freq Frequency,
	count int,
	tpl Template,
	newGroupID GroupIDFunc,
) []models.Appointment {

	if count <= 0 {
		return nil
	}
	if newGroupID == nil {
		newGroupID = NewGroupID
	}

	kind := Recurring(newGroupID())
	drafts := make([]models.Appointment, 0, count)

	for i := 0; i < count; i++ {
		start, end := NthOccurrence(base.Start, base.End, freq, i)

		ap := fromTemplate(tpl, Interval{Start: start, End: end})
		clientID := client.ID
		ap.ClientID = &clientID
		ap.Title = client.Name
		ap.RecurrenceFrequency = string(freq)
		kind.Apply(&ap)

		drafts = append(drafts, ap)
	}

	return drafts
}

// PaymentDrafts creates one pending income record per persisted appointment,
// due at the occurrence start. Nothing is produced for a non-positive price.
func PaymentDrafts(appointments []models.Appointment, price float64) []models.Payment {
	if price <= 0 {
		return nil
	}

	out := make([]models.Payment, 0, len(appointments))
	for i := range appointments {
		ap := &appointments[i]
		apID := ap.ID
		out = append(out, models.Payment{
			UserID:        ap.UserID,
			AppointmentID: &apID,
			ClientID:      ap.ClientID,
			Amount:        price,
			Status:        string(payment.StatusPending),
			DueDate:       ap.StartTime,
		})
	}
	return out
}

func fromTemplate(tpl Template, iv Interval) models.Appointment {
	status := tpl.Status
	if status == "" {
		status = InitialStatus()
	}

	ap := models.Appointment{
		UserID:      tpl.UserID,
		StartTime:   iv.Start,
		EndTime:     iv.End,
		Title:       tpl.Title,
		Description: tpl.Description,
		Color:       tpl.Color,
		IsOnline:    tpl.IsOnline,
		OnlineURL:   tpl.OnlineURL,
		Status:      string(status),
	}

	// each row owns its pointers
	if tpl.Price != nil {
		price := *tpl.Price
		ap.Price = &price
	}
	if tpl.ServiceID != nil {
		serviceID := *tpl.ServiceID
		ap.ServiceID = &serviceID
	}
	return ap
}
