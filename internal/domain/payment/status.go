package payment

import (
	"time"

	"github.com/BruksfildServices01/practice-scheduler/internal/httperr"
	"github.com/BruksfildServices01/practice-scheduler/internal/models"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusPaid || s == StatusOverdue
}

// MarkPaid settles a record; paidAt defaults to now.
func MarkPaid(p *models.Payment, paidAt *time.Time, now time.Time) error {
	if Status(p.Status) == StatusPaid {
		return httperr.ErrBusiness("payment_already_paid")
	}
	when := now
	if paidAt != nil {
		when = *paidAt
	}
	p.Status = string(StatusPaid)
	p.PaymentDate = &when
	return nil
}

// IsOverdue reports whether a pending record's due date is before the start of today (in loc).
func IsOverdue(p *models.Payment, now time.Time, loc *time.Location) bool {
	if Status(p.Status) != StatusPending {
		return false
	}
	return p.DueDate.Before(StartOfDay(now, loc))
}

func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
