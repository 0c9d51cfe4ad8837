package appointment

import "github.com/BruksfildServices01/practice-scheduler/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Open reports whether the appointment still occupies the calendar.
func (s Status) Open() bool {
	return s == StatusScheduled || s == StatusConfirmed
}

// ===============================
// Validations
// ===============================

// CanTransition define as mudanças de status permitidas.
// Terminal statuses may only be reopened back to scheduled.
func CanTransition(current, next Status) error {
	if !next.Valid() {
		return httperr.ErrBusiness("invalid_status")
	}
	if current == next {
		return nil
	}
	if current.Open() {
		return nil
	}
	if next == StatusScheduled {
		return nil
	}
	return httperr.ErrBusiness("invalid_state")
}

func InitialStatus() Status {
	return StatusScheduled
}
