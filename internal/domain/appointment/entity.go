package appointment

import (
	"time"

	"github.com/BruksfildServices01/practice-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// ChangeStatus applies a status transition and keeps the lifecycle timestamps in sync.
func ChangeStatus(ap *models.Appointment, next Status, now time.Time) error {
	if err := CanTransition(Status(ap.Status), next); err != nil {
		return err
	}

	ap.Status = string(next)

	switch next {
	case StatusCancelled:
		ap.CancelledAt = &now
		ap.CompletedAt = nil
	case StatusCompleted:
		ap.CompletedAt = &now
		ap.CancelledAt = nil
	case StatusScheduled, StatusConfirmed:
		ap.CancelledAt = nil
		ap.CompletedAt = nil
	}
	return nil
}
