package appointment

import (
	"context"

	"github.com/BruksfildServices01/practice-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/practice-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/practice-scheduler/internal/models"
)

// ChangeStatus confirms, completes, cancels, marks no-show or reopens one occurrence.
type ChangeStatus struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   Clock
}

func NewChangeStatus(repo domain.Repository, audit *audit.Dispatcher, now Clock) *ChangeStatus {
	return &ChangeStatus{repo: repo, audit: audit, now: now}
}

func (uc *ChangeStatus) Execute(
	ctx context.Context,
	userID uint,
	appointmentID uint,
	next domain.Status,
) (*models.Appointment, error) {

	scope, err := LoadScope(ctx, uc.repo, userID, uc.now)
	if err != nil {
		return nil, err
	}

	ap, err := uc.repo.GetAppointment(ctx, userID, appointmentID)
	if err != nil {
		return nil, notFound(err, "appointment_not_found")
	}

	previous := ap.Status
	if err := domain.ChangeStatus(ap, next, scope.Now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointments(ctx, []models.Appointment{*ap}); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "appointment_" + string(next),
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{"from": previous},
	})

	return ap, nil
}
