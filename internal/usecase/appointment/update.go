package appointment

import (
	"context"

	"github.com/BruksfildServices01/practice-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/practice-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/practice-scheduler/internal/dto"
	"github.com/BruksfildServices01/practice-scheduler/internal/models"
)

// ScopeRequiredError asks the caller to choose between this occurrence and the
// whole series. Preview lists the clashes the series-wide change would cause.
type ScopeRequiredError struct {
	GroupID string
	Preview []domain.SeriesConflict
}

func (e *ScopeRequiredError) Error() string { return "scope_required" }

type UpdateAppointmentInput struct {
	AppointmentID uint
	Changes       domain.Changes
	Scope         domain.Scope // empty until the user chose
}

type UpdateAppointmentResult struct {
	Scope        domain.Scope            `json:"scope"`
	Appointments []models.Appointment    `json:"appointments"`
	Conflicts    []dto.ConflictDTO       `json:"conflicts"`
	Series       []domain.SeriesConflict `json:"series_conflicts,omitempty"`
	StatusKept   []uint                  `json:"status_kept,omitempty"`
	Warnings     []string                `json:"warnings"`
}

type UpdateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   Clock
}

func NewUpdateAppointment(repo domain.Repository, audit *audit.Dispatcher, now Clock) *UpdateAppointment {
	return &UpdateAppointment{repo: repo, audit: audit, now: now}
}

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	userID uint,
	in UpdateAppointmentInput,
) (*UpdateAppointmentResult, error) {

	scope, err := LoadScope(ctx, uc.repo, userID, uc.now)
	if err != nil {
		return nil, err
	}

	target, err := uc.repo.GetAppointment(ctx, userID, in.AppointmentID)
	if err != nil {
		return nil, notFound(err, "appointment_not_found")
	}

	co := domain.NewEditCoordinator(*target, in.Changes, scope.Location)
	next := co.NewInterval()
	if err := domain.ValidateChanges(next, in.Changes); err != nil {
		return nil, err
	}
	if in.Changes.ClientID != nil {
		if _, err := uc.repo.GetClient(ctx, userID, *in.Changes.ClientID); err != nil {
			return nil, notFound(err, "client_not_found")
		}
	}

	state, err := co.Submit()
	if err != nil {
		return nil, err
	}

	groupID, _ := domain.KindOf(target).GroupID()

	// --------------------------------------------------
	// Escopo: ocorrência ou série
	// --------------------------------------------------
	var siblings []models.Appointment
	if state == domain.StatePendingScopeChoice {
		siblings, err = uc.repo.ListSeries(ctx, userID, groupID)
		if err != nil {
			return nil, err
		}

		if in.Scope == "" {
			preview, err := seriesConflicts(ctx, uc.repo, scope, groupID, siblings, next.Start, next.End)
			if err != nil {
				return nil, err
			}
			return nil, &ScopeRequiredError{GroupID: groupID, Preview: preview}
		}

		if err := co.ChooseScope(in.Scope); err != nil {
			return nil, err
		}
	}

	planned, err := co.Plan(siblings, scope.Now)
	if err != nil {
		co.Finish(err)
		return nil, err
	}

	// --------------------------------------------------
	// Avisos
	// --------------------------------------------------
	result := &UpdateAppointmentResult{
		Scope:     co.Scope(),
		Conflicts: []dto.ConflictDTO{},
		Warnings:  []string{},
	}

	if co.Scope() == domain.ScopeSeries {
		result.Series, err = seriesConflicts(ctx, uc.repo, scope, groupID, siblings, next.Start, next.End)
		if err != nil {
			return nil, err
		}
		if len(result.Series) > 0 {
			result.Warnings = append(result.Warnings, WarningConflict)
		}
		if kept := co.StatusKept(); len(kept) > 0 {
			result.StatusKept = kept
			result.Warnings = append(result.Warnings, WarningStatusKept)
		}
	} else {
		result.Conflicts, err = advisoryConflicts(ctx, uc.repo, userID, planned, &target.ID)
		if err != nil {
			return nil, err
		}
		if len(result.Conflicts) > 0 {
			result.Warnings = append(result.Warnings, WarningConflict)
		}
	}

	for i := range planned {
		if scope.OutsideWorkingHours(planned[i].StartTime, planned[i].EndTime) {
			result.Warnings = append(result.Warnings, WarningOutsideHours)
			break
		}
	}

	// --------------------------------------------------
	// Persistência (série inteira numa transação)
	// --------------------------------------------------
	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		return tx.UpdateAppointments(ctx, planned)
	})
	if co.Finish(err) == domain.StateFailed {
		return nil, err
	}

	result.Appointments = planned

	action := "appointment_updated"
	if co.Scope() == domain.ScopeSeries {
		action = "appointment_series_updated"
	}
	uc.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   action,
		Entity:   "appointment",
		EntityID: &target.ID,
		Metadata: map[string]any{"rows": len(planned)},
	})

	return result, nil
}
