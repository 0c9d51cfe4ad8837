package appointment

import (
	"context"

	"github.com/BruksfildServices01/practice-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/practice-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/practice-scheduler/internal/httperr"
)

var (
	ErrScopeRequired     = httperr.ErrBusiness("scope_required")
	ErrFinancialRequired = httperr.ErrBusiness("financial_choice_required")
)

type DeleteAppointmentInput struct {
	AppointmentID uint
	Scope         string
	Financial     string
}

type DeleteAppointmentResult struct {
	Scope           domain.Scope `json:"scope"`
	Deleted         int64        `json:"deleted"`
	PaymentsDeleted int64        `json:"payments_deleted"`
}

type DeleteAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteAppointment(repo domain.Repository, audit *audit.Dispatcher) *DeleteAppointment {
	return &DeleteAppointment{repo: repo, audit: audit}
}

func (uc *DeleteAppointment) Execute(
	ctx context.Context,
	userID uint,
	in DeleteAppointmentInput,
) (*DeleteAppointmentResult, error) {

	target, err := uc.repo.GetAppointment(ctx, userID, in.AppointmentID)
	if err != nil {
		return nil, notFound(err, "appointment_not_found")
	}

	co := domain.NewDeleteCoordinator(*target)
	state, err := co.Submit()
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Perguntas: escopo (série) e financeiro
	// --------------------------------------------------
	if state == domain.StatePendingScopeChoice {
		if in.Scope == "" {
			return nil, ErrScopeRequired
		}
		if err := co.ChooseScope(domain.Scope(in.Scope)); err != nil {
			return nil, err
		}
	}

	if in.Financial == "" {
		return nil, ErrFinancialRequired
	}
	if err := co.ChooseFinancial(domain.Financial(in.Financial)); err != nil {
		return nil, err
	}

	plan, err := co.Plan()
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Execução: financeiro antes dos agendamentos
	// --------------------------------------------------
	result := &DeleteAppointmentResult{Scope: co.Scope()}

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		if plan.DeleteFinancial {
			ids := []uint{target.ID}
			if plan.Filter.GroupID != nil {
				members, err := tx.ListSeries(ctx, userID, *plan.Filter.GroupID)
				if err != nil {
					return err
				}
				ids = ids[:0]
				for _, m := range members {
					ids = append(ids, m.ID)
				}
			}

			n, err := tx.DeletePaymentsForAppointments(ctx, userID, ids)
			if err != nil {
				return err
			}
			result.PaymentsDeleted = n
		}

		affected, err := tx.DeleteAppointments(ctx, userID, plan.Filter)
		result.Deleted = affected
		_, err = co.Finish(affected, err)
		return err
	})
	if err != nil {
		return nil, err
	}

	action := "appointment_deleted"
	if plan.Filter.GroupID != nil {
		action = "appointment_series_deleted"
	}
	uc.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   action,
		Entity:   "appointment",
		EntityID: &target.ID,
		Metadata: map[string]any{
			"deleted":          result.Deleted,
			"payments_deleted": result.PaymentsDeleted,
		},
	})

	return result, nil
}
