package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/practice-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/practice-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/practice-scheduler/internal/dto"
	"github.com/BruksfildServices01/practice-scheduler/internal/httperr"
	"github.com/BruksfildServices01/practice-scheduler/internal/logging"
	"github.com/BruksfildServices01/practice-scheduler/internal/models"
)

const defaultSessionMinutes = 50

// Warning codes returned next to a successful mutation.
const (
	WarningConflict      = "time_conflict"
	WarningOutsideHours  = "outside_working_hours"
	WarningPaymentFailed = "payment_failed"
	WarningStatusKept    = "status_kept"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	AppointmentType string
	ClientID        *uint
	ServiceID       *uint

	StartTime time.Time
	EndTime   time.Time

	Title       string
	Description string
	Color       string
	IsOnline    bool
	OnlineURL   string
	Price       *float64
	Status      string

	Recurring bool
	Frequency string
	Count     int

	LaunchFinancial bool
}

type CreateAppointmentResult struct {
	Appointments []models.Appointment `json:"appointments"`
	Payments     []models.Payment     `json:"payments"`
	Conflicts    []dto.ConflictDTO    `json:"conflicts"`
	Warnings     []string             `json:"warnings"`
	PaymentError string               `json:"payment_error,omitempty"`
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo       domain.Repository
	audit      *audit.Dispatcher
	now        Clock
	newGroupID domain.GroupIDFunc
}

func NewCreateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	now Clock,
	newGroupID domain.GroupIDFunc,
) *CreateAppointment {
	return &CreateAppointment{
		repo:       repo,
		audit:      audit,
		now:        now,
		newGroupID: newGroupID,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	userID uint,
	in CreateAppointmentInput,
) (*CreateAppointmentResult, error) {

	log := logging.FromContext(ctx)

	// --------------------------------------------------
	// 1️⃣ Contexto do profissional
	// --------------------------------------------------
	scope, err := LoadScope(ctx, uc.repo, userID, uc.now)
	if err != nil {
		return nil, err
	}

	kind, ok := domain.ParseType(in.AppointmentType)
	if !ok {
		return nil, httperr.FieldError("appointment_type", "Tipo inválido.")
	}

	// --------------------------------------------------
	// 2️⃣ Serviço: duração e valor padrão
	// --------------------------------------------------
	end := in.EndTime
	price := in.Price

	if in.ServiceID != nil {
		svc, err := uc.repo.GetService(ctx, userID, *in.ServiceID)
		if err != nil {
			return nil, notFound(err, "service_not_found")
		}
		if end.IsZero() && svc.DurationMin > 0 {
			end = in.StartTime.Add(time.Duration(svc.DurationMin) * time.Minute)
		}
		if price == nil && svc.Price > 0 {
			p := svc.Price
			price = &p
		}
	}

	if end.IsZero() && !in.StartTime.IsZero() {
		minutes := scope.User.SessionMin
		if minutes <= 0 {
			minutes = defaultSessionMinutes
		}
		end = in.StartTime.Add(time.Duration(minutes) * time.Minute)
	}

	if price == nil && kind.RequiresClient() && scope.User.DefaultPrice > 0 {
		p := scope.User.DefaultPrice
		price = &p
	}

	// --------------------------------------------------
	// 3️⃣ Validação
	// --------------------------------------------------
	base := domain.Interval{Start: in.StartTime, End: end}

	check := domain.DraftCheck{
		Kind:      kind,
		ClientID:  in.ClientID,
		Title:     in.Title,
		Interval:  base,
		Recurring: in.Recurring,
		Frequency: in.Frequency,
		Count:     in.Count,
		Status:    in.Status,
	}
	if err := check.Validate(); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 4️⃣ Cliente
	// --------------------------------------------------
	var client *domain.ClientRef
	if kind.RequiresClient() {
		c, err := uc.repo.GetClient(ctx, userID, *in.ClientID)
		if err != nil {
			return nil, notFound(err, "client_not_found")
		}
		client = &domain.ClientRef{ID: c.ID, Name: c.Name}
	}

	// --------------------------------------------------
	// 5️⃣ Rascunhos
	// --------------------------------------------------
	tpl := domain.Template{
		UserID:      userID,
		ServiceID:   in.ServiceID,
		Title:       in.Title,
		Description: in.Description,
		Color:       in.Color,
		IsOnline:    in.IsOnline,
		OnlineURL:   in.OnlineURL,
		Price:       price,
		Status:      domain.Status(in.Status),
	}

	var drafts []models.Appointment
	if in.Recurring {
		freq, _ := domain.ParseFrequency(in.Frequency)
		drafts = domain.ExpandSeries(*client, base, freq, in.Count, tpl, uc.newGroupID)
	} else {
		drafts = []models.Appointment{domain.NewDraft(kind, client, base, tpl)}
	}

	// --------------------------------------------------
	// 6️⃣ Avisos (nunca bloqueiam)
	// --------------------------------------------------
	result := &CreateAppointmentResult{Warnings: []string{}}

	result.Conflicts, err = advisoryConflicts(ctx, uc.repo, userID, drafts, nil)
	if err != nil {
		return nil, err
	}
	if len(result.Conflicts) > 0 {
		result.Warnings = append(result.Warnings, WarningConflict)
	}

	for i := range drafts {
		if scope.OutsideWorkingHours(drafts[i].StartTime, drafts[i].EndTime) {
			result.Warnings = append(result.Warnings, WarningOutsideHours)
			break
		}
	}

	// --------------------------------------------------
	// 7️⃣ Persistência: a série inteira ou nada
	// --------------------------------------------------
	if err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		return tx.CreateAppointments(ctx, drafts)
	}); err != nil {
		return nil, err
	}
	result.Appointments = drafts

	uc.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &drafts[0].ID,
		Metadata: map[string]any{
			"count":               len(drafts),
			"recurrence_group_id": drafts[0].RecurrenceGroupID,
		},
	})

	// --------------------------------------------------
	// 8️⃣ Financeiro: falha aqui não desfaz os agendamentos
	// --------------------------------------------------
	result.Payments = []models.Payment{}
	if in.LaunchFinancial && kind.RequiresClient() && price != nil && *price > 0 {
		payments := domain.PaymentDrafts(drafts, *price)

		err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
			return tx.CreatePayments(ctx, payments)
		})
		if err != nil {
			log.Error("payment batch failed after appointments were created",
				"user_id", userID,
				"appointments", len(drafts),
				"error", err,
			)
			result.PaymentError = err.Error()
			result.Warnings = append(result.Warnings, WarningPaymentFailed)
		} else {
			result.Payments = payments
		}
	}

	return result, nil
}
