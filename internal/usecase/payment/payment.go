package payment

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/practice-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/practice-scheduler/internal/domain/payment"
	"github.com/BruksfildServices01/practice-scheduler/internal/httperr"
	"github.com/BruksfildServices01/practice-scheduler/internal/models"
	"github.com/BruksfildServices01/practice-scheduler/internal/timezone"
)

// Clock lets tests pin "now".
type Clock func() time.Time

type PaymentInput struct {
	ClientID      *uint
	AppointmentID *uint
	Amount        float64
	DueDate       string
	Status        string
	Notes         string
}

// ==================================================
// CREATE
// ==================================================

type CreatePayment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreatePayment(repo domain.Repository, audit *audit.Dispatcher) *CreatePayment {
	return &CreatePayment{repo: repo, audit: audit}
}

func (uc *CreatePayment) Execute(ctx context.Context, userID uint, in PaymentInput) (*models.Payment, error) {
	loc, err := userLocation(ctx, uc.repo, userID)
	if err != nil {
		return nil, err
	}

	status := domain.Status(in.Status)
	if status == "" {
		status = domain.StatusPending
	}

	ve := &httperr.ValidationError{}
	if in.Amount == 0 {
		ve.Add("amount", "Informe um valor diferente de zero.")
	}
	if !status.Valid() {
		ve.Add("status", "Status inválido.")
	}
	due, err := timezone.ParseDate(in.DueDate, loc)
	if err != nil {
		ve.Add("due_date", "Data de vencimento inválida.")
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}

	if err := checkOwnership(ctx, uc.repo, userID, in.ClientID, in.AppointmentID); err != nil {
		return nil, err
	}

	p := &models.Payment{
		UserID:        userID,
		ClientID:      in.ClientID,
		AppointmentID: in.AppointmentID,
		Amount:        in.Amount,
		Status:        string(status),
		DueDate:       due,
		Notes:         strings.TrimSpace(in.Notes),
	}
	if status == domain.StatusPaid {
		paid := due
		p.PaymentDate = &paid
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "payment_created",
		Entity:   "payment",
		EntityID: &p.ID,
		Metadata: map[string]any{"amount": p.Amount, "status": p.Status},
	})

	return p, nil
}

// ==================================================
// UPDATE
// ==================================================

type PaymentChanges struct {
	Amount  *float64
	DueDate *string
	Status  *string
	Notes   *string
}

type UpdatePayment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   Clock
}

func NewUpdatePayment(repo domain.Repository, audit *audit.Dispatcher, now Clock) *UpdatePayment {
	if now == nil {
		now = time.Now
	}
	return &UpdatePayment{repo: repo, audit: audit, now: now}
}

func (uc *UpdatePayment) Execute(ctx context.Context, userID, paymentID uint, ch PaymentChanges) (*models.Payment, error) {
	loc, err := userLocation(ctx, uc.repo, userID)
	if err != nil {
		return nil, err
	}

	p, err := uc.repo.Get(ctx, userID, paymentID)
	if err != nil {
		return nil, notFound(err, "payment_not_found")
	}

	ve := &httperr.ValidationError{}
	if ch.Amount != nil {
		if *ch.Amount == 0 {
			ve.Add("amount", "Informe um valor diferente de zero.")
		} else {
			p.Amount = *ch.Amount
		}
	}
	if ch.DueDate != nil {
		due, err := timezone.ParseDate(*ch.DueDate, loc)
		if err != nil {
			ve.Add("due_date", "Data de vencimento inválida.")
		} else {
			p.DueDate = due
		}
	}
	if ch.Status != nil {
		next := domain.Status(*ch.Status)
		switch {
		case !next.Valid():
			ve.Add("status", "Status inválido.")
		case next == domain.StatusPaid && domain.Status(p.Status) != domain.StatusPaid:
			now := uc.now().In(loc)
			p.Status = string(next)
			p.PaymentDate = &now
		case next != domain.StatusPaid:
			p.Status = string(next)
			p.PaymentDate = nil
		}
	}
	if ch.Notes != nil {
		p.Notes = strings.TrimSpace(*ch.Notes)
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}

	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "payment_updated",
		Entity:   "payment",
		EntityID: &p.ID,
	})

	return p, nil
}

// ==================================================
// MARK PAID
// ==================================================

type MarkPaid struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   Clock
}

func NewMarkPaid(repo domain.Repository, audit *audit.Dispatcher, now Clock) *MarkPaid {
	if now == nil {
		now = time.Now
	}
	return &MarkPaid{repo: repo, audit: audit, now: now}
}

// Execute settles the record; paidOn is an optional "YYYY-MM-DD" date.
func (uc *MarkPaid) Execute(ctx context.Context, userID, paymentID uint, paidOn string) (*models.Payment, error) {
	loc, err := userLocation(ctx, uc.repo, userID)
	if err != nil {
		return nil, err
	}

	p, err := uc.repo.Get(ctx, userID, paymentID)
	if err != nil {
		return nil, notFound(err, "payment_not_found")
	}

	var paidAt *time.Time
	if paidOn != "" {
		d, err := timezone.ParseDate(paidOn, loc)
		if err != nil {
			return nil, httperr.FieldError("payment_date", "Data de pagamento inválida.")
		}
		paidAt = &d
	}

	if err := domain.MarkPaid(p, paidAt, uc.now().In(loc)); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "payment_paid",
		Entity:   "payment",
		EntityID: &p.ID,
	})

	return p, nil
}

// ==================================================
// DELETE / LIST
// ==================================================

type DeletePayment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeletePayment(repo domain.Repository, audit *audit.Dispatcher) *DeletePayment {
	return &DeletePayment{repo: repo, audit: audit}
}

func (uc *DeletePayment) Execute(ctx context.Context, userID, paymentID uint) error {
	affected, err := uc.repo.Delete(ctx, userID, paymentID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return httperr.ErrBusiness("payment_not_found")
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "payment_deleted",
		Entity:   "payment",
		EntityID: &paymentID,
	})
	return nil
}

// ListQuery holds raw query-string values; dates are "YYYY-MM-DD" and inclusive.
type ListQuery struct {
	From     string
	To       string
	Status   string
	ClientID *uint
}

type ListPayments struct {
	repo domain.Repository
}

func NewListPayments(repo domain.Repository) *ListPayments {
	return &ListPayments{repo: repo}
}

func (uc *ListPayments) Execute(ctx context.Context, userID uint, q ListQuery) ([]models.Payment, error) {
	loc, err := userLocation(ctx, uc.repo, userID)
	if err != nil {
		return nil, err
	}
	f, err := buildFilter(q, loc)
	if err != nil {
		return nil, err
	}
	return uc.repo.List(ctx, userID, f)
}

// ==================================================
// HELPERS
// ==================================================

func buildFilter(q ListQuery, loc *time.Location) (domain.Filter, error) {
	f := domain.Filter{ClientID: q.ClientID}
	ve := &httperr.ValidationError{}

	if q.Status != "" {
		s := domain.Status(q.Status)
		if !s.Valid() {
			ve.Add("status", "Status inválido.")
		}
		f.Status = s
	}
	if q.From != "" {
		from, err := timezone.ParseDate(q.From, loc)
		if err != nil {
			ve.Add("from", "Data inicial inválida.")
		} else {
			f.From = &from
		}
	}
	if q.To != "" {
		to, err := timezone.ParseDate(q.To, loc)
		if err != nil {
			ve.Add("to", "Data final inválida.")
		} else {
			// inclusive day → exclusive bound
			end := to.AddDate(0, 0, 1)
			f.To = &end
		}
	}
	if f.From != nil && f.To != nil && !f.To.After(*f.From) {
		ve.Add("to", "A data final deve ser posterior à inicial.")
	}

	return f, ve.Err()
}

func userLocation(ctx context.Context, repo domain.Repository, userID uint) (*time.Location, error) {
	user, err := repo.GetUser(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user_not_found")
	}
	return timezone.Location(user.Timezone), nil
}

func checkOwnership(ctx context.Context, repo domain.Repository, userID uint, clientID, appointmentID *uint) error {
	if clientID != nil {
		if _, err := repo.GetClient(ctx, userID, *clientID); err != nil {
			return notFound(err, "client_not_found")
		}
	}
	if appointmentID != nil {
		if _, err := repo.GetAppointment(ctx, userID, *appointmentID); err != nil {
			return notFound(err, "appointment_not_found")
		}
	}
	return nil
}

func notFound(err error, code string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrBusiness(code)
	}
	return err
}
