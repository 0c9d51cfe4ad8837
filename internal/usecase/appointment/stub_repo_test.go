package appointment

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/practice-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/practice-scheduler/internal/models"
)

// memRepo is an in-memory Repository; Transaction restores the previous
// state when fn fails.
type memRepo struct {
	users        map[uint]models.User
	clients      map[uint]models.Client
	services     map[uint]models.Service
	hours        []models.WorkingHours
	appointments map[uint]models.Appointment
	payments     map[uint]models.Payment
	nextID       uint

	failPayments error
	failUpdate   error
	deleteNoop   bool
}

func newMemRepo(t *testing.T) *memRepo {
	t.Helper()
	return &memRepo{
		users: map[uint]models.User{
			1: {ID: 1, Name: "Dra. Lia", Timezone: "America/Sao_Paulo", SessionMin: 50},
			2: {ID: 2, Name: "Outro", Timezone: "America/Sao_Paulo"},
		},
		clients: map[uint]models.Client{
			5: {ID: 5, UserID: 1, Name: "Ana"},
			6: {ID: 6, UserID: 1, Name: "Bruno"},
			9: {ID: 9, UserID: 2, Name: "De outro"},
		},
		services: map[uint]models.Service{
			3: {ID: 3, UserID: 1, Name: "Sessão", DurationMin: 60, Price: 150},
		},
		appointments: map[uint]models.Appointment{},
		payments:     map[uint]models.Payment{},
		nextID:       100,
	}
}

func (r *memRepo) id() uint {
	r.nextID++
	return r.nextID
}

func (r *memRepo) Transaction(ctx context.Context, fn func(tx domain.Repository) error) error {
	apps := make(map[uint]models.Appointment, len(r.appointments))
	for k, v := range r.appointments {
		apps[k] = v
	}
	pays := make(map[uint]models.Payment, len(r.payments))
	for k, v := range r.payments {
		pays[k] = v
	}

	if err := fn(r); err != nil {
		r.appointments = apps
		r.payments = pays
		return err
	}
	return nil
}

func (r *memRepo) GetUser(_ context.Context, userID uint) (*models.User, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r *memRepo) GetClient(_ context.Context, userID, clientID uint) (*models.Client, error) {
	c, ok := r.clients[clientID]
	if !ok || c.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r *memRepo) GetService(_ context.Context, userID, serviceID uint) (*models.Service, error) {
	s, ok := r.services[serviceID]
	if !ok || s.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

func (r *memRepo) CreateAppointments(_ context.Context, aps []models.Appointment) error {
	for i := range aps {
		aps[i].ID = r.id()
		r.appointments[aps[i].ID] = aps[i]
	}
	return nil
}

func (r *memRepo) GetAppointment(_ context.Context, userID, id uint) (*models.Appointment, error) {
	ap, ok := r.appointments[id]
	if !ok || ap.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return &ap, nil
}

func (r *memRepo) UpdateAppointments(_ context.Context, aps []models.Appointment) error {
	for i, ap := range aps {
		if r.failUpdate != nil && i == len(aps)-1 {
			return r.failUpdate
		}
		r.appointments[ap.ID] = ap
	}
	return nil
}

func (r *memRepo) DeleteAppointments(_ context.Context, userID uint, f domain.DeleteFilter) (int64, error) {
	if r.deleteNoop {
		return 0, nil
	}
	var n int64
	for id, ap := range r.appointments {
		if ap.UserID != userID {
			continue
		}
		match := (f.ID != nil && ap.ID == *f.ID) ||
			(f.GroupID != nil && ap.RecurrenceGroupID != nil && *ap.RecurrenceGroupID == *f.GroupID)
		if match {
			delete(r.appointments, id)
			n++
		}
	}
	return n, nil
}

func (r *memRepo) ListSeries(_ context.Context, userID uint, groupID string) ([]models.Appointment, error) {
	return r.filter(func(ap models.Appointment) bool {
		return ap.UserID == userID && ap.RecurrenceGroupID != nil && *ap.RecurrenceGroupID == groupID
	}), nil
}

func (r *memRepo) CreatePayments(_ context.Context, payments []models.Payment) error {
	if r.failPayments != nil {
		return r.failPayments
	}
	for i := range payments {
		payments[i].ID = r.id()
		r.payments[payments[i].ID] = payments[i]
	}
	return nil
}

func (r *memRepo) DeletePaymentsForAppointments(_ context.Context, userID uint, ids []uint) (int64, error) {
	set := map[uint]bool{}
	for _, id := range ids {
		set[id] = true
	}
	var n int64
	for id, p := range r.payments {
		if p.UserID == userID && p.AppointmentID != nil && set[*p.AppointmentID] {
			delete(r.payments, id)
			n++
		}
	}
	return n, nil
}

func (r *memRepo) ListWorkingHours(_ context.Context, userID uint) ([]models.WorkingHours, error) {
	var out []models.WorkingHours
	for _, wh := range r.hours {
		if wh.UserID == userID {
			out = append(out, wh)
		}
	}
	return out, nil
}

func (r *memRepo) ListAppointmentsForPeriod(_ context.Context, userID uint, start, end time.Time) ([]models.Appointment, error) {
	return r.filter(func(ap models.Appointment) bool {
		return ap.UserID == userID && !ap.StartTime.Before(start) && ap.StartTime.Before(end)
	}), nil
}

func (r *memRepo) ListOverlapping(_ context.Context, userID uint, start, end time.Time) ([]models.Appointment, error) {
	return r.filter(func(ap models.Appointment) bool {
		return ap.UserID == userID &&
			ap.Status != string(domain.StatusCancelled) &&
			ap.StartTime.Before(end) && ap.EndTime.After(start)
	}), nil
}

func (r *memRepo) filter(keep func(models.Appointment) bool) []models.Appointment {
	var out []models.Appointment
	for _, ap := range r.appointments {
		if keep(ap) {
			out = append(out, ap)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

// seed stores an appointment as-is and returns its id.
func (r *memRepo) seed(ap models.Appointment) uint {
	ap.ID = r.id()
	if ap.UserID == 0 {
		ap.UserID = 1
	}
	if ap.Status == "" {
		ap.Status = string(domain.StatusScheduled)
	}
	r.appointments[ap.ID] = ap
	return ap.ID
}

var errBoom = errors.New("boom")

var _ domain.Repository = (*memRepo)(nil)
