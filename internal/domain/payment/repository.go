package payment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/practice-scheduler/internal/models"
)

// Filter narrows a listing; zero values match everything.
type Filter struct {
	From     *time.Time
	To       *time.Time
	Status   Status
	ClientID *uint
}

type Repository interface {
	GetUser(ctx context.Context, userID uint) (*models.User, error)
	GetClient(ctx context.Context, userID, clientID uint) (*models.Client, error)
	GetAppointment(ctx context.Context, userID, appointmentID uint) (*models.Appointment, error)
	ClientNames(ctx context.Context, userID uint, clientIDs []uint) (map[uint]string, error)

	Create(ctx context.Context, p *models.Payment) error
	Get(ctx context.Context, userID, paymentID uint) (*models.Payment, error)
	Update(ctx context.Context, p *models.Payment) error
	Delete(ctx context.Context, userID, paymentID uint) (int64, error)
	List(ctx context.Context, userID uint, f Filter) ([]models.Payment, error)

	// PendingDueBefore lists pending records of every user due before t.
	PendingDueBefore(ctx context.Context, t time.Time) ([]models.Payment, error)
	SetStatus(ctx context.Context, ids []uint, status Status) (int64, error)
}
