package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/practice-scheduler/internal/models"
)

type Repository interface {
	// Transaction runs fn against a repository bound to one database transaction.
	Transaction(
		ctx context.Context,
		fn func(tx Repository) error,
	) error

	// -------- User / Client / Service --------
	GetUser(
		ctx context.Context,
		userID uint,
	) (*models.User, error)

	GetClient(
		ctx context.Context,
		userID uint,
		clientID uint,
	) (*models.Client, error)

	GetService(
		ctx context.Context,
		userID uint,
		serviceID uint,
	) (*models.Service, error)

	// -------- Appointment (create / update / delete) --------
	CreateAppointments(
		ctx context.Context,
		aps []models.Appointment,
	) error

	GetAppointment(
		ctx context.Context,
		userID uint,
		appointmentID uint,
	) (*models.Appointment, error)

	UpdateAppointments(
		ctx context.Context,
		aps []models.Appointment,
	) error

	DeleteAppointments(
		ctx context.Context,
		userID uint,
		filter DeleteFilter,
	) (int64, error)

	ListSeries(
		ctx context.Context,
		userID uint,
		groupID string,
	) ([]models.Appointment, error)

	// -------- Financial --------
	CreatePayments(
		ctx context.Context,
		payments []models.Payment,
	) error

	DeletePaymentsForAppointments(
		ctx context.Context,
		userID uint,
		appointmentIDs []uint,
	) (int64, error)

	// -------- Calendar --------
	ListWorkingHours(
		ctx context.Context,
		userID uint,
	) ([]models.WorkingHours, error)

	// ListAppointmentsForPeriod lists every appointment starting in [start, end).
	ListAppointmentsForPeriod(
		ctx context.Context,
		userID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	// ListOverlapping lists non-cancelled appointments overlapping [start, end),
	// the input of the conflict detector.
	ListOverlapping(
		ctx context.Context,
		userID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)
}
