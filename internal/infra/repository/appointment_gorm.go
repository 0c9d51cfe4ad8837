package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/practice-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/practice-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

func (r *AppointmentGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	})
}

// --------------------------------------------------
// User / Client / Service
// --------------------------------------------------

func (r *AppointmentGormRepository) GetUser(
	ctx context.Context,
	userID uint,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *AppointmentGormRepository) GetClient(
	ctx context.Context,
	userID uint,
	clientID uint,
) (*models.Client, error) {

	var client models.Client
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", clientID, userID).
		First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	userID uint,
	serviceID uint,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", serviceID, userID).
		First(&service).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointments(
	ctx context.Context,
	aps []models.Appointment,
) error {
	if len(aps) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Create(&aps).Error
}

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	userID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Where("id = ? AND user_id = ?", appointmentID, userID).
		First(&ap).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointments(
	ctx context.Context,
	aps []models.Appointment,
) error {

	for i := range aps {
		res := r.db.WithContext(ctx).
			Model(&aps[i]).
			Select("*").
			Omit("id", "created_at", clause.Associations).
			Where("user_id = ?", aps[i].UserID).
			Updates(&aps[i])
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
	}
	return nil
}

func (r *AppointmentGormRepository) DeleteAppointments(
	ctx context.Context,
	userID uint,
	filter domain.DeleteFilter,
) (int64, error) {

	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	switch {
	case filter.GroupID != nil:
		q = q.Where("recurrence_group_id = ?", *filter.GroupID)
	case filter.ID != nil:
		q = q.Where("id = ?", *filter.ID)
	default:
		return 0, nil
	}

	res := q.Delete(&models.Appointment{})
	return res.RowsAffected, res.Error
}

func (r *AppointmentGormRepository) ListSeries(
	ctx context.Context,
	userID uint,
	groupID string,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND recurrence_group_id = ?", userID, groupID).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// --------------------------------------------------
// Financial
// --------------------------------------------------

func (r *AppointmentGormRepository) CreatePayments(
	ctx context.Context,
	payments []models.Payment,
) error {
	if len(payments) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&payments).Error
}

func (r *AppointmentGormRepository) DeletePaymentsForAppointments(
	ctx context.Context,
	userID uint,
	appointmentIDs []uint,
) (int64, error) {
	if len(appointmentIDs) == 0 {
		return 0, nil
	}

	res := r.db.WithContext(ctx).
		Where("user_id = ? AND appointment_id IN ?", userID, appointmentIDs).
		Delete(&models.Payment{})
	return res.RowsAffected, res.Error
}

// --------------------------------------------------
// Calendar
// --------------------------------------------------

func (r *AppointmentGormRepository) ListWorkingHours(
	ctx context.Context,
	userID uint,
) ([]models.WorkingHours, error) {

	var hours []models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {
		return nil, err
	}
	return hours, nil
}

func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	userID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment

	err := r.db.WithContext(ctx).
		Preload("Client").
		Where(
			"user_id = ? AND start_time >= ? AND start_time < ?",
			userID,
			start,
			end,
		).
		Order("start_time ASC").
		Find(&apps).Error

	if err != nil {
		return nil, err
	}

	return apps, nil
}

func (r *AppointmentGormRepository) ListOverlapping(
	ctx context.Context,
	userID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where(
			"user_id = ? AND status <> ? AND start_time < ? AND end_time > ?",
			userID,
			string(domain.StatusCancelled),
			end,
			start,
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
