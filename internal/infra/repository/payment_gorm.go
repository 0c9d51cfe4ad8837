package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/practice-scheduler/internal/domain/payment"
	"github.com/BruksfildServices01/practice-scheduler/internal/models"
)

type PaymentGormRepository struct {
	db *gorm.DB
}

func NewPaymentGormRepository(db *gorm.DB) *PaymentGormRepository {
	return &PaymentGormRepository{db: db}
}

func (r *PaymentGormRepository) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PaymentGormRepository) GetClient(ctx context.Context, userID, clientID uint) (*models.Client, error) {
	var client models.Client
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", clientID, userID).
		First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *PaymentGormRepository) GetAppointment(ctx context.Context, userID, appointmentID uint) (*models.Appointment, error) {
	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", appointmentID, userID).
		First(&ap).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *PaymentGormRepository) ClientNames(ctx context.Context, userID uint, clientIDs []uint) (map[uint]string, error) {
	var rows []struct {
		ID   uint
		Name string
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Client{}).
		Select("id", "name").
		Where("user_id = ? AND id IN ?", userID, clientIDs).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	names := make(map[uint]string, len(rows))
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names, nil
}

func (r *PaymentGormRepository) Create(ctx context.Context, p *models.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PaymentGormRepository) Get(ctx context.Context, userID, paymentID uint) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", paymentID, userID).
		First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentGormRepository) Update(ctx context.Context, p *models.Payment) error {
	res := r.db.WithContext(ctx).
		Model(p).
		Select("*").
		Omit("id", "created_at").
		Where("user_id = ?", p.UserID).
		Updates(p)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PaymentGormRepository) Delete(ctx context.Context, userID, paymentID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", paymentID, userID).
		Delete(&models.Payment{})
	return res.RowsAffected, res.Error
}

func (r *PaymentGormRepository) List(ctx context.Context, userID uint, f payment.Filter) ([]models.Payment, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)

	if f.From != nil {
		q = q.Where("due_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("due_date < ?", *f.To)
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if f.ClientID != nil {
		q = q.Where("client_id = ?", *f.ClientID)
	}

	var out []models.Payment
	if err := q.Order("due_date ASC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PaymentGormRepository) PendingDueBefore(ctx context.Context, t time.Time) ([]models.Payment, error) {
	var out []models.Payment
	if err := r.db.WithContext(ctx).
		Where("status = ? AND due_date < ?", string(payment.StatusPending), t).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PaymentGormRepository) SetStatus(ctx context.Context, ids []uint, status payment.Status) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("id IN ?", ids).
		Update("status", string(status))
	return res.RowsAffected, res.Error
}

var _ payment.Repository = (*PaymentGormRepository)(nil)
