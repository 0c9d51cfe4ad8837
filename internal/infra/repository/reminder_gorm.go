package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/practice-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/practice-scheduler/internal/models"
	"github.com/BruksfildServices01/practice-scheduler/internal/reminder"
)

type ReminderGormStore struct {
	db *gorm.DB
}

func NewReminderGormStore(db *gorm.DB) *ReminderGormStore {
	return &ReminderGormStore{db: db}
}

func (s *ReminderGormStore) DueReminders(ctx context.Context, from, to time.Time) ([]models.Appointment, error) {
	var apps []models.Appointment
	if err := s.db.WithContext(ctx).
		Preload("Client").
		Where("appointment_type = ?", domain.TypeAppointment).
		Where("status IN ?", []string{string(domain.StatusScheduled), string(domain.StatusConfirmed)}).
		Where("reminder_sent_at IS NULL AND start_time >= ? AND start_time < ?", from, to).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (s *ReminderGormStore) MarkReminded(ctx context.Context, ids []uint, at time.Time) error {
	return s.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id IN ?", ids).
		Update("reminder_sent_at", at).Error
}

func (s *ReminderGormStore) Timezones(ctx context.Context, userIDs []uint) (map[uint]string, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).
		Select("id", "timezone").
		Where("id IN ?", userIDs).
		Find(&users).Error; err != nil {
		return nil, err
	}

	out := make(map[uint]string, len(users))
	for _, u := range users {
		out[u.ID] = u.Timezone
	}
	return out, nil
}

var _ reminder.Store = (*ReminderGormStore)(nil)
