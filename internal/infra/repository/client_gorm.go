package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/practice-scheduler/internal/models"
)

type ClientGormRepository struct {
	db *gorm.DB
}

func NewClientGormRepository(db *gorm.DB) *ClientGormRepository {
	return &ClientGormRepository{db: db}
}

func (r *ClientGormRepository) GetClient(ctx context.Context, userID, clientID uint) (*models.Client, error) {
	var client models.Client
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", clientID, userID).
		First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *ClientGormRepository) SetAvatar(ctx context.Context, userID, clientID uint, key, url string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("id = ? AND user_id = ?", clientID, userID).
		Updates(map[string]any{
			"avatar_key": key,
			"avatar_url": url,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
