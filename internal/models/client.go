package models

import "time"

// Client atendido pelo profissional, sem login próprio.
type Client struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"index" json:"user_id"`

	Name      string     `gorm:"size:100;not null" json:"name"`
	Phone     string     `gorm:"size:20" json:"phone"`
	Email     string     `gorm:"size:100" json:"email"`
	BirthDate *time.Time `json:"birth_date"`
	Notes     string     `gorm:"type:text" json:"notes"`
	AvatarKey string     `gorm:"size:255" json:"-"`
	AvatarURL string     `gorm:"size:512" json:"avatar_url"`
	Active    bool       `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
