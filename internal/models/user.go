package models

import "time"

// User is the professional account; every tenant-owned row points back to it.
type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`
	Role         string `gorm:"size:20;default:'professional'" json:"role"`

	PracticeName string  `gorm:"size:100" json:"practice_name"`
	Timezone     string  `gorm:"size:64" json:"timezone"`
	SessionMin   int     `gorm:"default:50" json:"session_min"`
	DefaultPrice float64 `json:"default_price"`

	FeedToken string `gorm:"size:36;uniqueIndex" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
