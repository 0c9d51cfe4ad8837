package models

import "time"

type SessionNote struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"index" json:"user_id"`

	ClientID      uint  `gorm:"index;not null" json:"client_id"`
	AppointmentID *uint `gorm:"index" json:"appointment_id"`

	Title   string `gorm:"size:150" json:"title"`
	Content string `gorm:"type:text" json:"content"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
