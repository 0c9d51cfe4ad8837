package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"index" json:"user_id"`

	ClientID *uint   `gorm:"index" json:"client_id"`
	Client   *Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client,omitempty"`

	ServiceID *uint `json:"service_id"`

	AppointmentType     string  `gorm:"size:20;default:'appointment'" json:"appointment_type"`
	SessionType         string  `gorm:"size:20;default:'single'" json:"session_type"`
	RecurrenceGroupID   *string `gorm:"size:36;index" json:"recurrence_group_id"`
	RecurrenceFrequency string  `gorm:"size:20" json:"recurrence_frequency,omitempty"`

	StartTime time.Time `gorm:"index" json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	Title       string `gorm:"size:150" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Color       string `gorm:"size:20" json:"color"`
	IsOnline    bool   `json:"is_online"`
	OnlineURL   string `gorm:"size:512" json:"online_url"`

	Price *float64 `json:"price"`

	Status string `gorm:"size:20;default:'scheduled'" json:"status"`

	ReminderSentAt *time.Time `json:"reminder_sent_at"`
	CancelledAt    *time.Time `json:"cancelled_at"`
	CompletedAt    *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
