package models

import "time"

// Payment is a financial record; positive amounts are income, negative are expenses.
type Payment struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"index" json:"user_id"`

	AppointmentID *uint `gorm:"index" json:"appointment_id"`
	ClientID      *uint `gorm:"index" json:"client_id"`

	Amount      float64    `gorm:"type:numeric(12,2);not null" json:"amount"`
	Status      string     `gorm:"size:20;default:'pending';index" json:"status"`
	DueDate     time.Time  `gorm:"index" json:"due_date"`
	PaymentDate *time.Time `json:"payment_date"`
	Notes       string     `gorm:"size:255" json:"notes"`

	CheckoutID  string `gorm:"size:100" json:"checkout_id,omitempty"`
	CheckoutURL string `gorm:"size:512" json:"checkout_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
