package dto

import (
	"time"

	"github.com/BruksfildServices01/practice-scheduler/internal/models"
)

type AppointmentListDTO struct {
	ID                uint      `json:"id"`
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`
	Status            string    `json:"status"`
	AppointmentType   string    `json:"appointment_type"`
	SessionType       string    `json:"session_type"`
	RecurrenceGroupID *string   `json:"recurrence_group_id"`
	Title             string    `json:"title"`
	Color             string    `json:"color"`
	IsOnline          bool      `json:"is_online"`
	Price             *float64  `json:"price"`
	ClientID          *uint     `json:"client_id"`
	ClientName        string    `json:"client_name"`
}

func NewAppointmentList(aps []models.Appointment) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(aps))
	for _, ap := range aps {
		item := AppointmentListDTO{
			ID:                ap.ID,
			StartTime:         ap.StartTime,
			EndTime:           ap.EndTime,
			Status:            ap.Status,
			AppointmentType:   ap.AppointmentType,
			SessionType:       ap.SessionType,
			RecurrenceGroupID: ap.RecurrenceGroupID,
			Title:             ap.Title,
			Color:             ap.Color,
			IsOnline:          ap.IsOnline,
			Price:             ap.Price,
			ClientID:          ap.ClientID,
		}
		if ap.Client != nil {
			item.ClientName = ap.Client.Name
		}
		out = append(out, item)
	}
	return out
}

// ConflictDTO is the advisory warning attached to create/update responses.
type ConflictDTO struct {
	CandidateStart time.Time `json:"candidate_start"`
	CandidateEnd   time.Time `json:"candidate_end"`
	AppointmentID  uint      `json:"appointment_id"`
	Title          string    `json:"title"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
}
