package handlers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/practice-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/practice-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/practice-scheduler/internal/httperr"
	"github.com/BruksfildServices01/practice-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/practice-scheduler/internal/models"
)

type WorkingHoursHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewWorkingHoursHandler(db *gorm.DB, dispatcher *audit.Dispatcher) *WorkingHoursHandler {
	return &WorkingHoursHandler{db: db, audit: dispatcher}
}

type WorkingDayConfig struct {
	Weekday    int    `json:"weekday" binding:"min=0,max=6"`
	Active     bool   `json:"active"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	LunchStart string `json:"lunch_start"`
	LunchEnd   string `json:"lunch_end"`
}

type WorkingHoursUpdateRequest struct {
	Days []WorkingDayConfig `json:"days" binding:"required,dive"`
}

func validateDays(days []WorkingDayConfig) error {
	ve := &httperr.ValidationError{}
	seen := map[int]bool{}

	for i, d := range days {
		field := fmt.Sprintf("days[%d]", i)

		if seen[d.Weekday] {
			ve.Add(field+".weekday", "Dia da semana repetido.")
		}
		seen[d.Weekday] = true

		if !d.Active {
			continue
		}
		if !domain.ValidClock(d.StartTime) || !domain.ValidClock(d.EndTime) {
			ve.Add(field, "Horário inválido. Use HH:MM.")
			continue
		}
		start, end := minutesOf(d.StartTime), minutesOf(d.EndTime)
		if end <= start {
			ve.Add(field+".end_time", "O fim do expediente deve ser depois do início.")
		}

		if d.LunchStart == "" && d.LunchEnd == "" {
			continue
		}
		if !domain.ValidClock(d.LunchStart) || !domain.ValidClock(d.LunchEnd) {
			ve.Add(field+".lunch", "Intervalo inválido. Use HH:MM.")
			continue
		}
		lunchStart, lunchEnd := minutesOf(d.LunchStart), minutesOf(d.LunchEnd)
		if lunchEnd <= lunchStart || lunchStart < start || lunchEnd > end {
			ve.Add(field+".lunch", "O intervalo deve ficar dentro do expediente.")
		}
	}

	return ve.Err()
}

func minutesOf(hm string) int {
	t, _ := time.Parse("15:04", hm)
	return t.Hour()*60 + t.Minute()
}

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	var hours []models.WorkingHours
	if err := h.db.WithContext(c.Request.Context()).
		Where("user_id = ?", currentUser(c)).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {

		respondError(c, err, "failed_to_get_working_hours", "Erro ao buscar horários de atendimento.")
		return
	}

	httpresp.List(c, hours)
}

// Update replaces the whole week.
func (h *WorkingHoursHandler) Update(c *gin.Context) {
	userID := currentUser(c)

	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := validateDays(req.Days); err != nil {
		respondError(c, err, "", "")
		return
	}

	toCreate := make([]models.WorkingHours, 0, len(req.Days))
	for _, d := range req.Days {
		toCreate = append(toCreate, models.WorkingHours{
			UserID:     userID,
			Weekday:    d.Weekday,
			Active:     d.Active,
			StartTime:  d.StartTime,
			EndTime:    d.EndTime,
			LunchStart: d.LunchStart,
			LunchEnd:   d.LunchEnd,
		})
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.WorkingHours{}).Error; err != nil {
			return err
		}
		if len(toCreate) == 0 {
			return nil
		}
		return tx.Create(&toCreate).Error
	})
	if err != nil {
		respondError(c, err, "failed_to_save_working_hours", "Erro ao salvar horários de atendimento.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID: userID,
		Action: "working_hours_updated",
		Entity: "working_hours",
	})

	httpresp.List(c, toCreate)
}
