package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/practice-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/practice-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/practice-scheduler/internal/httperr"
	"github.com/BruksfildServices01/practice-scheduler/internal/httpresp"
	ucappointment "github.com/BruksfildServices01/practice-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create       *ucappointment.CreateAppointment
	update       *ucappointment.UpdateAppointment
	remove       *ucappointment.DeleteAppointment
	changeStatus *ucappointment.ChangeStatus
	byDate       *ucappointment.ListAppointmentsByDate
	byMonth      *ucappointment.ListAppointmentsByMonth
	series       *ucappointment.GetSeries
	availability *ucappointment.GetAvailability
	conflict     *ucappointment.CheckConflict
	preview      *ucappointment.PreviewSeriesConflicts
}

func NewAppointmentHandler(repo domain.Repository, dispatcher *audit.Dispatcher) *AppointmentHandler {
	return &AppointmentHandler{
		create:       ucappointment.NewCreateAppointment(repo, dispatcher, time.Now, domain.NewGroupID),
		update:       ucappointment.NewUpdateAppointment(repo, dispatcher, time.Now),
		remove:       ucappointment.NewDeleteAppointment(repo, dispatcher),
		changeStatus: ucappointment.NewChangeStatus(repo, dispatcher, time.Now),
		byDate:       ucappointment.NewListAppointmentsByDate(repo),
		byMonth:      ucappointment.NewListAppointmentsByMonth(repo),
		series:       ucappointment.NewGetSeries(repo),
		availability: ucappointment.NewGetAvailability(repo, time.Now),
		conflict:     ucappointment.NewCheckConflict(repo),
		preview:      ucappointment.NewPreviewSeriesConflicts(repo, time.Now),
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	AppointmentType string    `json:"appointment_type"`
	ClientID        *uint     `json:"client_id"`
	ServiceID       *uint     `json:"service_id"`
	StartTime       time.Time `json:"start_time" binding:"required"`
	EndTime         time.Time `json:"end_time"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Color           string    `json:"color"`
	IsOnline        bool      `json:"is_online"`
	OnlineURL       string    `json:"online_url"`
	Price           *float64  `json:"price"`
	Status          string    `json:"status"`
	Recurring       bool      `json:"recurring"`
	Frequency       string    `json:"frequency"`
	Count           int       `json:"count"`
	LaunchFinancial bool      `json:"launch_financial"`
}

type UpdateAppointmentRequest struct {
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	ClientID    *uint      `json:"client_id"`
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Color       *string    `json:"color"`
	Status      *string    `json:"status"`
	Price       *float64   `json:"price"`
	IsOnline    *bool      `json:"is_online"`
	OnlineURL   *string    `json:"online_url"`
	Scope       string     `json:"scope"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ConflictCheckRequest struct {
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
	ExcludeID *uint     `json:"exclude_id"`
}

type SeriesPreviewRequest struct {
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.create.Execute(c.Request.Context(), currentUser(c), ucappointment.CreateAppointmentInput{
		AppointmentType: req.AppointmentType,
		ClientID:        req.ClientID,
		ServiceID:       req.ServiceID,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		Title:           req.Title,
		Description:     req.Description,
		Color:           req.Color,
		IsOnline:        req.IsOnline,
		OnlineURL:       req.OnlineURL,
		Price:           req.Price,
		Status:          req.Status,
		Recurring:       req.Recurring,
		Frequency:       req.Frequency,
		Count:           req.Count,
		LaunchFinancial: req.LaunchFinancial,
	})
	if err != nil {
		respondError(c, err, "failed_to_create_appointment", "Erro ao criar agendamento.")
		return
	}

	httpresp.Created(c, result)
}

// ======================================================
// UPDATE
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	changes := domain.Changes{
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		ClientID:    req.ClientID,
		Title:       req.Title,
		Description: req.Description,
		Color:       req.Color,
		Price:       req.Price,
		IsOnline:    req.IsOnline,
		OnlineURL:   req.OnlineURL,
	}
	if req.Status != nil {
		s := domain.Status(*req.Status)
		changes.Status = &s
	}

	result, err := h.update.Execute(c.Request.Context(), currentUser(c), ucappointment.UpdateAppointmentInput{
		AppointmentID: id,
		Changes:       changes,
		Scope:         domain.Scope(req.Scope),
	})
	if err != nil {
		respondError(c, err, "failed_to_update_appointment", "Erro ao atualizar agendamento.")
		return
	}

	httpresp.OK(c, result)
}

// ======================================================
// DELETE
// ======================================================

// Delete takes ?scope=occurrence|series&financial=keep|delete. Missing answers
// come back as 409 scope_required / financial_choice_required.
func (h *AppointmentHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	result, err := h.remove.Execute(c.Request.Context(), currentUser(c), ucappointment.DeleteAppointmentInput{
		AppointmentID: id,
		Scope:         c.Query("scope"),
		Financial:     c.Query("financial"),
	})
	if err != nil {
		respondError(c, err, "failed_to_delete_appointment", "Erro ao excluir agendamento.")
		return
	}

	httpresp.OK(c, result)
}

// ======================================================
// STATUS
// ======================================================

func (h *AppointmentHandler) ChangeStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ap, err := h.changeStatus.Execute(c.Request.Context(), currentUser(c), id, domain.Status(req.Status))
	if err != nil {
		respondError(c, err, "failed_to_change_status", "Erro ao alterar status.")
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "Data obrigatória.")
		return
	}

	list, err := h.byDate.Execute(c.Request.Context(), currentUser(c), date)
	if err != nil {
		respondError(c, err, "failed_to_list_appointments", "Erro ao listar agendamentos.")
		return
	}

	httpresp.List(c, list)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	yearStr := c.Query("year")
	monthStr := c.Query("month")

	if yearStr == "" || monthStr == "" {
		httperr.BadRequest(c, "missing_year_or_month", "Ano e mês são obrigatórios.")
		return
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_year", "Ano inválido.")
		return
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_month", "Mês inválido.")
		return
	}

	list, err := h.byMonth.Execute(c.Request.Context(), currentUser(c), year, month)
	if err != nil {
		respondError(c, err, "failed_to_list_appointments", "Erro ao listar agendamentos.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":         year,
		"month":        month,
		"appointments": list,
	})
}

func (h *AppointmentHandler) Availability(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "Data obrigatória.")
		return
	}

	duration, _ := strconv.Atoi(c.Query("duration_min"))

	slots, err := h.availability.Execute(c.Request.Context(), currentUser(c), date, duration)
	if err != nil {
		respondError(c, err, "failed_to_get_availability", "Erro ao calcular horários livres.")
		return
	}

	httpresp.List(c, slots)
}

// ======================================================
// SERIES
// ======================================================

func (h *AppointmentHandler) GetSeries(c *gin.Context) {
	view, err := h.series.Execute(c.Request.Context(), currentUser(c), c.Param("group_id"))
	if err != nil {
		respondError(c, err, "failed_to_get_series", "Erro ao buscar série.")
		return
	}

	httpresp.OK(c, view)
}

func (h *AppointmentHandler) PreviewSeriesConflicts(c *gin.Context) {
	var req SeriesPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	conflicts, err := h.preview.Execute(c.Request.Context(), currentUser(c), c.Param("group_id"), req.StartTime, req.EndTime)
	if err != nil {
		respondError(c, err, "failed_to_check_conflicts", "Erro ao verificar conflitos.")
		return
	}

	httpresp.List(c, conflicts)
}

// ======================================================
// CONFLICT PREVIEW (formulário)
// ======================================================

func (h *AppointmentHandler) CheckConflict(c *gin.Context) {
	var req ConflictCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	candidate := domain.Interval{Start: req.StartTime, End: req.EndTime}
	hit, err := h.conflict.Execute(c.Request.Context(), currentUser(c), candidate, req.ExcludeID)
	if err != nil {
		respondError(c, err, "failed_to_check_conflicts", "Erro ao verificar conflitos.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"conflict": hit != nil,
		"with":     hit,
	})
}
