package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/practice-scheduler/internal/audit"
	"github.com/BruksfildServices01/practice-scheduler/internal/httperr"
	"github.com/BruksfildServices01/practice-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/practice-scheduler/internal/models"
)

// NoteHandler serves session notes (prontuário) kept per client.
type NoteHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewNoteHandler(db *gorm.DB, dispatcher *audit.Dispatcher) *NoteHandler {
	return &NoteHandler{db: db, audit: dispatcher}
}

type CreateNoteRequest struct {
	AppointmentID *uint  `json:"appointment_id"`
	Title         string `json:"title"`
	Content       string `json:"content" binding:"required"`
}

type UpdateNoteRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func (h *NoteHandler) owned(c *gin.Context, model any, id uint, notFound, msg string) bool {
	err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND user_id = ?", id, currentUser(c)).
		First(model).Error
	if err == nil {
		return true
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, notFound, msg)
		return false
	}
	respondError(c, err, "failed_to_load", "Erro ao buscar registro.")
	return false
}

func (h *NoteHandler) List(c *gin.Context) {
	clientID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var client models.Client
	if !h.owned(c, &client, clientID, "client_not_found", "Cliente não encontrado.") {
		return
	}

	var notes []models.SessionNote
	if err := h.db.WithContext(c.Request.Context()).
		Where("user_id = ? AND client_id = ?", client.UserID, client.ID).
		Order("created_at DESC").
		Find(&notes).Error; err != nil {
		respondError(c, err, "failed_to_list_notes", "Erro ao listar anotações.")
		return
	}

	httpresp.List(c, notes)
}

func (h *NoteHandler) Create(c *gin.Context) {
	clientID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		httperr.Validation(c, map[string]string{"content": "Conteúdo obrigatório."})
		return
	}

	var client models.Client
	if !h.owned(c, &client, clientID, "client_not_found", "Cliente não encontrado.") {
		return
	}

	if req.AppointmentID != nil {
		var ap models.Appointment
		if !h.owned(c, &ap, *req.AppointmentID, "appointment_not_found", "Agendamento não encontrado.") {
			return
		}
		if ap.ClientID == nil || *ap.ClientID != client.ID {
			httperr.Validation(c, map[string]string{"appointment_id": "O agendamento não pertence a este cliente."})
			return
		}
	}

	note := models.SessionNote{
		UserID:        client.UserID,
		ClientID:      client.ID,
		AppointmentID: req.AppointmentID,
		Title:         strings.TrimSpace(req.Title),
		Content:       req.Content,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&note).Error; err != nil {
		respondError(c, err, "failed_to_create_note", "Erro ao salvar anotação.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   note.UserID,
		Action:   "note_created",
		Entity:   "session_note",
		EntityID: &note.ID,
	})

	httpresp.Created(c, note)
}

func (h *NoteHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	var note models.SessionNote
	if !h.owned(c, &note, id, "note_not_found", "Anotação não encontrada.") {
		return
	}

	if req.Title != nil {
		note.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		if strings.TrimSpace(*req.Content) == "" {
			httperr.Validation(c, map[string]string{"content": "Conteúdo obrigatório."})
			return
		}
		note.Content = *req.Content
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&note).Error; err != nil {
		respondError(c, err, "failed_to_update_note", "Erro ao salvar anotação.")
		return
	}

	httpresp.OK(c, note)
}

func (h *NoteHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	res := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND user_id = ?", id, currentUser(c)).
		Delete(&models.SessionNote{})
	if res.Error != nil {
		respondError(c, res.Error, "failed_to_delete_note", "Erro ao excluir anotação.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "note_not_found", "Anotação não encontrada.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   currentUser(c),
		Action:   "note_deleted",
		Entity:   "session_note",
		EntityID: &id,
	})

	httpresp.NoContent(c)
}
