package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/practice-scheduler/internal/audit"
	"github.com/BruksfildServices01/practice-scheduler/internal/httperr"
	"github.com/BruksfildServices01/practice-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/practice-scheduler/internal/infra/imaging"
	"github.com/BruksfildServices01/practice-scheduler/internal/models"
	ucclient "github.com/BruksfildServices01/practice-scheduler/internal/usecase/client"
	"github.com/BruksfildServices01/practice-scheduler/internal/validators"
)

type ClientHandler struct {
	db     *gorm.DB
	audit  *audit.Dispatcher
	avatar *ucclient.UploadAvatar
}

func NewClientHandler(db *gorm.DB, dispatcher *audit.Dispatcher, avatar *ucclient.UploadAvatar) *ClientHandler {
	return &ClientHandler{db: db, audit: dispatcher, avatar: avatar}
}

// --------- Requests ---------

type ClientRequest struct {
	Name      *string `json:"name"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
	BirthDate *string `json:"birth_date"`
	Notes     *string `json:"notes"`
	Active    *bool   `json:"active"`
}

// apply copies the supplied fields onto c, collecting field errors.
func (r ClientRequest) apply(c *models.Client) error {
	ve := &httperr.ValidationError{}

	if r.Name != nil {
		c.Name = strings.TrimSpace(*r.Name)
	}
	if c.Name == "" {
		ve.Add("name", "Nome obrigatório.")
	}

	if r.Phone != nil {
		phone := strings.TrimSpace(*r.Phone)
		if phone != "" && !validators.IsPhone(phone) {
			ve.Add("phone", "Telefone inválido.")
		}
		c.Phone = phone
	}

	if r.Email != nil {
		email := validators.NormalizeEmail(*r.Email)
		if email != "" && !validators.IsEmailFormatValid(email) {
			ve.Add("email", "E-mail inválido.")
		}
		c.Email = email
	}

	if r.BirthDate != nil {
		if *r.BirthDate == "" {
			c.BirthDate = nil
		} else if d, err := time.Parse("2006-01-02", *r.BirthDate); err != nil {
			ve.Add("birth_date", "Data de nascimento inválida.")
		} else {
			c.BirthDate = &d
		}
	}

	if r.Notes != nil {
		c.Notes = *r.Notes
	}
	if r.Active != nil {
		c.Active = *r.Active
	}

	return ve.Err()
}

// ======================================================
// LIST
// ======================================================

func (h *ClientHandler) List(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).Where("user_id = ?", currentUser(c))

	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?",
			like, like, like,
		)
	}

	switch c.Query("active") {
	case "true":
		q = q.Where("active = ?", true)
	case "false":
		q = q.Where("active = ?", false)
	}

	var clients []models.Client
	if err := q.Order("name ASC").Find(&clients).Error; err != nil {
		respondError(c, err, "failed_to_list_clients", "Erro ao listar clientes.")
		return
	}

	httpresp.List(c, clients)
}

// ======================================================
// CRUD
// ======================================================

func (h *ClientHandler) Create(c *gin.Context) {
	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	client := models.Client{UserID: currentUser(c), Active: true}
	if err := req.apply(&client); err != nil {
		respondError(c, err, "", "")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&client).Error; err != nil {
		respondError(c, err, "failed_to_create_client", "Erro ao criar cliente.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   client.UserID,
		Action:   "client_created",
		Entity:   "client",
		EntityID: &client.ID,
	})

	httpresp.Created(c, client)
}

func (h *ClientHandler) find(c *gin.Context) (*models.Client, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return nil, false
	}

	var client models.Client
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND user_id = ?", id, currentUser(c)).
		First(&client).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "client_not_found", "Cliente não encontrado.")
			return nil, false
		}
		respondError(c, err, "failed_to_get_client", "Erro ao buscar cliente.")
		return nil, false
	}
	return &client, true
}

func (h *ClientHandler) Get(c *gin.Context) {
	client, ok := h.find(c)
	if !ok {
		return
	}
	httpresp.OK(c, client)
}

func (h *ClientHandler) Update(c *gin.Context) {
	client, ok := h.find(c)
	if !ok {
		return
	}

	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := req.apply(client); err != nil {
		respondError(c, err, "", "")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Save(client).Error; err != nil {
		respondError(c, err, "failed_to_update_client", "Erro ao atualizar cliente.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   client.UserID,
		Action:   "client_updated",
		Entity:   "client",
		EntityID: &client.ID,
	})

	httpresp.OK(c, client)
}

// Delete removes the client. Appointments keep their rows with client_id
// nulled by the foreign key.
func (h *ClientHandler) Delete(c *gin.Context) {
	client, ok := h.find(c)
	if !ok {
		return
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("client_id = ? AND user_id = ?", client.ID, client.UserID).
			Delete(&models.SessionNote{}).Error; err != nil {
			return err
		}
		return tx.Delete(client).Error
	})
	if err != nil {
		respondError(c, err, "failed_to_delete_client", "Erro ao excluir cliente.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   client.UserID,
		Action:   "client_deleted",
		Entity:   "client",
		EntityID: &client.ID,
		Metadata: gin.H{"name": client.Name},
	})

	httpresp.NoContent(c)
}

// ======================================================
// AVATAR
// ======================================================

// UploadAvatar accepts multipart field "avatar".
func (h *ClientHandler) UploadAvatar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, imaging.MaxUploadBytes+1<<20)

	file, err := c.FormFile("avatar")
	if err != nil {
		httperr.BadRequest(c, "missing_avatar", "Envie a imagem no campo avatar.")
		return
	}
	if file.Size > imaging.MaxUploadBytes {
		httperr.BadRequest(c, "avatar_too_large", "Imagem muito grande (máximo 5 MB).")
		return
	}

	f, err := file.Open()
	if err != nil {
		httperr.BadRequest(c, "invalid_image", "Imagem inválida.")
		return
	}
	defer f.Close()

	client, err := h.avatar.Execute(c.Request.Context(), currentUser(c), id, f)
	if err != nil {
		respondError(c, err, "failed_to_upload_avatar", "Erro ao salvar a foto.")
		return
	}

	httpresp.OK(c, client)
}
