package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/practice-scheduler/internal/audit"
	"github.com/BruksfildServices01/practice-scheduler/internal/httperr"
	"github.com/BruksfildServices01/practice-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/practice-scheduler/internal/models"
	"github.com/BruksfildServices01/practice-scheduler/internal/timezone"
	"github.com/BruksfildServices01/practice-scheduler/internal/validators"
)

type MeHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewMeHandler(db *gorm.DB, dispatcher *audit.Dispatcher) *MeHandler {
	return &MeHandler{db: db, audit: dispatcher}
}

type UpdateMeRequest struct {
	Name         *string  `json:"name"`
	Phone        *string  `json:"phone"`
	PracticeName *string  `json:"practice_name"`
	Timezone     *string  `json:"timezone"`
	SessionMin   *int     `json:"session_min"`
	DefaultPrice *float64 `json:"default_price"`
}

func (h *MeHandler) load(c *gin.Context) (*models.User, bool) {
	var user models.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, currentUser(c)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "user_not_found", "Usuário não encontrado.")
			return nil, false
		}
		respondError(c, err, "failed_to_get_user", "Erro ao buscar usuário.")
		return nil, false
	}
	return &user, true
}

func (h *MeHandler) GetMe(c *gin.Context) {
	user, ok := h.load(c)
	if !ok {
		return
	}

	resp := userResponse(user)
	resp["feed_token"] = user.FeedToken
	httpresp.OK(c, gin.H{"user": resp})
}

func (h *MeHandler) UpdateMe(c *gin.Context) {
	user, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ve := &httperr.ValidationError{}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			ve.Add("name", "Nome obrigatório.")
		}
		user.Name = name
	}
	if req.Phone != nil {
		if *req.Phone != "" && !validators.IsPhone(*req.Phone) {
			ve.Add("phone", "Telefone inválido.")
		}
		user.Phone = *req.Phone
	}
	if req.PracticeName != nil {
		user.PracticeName = strings.TrimSpace(*req.PracticeName)
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			ve.Add("timezone", "Fuso horário inválido.")
		}
		user.Timezone = *req.Timezone
	}
	if req.SessionMin != nil {
		if *req.SessionMin < 5 || *req.SessionMin > 480 {
			ve.Add("session_min", "Duração da sessão deve estar entre 5 e 480 minutos.")
		}
		user.SessionMin = *req.SessionMin
	}
	if req.DefaultPrice != nil {
		if *req.DefaultPrice < 0 {
			ve.Add("default_price", "Valor padrão não pode ser negativo.")
		}
		user.DefaultPrice = *req.DefaultPrice
	}

	if err := ve.Err(); err != nil {
		respondError(c, err, "", "")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Save(user).Error; err != nil {
		respondError(c, err, "failed_to_update_user", "Erro ao salvar o perfil.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   user.ID,
		Action:   "profile_updated",
		Entity:   "user",
		EntityID: &user.ID,
		Metadata: req,
	})

	httpresp.OK(c, gin.H{"user": userResponse(user)})
}

// RotateFeedToken invalidates the current calendar subscription URL.
func (h *MeHandler) RotateFeedToken(c *gin.Context) {
	user, ok := h.load(c)
	if !ok {
		return
	}

	token := uuid.NewString()
	if err := h.db.WithContext(c.Request.Context()).
		Model(user).
		Update("feed_token", token).Error; err != nil {
		respondError(c, err, "failed_to_rotate_feed_token", "Erro ao gerar novo link da agenda.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID: user.ID,
		Action: "feed_token_rotated",
		Entity: "user",
	})

	httpresp.OK(c, gin.H{"feed_token": token})
}
