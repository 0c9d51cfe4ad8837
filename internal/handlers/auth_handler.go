package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/practice-scheduler/internal/audit"
	"github.com/BruksfildServices01/practice-scheduler/internal/config"
	"github.com/BruksfildServices01/practice-scheduler/internal/httperr"
	"github.com/BruksfildServices01/practice-scheduler/internal/models"
	"github.com/BruksfildServices01/practice-scheduler/internal/timezone"
	"github.com/BruksfildServices01/practice-scheduler/internal/validators"
)

const tokenTTL = 24 * time.Hour

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config
	audit  *audit.Dispatcher
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config, dispatcher *audit.Dispatcher) *AuthHandler {
	return &AuthHandler{db: db, config: cfg, audit: dispatcher}
}

// --------- Requests ---------

type RegisterRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required"`
	Password     string `json:"password" binding:"required,min=6"`
	Phone        string `json:"phone"`
	PracticeName string `json:"practice_name"`
	Timezone     string `json:"timezone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	email := validators.NormalizeEmail(req.Email)
	if !validators.IsEmailFormatValid(email) {
		httperr.Validation(c, map[string]string{"email": "E-mail inválido."})
		return
	}
	if req.Phone != "" && !validators.IsPhone(req.Phone) {
		httperr.Validation(c, map[string]string{"phone": "Telefone inválido."})
		return
	}

	tz := req.Timezone
	if tz == "" {
		tz = timezone.Default()
	}
	if !timezone.IsValid(tz) {
		httperr.Validation(c, map[string]string{"timezone": "Fuso horário inválido."})
		return
	}

	if !validators.IsEmailDomainValid(c.Request.Context(), email) {
		httperr.BadRequest(c, "invalid_email_domain", "O domínio do e-mail informado não parece ser válido.")
		return
	}

	var count int64
	if err := h.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		respondError(c, err, "failed_to_create_user", "Erro ao criar conta.")
		return
	}
	if count > 0 {
		respondError(c, httperr.ErrBusiness("email_already_registered"), "", "")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Erro ao criar conta.")
		return
	}

	user := models.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         "professional",
		PracticeName: req.PracticeName,
		Timezone:     tz,
		FeedToken:    uuid.NewString(),
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			respondError(c, httperr.ErrBusiness("email_already_registered"), "", "")
			return
		}
		respondError(c, err, "failed_to_create_user", "Erro ao criar conta.")
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Erro ao gerar sessão.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   user.ID,
		Action:   "user_registered",
		Entity:   "user",
		EntityID: &user.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"user":  userResponse(&user),
		"token": token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	email := validators.NormalizeEmail(req.Email)

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Where("email = ?", email).
		First(&user).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "E-mail ou senha incorretos.")
			return
		}
		respondError(c, err, "internal_error", "Erro ao entrar.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "E-mail ou senha incorretos.")
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Erro ao gerar sessão.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  userResponse(&user),
		"token": token,
	})
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"exp":  now.Add(tokenTTL).Unix(),
		"iat":  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}

func userResponse(user *models.User) gin.H {
	return gin.H{
		"id":            user.ID,
		"name":          user.Name,
		"email":         user.Email,
		"phone":         user.Phone,
		"role":          user.Role,
		"practice_name": user.PracticeName,
		"timezone":      user.Timezone,
		"session_min":   user.SessionMin,
		"default_price": user.DefaultPrice,
	}
}
