package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/practice-scheduler/internal/httperr"
	"github.com/BruksfildServices01/practice-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/practice-scheduler/internal/models"
)

type ServiceHandler struct {
	db *gorm.DB
}

func NewServiceHandler(db *gorm.DB) *ServiceHandler {
	return &ServiceHandler{db: db}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	DurationMin int     `json:"duration_min" binding:"required,min=1"`
	Price       float64 `json:"price" binding:"min=0"`
	Color       string  `json:"color"`
}

type UpdateServiceRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	DurationMin *int     `json:"duration_min,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Color       *string  `json:"color,omitempty"`
	Active      *bool    `json:"active,omitempty"`
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	activeStr := strings.TrimSpace(c.Query("active")) // "true", "false" ou vazio
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).Where("user_id = ?", currentUser(c))

	if activeStr == "true" {
		q = q.Where("active = ?", true)
	} else if activeStr == "false" {
		q = q.Where("active = ?", false)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		respondError(c, err, "failed_to_list_services", "Erro ao listar serviços.")
		return
	}

	httpresp.List(c, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		httperr.Validation(c, map[string]string{"name": "Nome obrigatório."})
		return
	}

	service := models.Service{
		UserID:      currentUser(c),
		Name:        name,
		Description: req.Description,
		DurationMin: req.DurationMin,
		Price:       req.Price,
		Color:       req.Color,
		Active:      true,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&service).Error; err != nil {
		respondError(c, err, "failed_to_create_service", "Erro ao criar serviço.")
		return
	}

	httpresp.Created(c, service)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var service models.Service
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND user_id = ?", id, currentUser(c)).
		First(&service).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "service_not_found", "Serviço não encontrado.")
			return
		}
		respondError(c, err, "failed_to_get_service", "Erro ao buscar serviço.")
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ve := &httperr.ValidationError{}
	if req.Name != nil {
		service.Name = strings.TrimSpace(*req.Name)
		if service.Name == "" {
			ve.Add("name", "Nome obrigatório.")
		}
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.DurationMin != nil {
		if *req.DurationMin < 1 {
			ve.Add("duration_min", "Duração deve ser de pelo menos 1 minuto.")
		}
		service.DurationMin = *req.DurationMin
	}
	if req.Price != nil {
		if *req.Price < 0 {
			ve.Add("price", "Preço não pode ser negativo.")
		}
		service.Price = *req.Price
	}
	if req.Color != nil {
		service.Color = *req.Color
	}
	if req.Active != nil {
		service.Active = *req.Active
	}
	if err := ve.Err(); err != nil {
		respondError(c, err, "", "")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&service).Error; err != nil {
		respondError(c, err, "failed_to_update_service", "Erro ao atualizar serviço.")
		return
	}

	httpresp.OK(c, service)
}
