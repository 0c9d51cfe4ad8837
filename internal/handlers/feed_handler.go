package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/practice-scheduler/internal/calendarfeed"
	domain "github.com/BruksfildServices01/practice-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/practice-scheduler/internal/httperr"
	"github.com/BruksfildServices01/practice-scheduler/internal/models"
)

// FeedHandler publishes the read-only ICS subscription. It is public: the
// token in the URL is the credential.
type FeedHandler struct {
	db   *gorm.DB
	repo domain.Repository
	now  func() time.Time
}

func NewFeedHandler(db *gorm.DB, repo domain.Repository) *FeedHandler {
	return &FeedHandler{db: db, repo: repo, now: time.Now}
}

func (h *FeedHandler) Calendar(c *gin.Context) {
	token := strings.TrimSuffix(c.Param("token"), ".ics")
	if _, err := uuid.Parse(token); err != nil {
		httperr.NotFound(c, "feed_not_found", "Agenda não encontrada.")
		return
	}

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Where("feed_token = ?", token).
		First(&user).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "feed_not_found", "Agenda não encontrada.")
			return
		}
		respondError(c, err, "failed_to_render_feed", "Erro ao gerar agenda.")
		return
	}

	now := h.now()
	apps, err := h.repo.ListAppointmentsForPeriod(
		c.Request.Context(),
		user.ID,
		now.Add(-calendarfeed.PastWindow),
		now.Add(calendarfeed.FutureWindow),
	)
	if err != nil {
		respondError(c, err, "failed_to_render_feed", "Erro ao gerar agenda.")
		return
	}

	c.Header("Cache-Control", "private, max-age=300")
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(calendarfeed.Render(&user, apps, now)))
}
