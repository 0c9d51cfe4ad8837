package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/practice-scheduler/internal/audit"
	"github.com/BruksfildServices01/practice-scheduler/internal/httperr"
	"github.com/BruksfildServices01/practice-scheduler/internal/logging"
)

// Disconnector tells the messaging gateway to drop an instance.
type Disconnector interface {
	Enabled() bool
	Disconnect(ctx context.Context, instance string) error
}

type MessagingHandler struct {
	gateway Disconnector
	audit   *audit.Dispatcher
	timeout time.Duration
}

func NewMessagingHandler(gateway Disconnector, dispatcher *audit.Dispatcher) *MessagingHandler {
	return &MessagingHandler{gateway: gateway, audit: dispatcher, timeout: 10 * time.Second}
}

type DisconnectRequest struct {
	Instance string `json:"instance" binding:"required"`
}

// Disconnect answers 202 right away; the webhook call runs in background and
// its failure is only logged.
func (h *MessagingHandler) Disconnect(c *gin.Context) {
	if h.gateway == nil || !h.gateway.Enabled() {
		respondError(c, httperr.ErrBusiness("messaging_unavailable"), "", "")
		return
	}

	var req DisconnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	instance := strings.TrimSpace(req.Instance)
	if instance == "" {
		httperr.Validation(c, map[string]string{"instance": "Instância obrigatória."})
		return
	}

	userID := currentUser(c)
	logger := logging.FromContext(c.Request.Context())

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
		defer cancel()
		if err := h.gateway.Disconnect(ctx, instance); err != nil {
			logger.Warn("messaging disconnect failed", "instance", instance, "error", err)
		}
	}()

	h.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "messaging_disconnected",
		Entity:   "messaging",
		Metadata: gin.H{"instance": instance},
	})

	c.JSON(202, gin.H{"status": "accepted"})
}
