package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thereayou/classroom-chat/internal/services"
	"github.com/thereayou/classroom-chat/internal/session"
)

type AuditHandler struct {
	audit *services.AuditService
}

func NewAuditHandler(audit *services.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	logs, err := h.audit.List(c.Request.Context(), session.FromGin(c))
	if err != nil {
		respondError(c, err, false)
		return
	}
	c.JSON(http.StatusOK, logs)
}
