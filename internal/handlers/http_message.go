package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/thereayou/classroom-chat/internal/handlers/dto"
	"github.com/thereayou/classroom-chat/internal/services"
	"github.com/thereayou/classroom-chat/internal/session"
)

type HTTPMessageHandler struct {
	messages *services.MessageService
}

func NewHTTPMessageHandler(messages *services.MessageService) *HTTPMessageHandler {
	return &HTTPMessageHandler{messages: messages}
}

// GetMessages returns the full history, oldest first.
func (h *HTTPMessageHandler) GetMessages(c *gin.Context) {
	messages, err := h.messages.List(c.Request.Context(), session.FromGin(c))
	if err != nil {
		respondError(c, err, true)
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (h *HTTPMessageHandler) FilterMessages(c *gin.Context) {
	var req dto.FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid filter")
		return
	}

	messages, err := h.messages.Filter(c.Request.Context(), session.FromGin(c), req.From, req.To, req.Text)
	if err != nil {
		respondError(c, err, true)
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (h *HTTPMessageHandler) SendMessage(c *gin.Context) {
	var req dto.AddMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "text is required")
		return
	}

	if err := h.messages.Add(c.Request.Context(), session.FromGin(c), req.Text); err != nil {
		respondError(c, err, true)
		return
	}
	ok(c, "message added")
}

// UpdateMessage lets the author change the text of their message.
func (h *HTTPMessageHandler) UpdateMessage(c *gin.Context) {
	var req dto.EditMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "messageId and newText are required")
		return
	}

	if err := h.messages.Edit(c.Request.Context(), session.FromGin(c), req.MessageID, req.NewText); err != nil {
		respondError(c, err, true)
		return
	}
	ok(c, "message edited")
}

func (h *HTTPMessageHandler) DeleteMessage(c *gin.Context) {
	messageID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "invalid message id")
		return
	}

	if err := h.messages.Delete(c.Request.Context(), session.FromGin(c), messageID); err != nil {
		respondError(c, err, true)
		return
	}
	ok(c, "message deleted")
}
