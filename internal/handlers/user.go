package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thereayou/classroom-chat/internal/services"
	"github.com/thereayou/classroom-chat/internal/session"
)

type UserHandler struct {
	auth *services.AuthService
}

func NewUserHandler(auth *services.AuthService) *UserHandler {
	return &UserHandler{auth: auth}
}

// GetUsers lists every account with its online flag.
func (h *UserHandler) GetUsers(c *gin.Context) {
	users, err := h.auth.ListUsers(c.Request.Context(), session.FromGin(c))
	if err != nil {
		respondError(c, err, false)
		return
	}
	c.JSON(http.StatusOK, users)
}
