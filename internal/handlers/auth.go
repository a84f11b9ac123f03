package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thereayou/classroom-chat/internal/handlers/dto"
	"github.com/thereayou/classroom-chat/internal/middleware"
	"github.com/thereayou/classroom-chat/internal/services"
	"github.com/thereayou/classroom-chat/internal/session"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "username and password are required")
		return
	}

	if err := h.auth.Register(c.Request.Context(), req.Username, req.Password); err != nil {
		respondError(c, err, false)
		return
	}

	ok(c, "registered successfully")
}

// Login issues a token and marks the user online.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "username and password are required")
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err, false)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Username: res.Username,
		IsAdmin:  res.IsAdmin,
		Token:    res.Token,
	})
}

// Logout always answers 200; without a valid token there is nothing to do.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.auth.Logout(c.Request.Context(), session.FromGin(c), c.GetString(middleware.RawTokenKey))
	c.Status(http.StatusOK)
}
