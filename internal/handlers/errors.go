package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thereayou/classroom-chat/internal/handlers/dto"
	"github.com/thereayou/classroom-chat/internal/services"
)

// statusFor maps a service error onto an HTTP status. Message endpoints
// report ownership and unknown-user failures as 401.
func statusFor(err error, messageEndpoint bool) int {
	switch services.KindOf(err) {
	case services.KindValidation:
		return http.StatusBadRequest
	case services.KindAuthentication:
		return http.StatusUnauthorized
	case services.KindForbidden:
		if messageEndpoint {
			return http.StatusUnauthorized
		}
		return http.StatusForbidden
	case services.KindNotFound:
		if messageEndpoint {
			return http.StatusUnauthorized
		}
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error, messageEndpoint bool) {
	status := statusFor(err, messageEndpoint)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, dto.ErrorResponse{Error: "internal server error"})
		return
	}

	msg := http.StatusText(status)
	var se *services.Error
	if errors.As(err, &se) && se.Message != "" {
		msg = se.Message
	}
	c.JSON(status, dto.ErrorResponse{Error: msg})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msg})
}

func ok(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, dto.StatusResponse{Message: msg})
}
