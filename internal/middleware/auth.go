package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/thereayou/classroom-chat/internal/session"
	"github.com/thereayou/classroom-chat/pkg/auth"
)

// RawTokenKey holds the bearer token of an authenticated request.
const RawTokenKey = "rawToken"

// RevocationChecker reports tokens revoked at logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type Authenticator struct {
	jwt     *auth.JWTManager
	revoked RevocationChecker
	logger  *zap.Logger
}

// NewAuthenticator builds the token middlewares. revoked may be nil.
func NewAuthenticator(jwtManager *auth.JWTManager, revoked RevocationChecker, logger *zap.Logger) *Authenticator {
	return &Authenticator{jwt: jwtManager, revoked: revoked, logger: logger}
}

// Required rejects requests without a valid bearer token.
func (a *Authenticator) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractTokenFromHeader(c.Request)
		if err != nil {
			abort(c, http.StatusUnauthorized, "missing or invalid token")
			return
		}
		if !a.authenticate(c, token) {
			return
		}
		c.Next()
	}
}

// Optional attaches an identity when a valid token is present and lets
// anonymous requests through.
func (a *Authenticator) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractTokenFromHeader(c.Request)
		if err == nil {
			if claims, err := a.verify(c, token); err == nil {
				a.attach(c, token, claims)
			}
		}
		c.Next()
	}
}

// WebSocket also accepts the token as ?token= or ?access_token=, since
// browsers cannot set headers on an upgrade request.
func (a *Authenticator) WebSocket() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			token = c.Query("access_token")
		}
		if token == "" {
			authHeader := c.GetHeader("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
				token = strings.TrimSpace(parts[1])
			}
		}

		if token == "" {
			abort(c, http.StatusUnauthorized, "missing token")
			return
		}
		if !a.authenticate(c, token) {
			return
		}
		c.Next()
	}
}

// RequireAdmin must run after Required.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := session.FromGin(c)
		if !id.Valid() {
			abort(c, http.StatusUnauthorized, "authentication required")
			return
		}
		if !id.IsAdmin {
			abort(c, http.StatusForbidden, "admin access required")
			return
		}
		c.Next()
	}
}

func (a *Authenticator) authenticate(c *gin.Context, token string) bool {
	claims, err := a.verify(c, token)
	if err != nil {
		abort(c, http.StatusUnauthorized, err.Error())
		return false
	}
	a.attach(c, token, claims)
	return true
}

type authError string

func (e authError) Error() string { return string(e) }

func (a *Authenticator) verify(c *gin.Context, token string) (*auth.Claims, error) {
	if a.revoked != nil {
		revoked, err := a.revoked.IsRevoked(c.Request.Context(), token)
		if err != nil {
			a.logger.Warn("revocation check failed", zap.Error(err))
			return nil, authError("cannot verify token")
		}
		if revoked {
			return nil, authError("token is revoked")
		}
	}

	claims, err := a.jwt.Verify(token)
	if err != nil {
		return nil, authError("invalid token")
	}
	return claims, nil
}

func (a *Authenticator) attach(c *gin.Context, token string, claims *auth.Claims) {
	session.Set(c, session.Identity{Username: claims.Username, IsAdmin: claims.IsAdmin})
	c.Set(RawTokenKey, token)
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
