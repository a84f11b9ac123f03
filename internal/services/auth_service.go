package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/thereayou/classroom-chat/internal/database"
	"github.com/thereayou/classroom-chat/internal/models"
	"github.com/thereayou/classroom-chat/internal/session"
	"github.com/thereayou/classroom-chat/pkg/auth"
)

const minPasswordLength = 6

// TokenRevoker blacklists a token until it would have expired anyway.
type TokenRevoker interface {
	Revoke(ctx context.Context, token string) error
}

type LoginResult struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
	Token    string `json:"token"`
}

type AuthService struct {
	users     UserRepository
	tokens    *auth.JWTManager
	audit     *AuditService
	broadcast Broadcaster
	revoker   TokenRevoker
	logger    *zap.Logger
}

func NewAuthService(
	users UserRepository,
	tokens *auth.JWTManager,
	audit *AuditService,
	broadcast Broadcaster,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		audit:     audit,
		broadcast: broadcast,
		logger:    logger,
	}
}

// WithRevoker turns on token blacklisting at logout.
func (s *AuthService) WithRevoker(r TokenRevoker) *AuthService {
	s.revoker = r
	return s
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *AuthService) Register(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	// the password is stored exactly as typed; trimming only decides emptiness
	if username == "" || strings.TrimSpace(password) == "" {
		return validation("username and password are required")
	}
	if len(password) < minPasswordLength {
		return validation("password must be at least 6 characters")
	}

	_, err := s.users.UserIDByUsername(ctx, username)
	switch {
	case err == nil:
		return validation("username exists")
	case !errors.Is(err, database.ErrNotFound):
		s.logger.Error("register: lookup user", zap.String("username", username), zap.Error(err))
		return persistence("lookup user", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return persistence("hash password", err)
	}

	user := &models.User{Username: username, PasswordHash: hash}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return validation("username exists")
		}
		s.logger.Error("register: create user", zap.String("username", username), zap.Error(err))
		return persistence("create user", err)
	}

	s.audit.Record(context.WithoutCancel(ctx), username, ActionRegister)
	return nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return nil, validation("username and password are required")
	}

	user, err := s.users.FindUserByUsername(ctx, username)
	if errors.Is(err, database.ErrNotFound) {
		return nil, authentication("invalid username or password")
	}
	if err != nil {
		s.logger.Error("login: find user", zap.String("username", username), zap.Error(err))
		return nil, persistence("find user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, authentication("invalid username or password")
	}

	token, err := s.tokens.Generate(user.Username, user.IsAdmin)
	if err != nil {
		return nil, persistence("generate token", err)
	}

	if err := s.users.SetOnline(ctx, user.Username, true); err != nil {
		s.logger.Error("login: set online", zap.String("username", username), zap.Error(err))
		return nil, persistence("set online", err)
	}

	detached := context.WithoutCancel(ctx)
	s.audit.Record(detached, user.Username, ActionLogin)
	if s.broadcast != nil {
		s.broadcast.Notify(detached)
	}

	return &LoginResult{Username: user.Username, IsAdmin: user.IsAdmin, Token: token}, nil
}

// Logout never fails: an anonymous call is a no-op.
func (s *AuthService) Logout(ctx context.Context, id session.Identity, rawToken string) {
	if !id.Valid() {
		return
	}

	if err := s.users.SetOnline(ctx, id.Username, false); err != nil && !errors.Is(err, database.ErrNotFound) {
		s.logger.Warn("logout: set offline", zap.String("username", id.Username), zap.Error(err))
	}

	detached := context.WithoutCancel(ctx)
	s.audit.Record(detached, id.Username, ActionLogout)
	if s.broadcast != nil {
		s.broadcast.Notify(detached)
	}

	if s.revoker != nil && rawToken != "" {
		if err := s.revoker.Revoke(detached, rawToken); err != nil {
			s.logger.Warn("logout: revoke token", zap.String("username", id.Username), zap.Error(err))
		}
	}
}

func (s *AuthService) ListUsers(ctx context.Context, id session.Identity) ([]models.UserStatus, error) {
	if !id.Valid() {
		return nil, authentication("authentication required")
	}
	users, err := s.users.ListUserStatuses(ctx)
	if err != nil {
		s.logger.Error("list users", zap.Error(err))
		return nil, persistence("list users", err)
	}
	if users == nil {
		users = []models.UserStatus{}
	}
	return users, nil
}
