package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/thereayou/classroom-chat/internal/database"
	"github.com/thereayou/classroom-chat/internal/models"
	"github.com/thereayou/classroom-chat/internal/session"
)

const (
	ActionRegister      = "register"
	ActionLogin         = "login"
	ActionLogout        = "logout"
	ActionAddMessage    = "add message"
	ActionEditMessage   = "edit message"
	ActionDeleteMessage = "delete message"
)

type AuditService struct {
	users  UserRepository
	audit  AuditRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewAuditService(users UserRepository, audit AuditRepository, logger *zap.Logger) *AuditService {
	return &AuditService{
		users:  users,
		audit:  audit,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Record appends an entry for username. It never fails the caller: unknown
// users are skipped and store errors are only logged.
func (s *AuditService) Record(ctx context.Context, username, action string) {
	userID, err := s.users.UserIDByUsername(ctx, username)
	if errors.Is(err, database.ErrNotFound) {
		return
	}
	if err != nil {
		s.logger.Warn("audit: resolve user failed",
			zap.String("username", username),
			zap.String("action", action),
			zap.Error(err))
		return
	}

	entry := &models.AuditLog{UserID: userID, Action: action, TimeAction: s.now()}
	if err := s.audit.CreateAuditLog(ctx, entry); err != nil {
		s.logger.Warn("audit: insert failed",
			zap.String("username", username),
			zap.String("action", action),
			zap.Error(err))
	}
}

func (s *AuditService) List(ctx context.Context, id session.Identity) ([]models.AuditLogView, error) {
	if !id.Valid() {
		return nil, authentication("authentication required")
	}
	if !id.IsAdmin {
		return nil, forbidden("admin access required")
	}

	logs, err := s.audit.ListAuditLogs(ctx)
	if err != nil {
		s.logger.Error("list audit logs", zap.Error(err))
		return nil, persistence("list audit logs", err)
	}
	if logs == nil {
		logs = []models.AuditLogView{}
	}
	return logs, nil
}
