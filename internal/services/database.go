package services

import (
	"context"
	"time"

	"github.com/thereayou/classroom-chat/internal/models"
)

// UserRepository is the slice of the persistence gateway the services need
// for accounts. *database.Database satisfies it.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	UserIDByUsername(ctx context.Context, username string) (int64, error)
	SetOnline(ctx context.Context, username string, online bool) error
	ListUserStatuses(ctx context.Context) ([]models.UserStatus, error)
}

type MessageRepository interface {
	ListMessages(ctx context.Context) ([]models.MessageView, error)
	FilterMessages(ctx context.Context, from, to *time.Time, pattern string) ([]models.MessageView, error)
	CreateMessage(ctx context.Context, message *models.Message) error
	MessageAuthorID(ctx context.Context, id int64) (int64, error)
	UpdateMessageText(ctx context.Context, id int64, text string) error
	DeleteMessage(ctx context.Context, id int64) error
}

type AuditRepository interface {
	CreateAuditLog(ctx context.Context, entry *models.AuditLog) error
	ListAuditLogs(ctx context.Context) ([]models.AuditLogView, error)
}

// Broadcaster is told once per committed mutation. Delivery is best effort.
type Broadcaster interface {
	Notify(ctx context.Context)
}
