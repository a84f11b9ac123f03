package database

import (
	"context"
	"time"

	"github.com/thereayou/classroom-chat/internal/models"
)

func (d *Database) CreateAuditLog(ctx context.Context, entry *models.AuditLog) error {
	if entry.TimeAction.IsZero() {
		entry.TimeAction = time.Now().UTC()
	}
	return translate(d.db.WithContext(ctx).Omit("User").Create(entry).Error)
}

// ListAuditLogs returns entries newest first.
func (d *Database) ListAuditLogs(ctx context.Context) ([]models.AuditLogView, error) {
	var logs []models.AuditLogView
	err := d.db.WithContext(ctx).
		Model(&models.AuditLog{}).
		Select("audit_logs.id, users.username, audit_logs.action, audit_logs.time_action").
		Joins("JOIN users ON users.id = audit_logs.user_id").
		Order("audit_logs.time_action DESC").
		Order("audit_logs.id DESC").
		Scan(&logs).Error
	return logs, translate(err)
}
