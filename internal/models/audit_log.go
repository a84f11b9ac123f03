package models

import "time"

// AuditLog is append-only: rows are inserted and never updated or deleted.
type AuditLog struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	UserID     int64     `gorm:"not null;index:idx_audit_logs_user_id"`
	Action     string    `gorm:"size:128;not null"`
	TimeAction time.Time `gorm:"not null;index:idx_audit_logs_time_action"`

	User User `gorm:"foreignKey:UserID"`
}

type AuditLogView struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Action     string    `json:"action"`
	TimeAction time.Time `json:"timeAction"`
}
