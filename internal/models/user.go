package models

import "time"

type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"size:64;uniqueIndex:idx_users_username;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	IsOnline     bool      `gorm:"not null;default:false" json:"isOnline"`
	IsAdmin      bool      `gorm:"not null;default:false" json:"isAdmin"`
	CreatedAt    time.Time `gorm:"not null" json:"createdAt"`
}

// UserStatus is the public projection shown in the peer list.
type UserStatus struct {
	Username string `json:"username"`
	IsOnline bool   `json:"isOnline"`
}
