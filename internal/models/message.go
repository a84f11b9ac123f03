package models

import "time"

type Message struct {
	ID           int64      `gorm:"primaryKey;autoIncrement"`
	Text         string     `gorm:"type:text;not null"`
	AuthorID     int64      `gorm:"not null;index:idx_messages_author_id"`
	CreatedAt    time.Time  `gorm:"not null;index:idx_messages_created_at"`
	LastModified *time.Time `gorm:"null"`

	// relations
	Author User `gorm:"foreignKey:AuthorID"`
}

// MessageView is a message joined with its author's username.
type MessageView struct {
	ID           int64      `json:"id"`
	AuthorID     int64      `json:"authorId"`
	Text         string     `json:"text"`
	Username     string     `json:"username"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastModified *time.Time `json:"lastModified,omitempty"`
}
