package dto

import "time"

type AddMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

type EditMessageRequest struct {
	MessageID int64  `json:"messageId" binding:"required,gt=0"`
	NewText   string `json:"newText" binding:"required"`
}

// FilterRequest bounds are optional; a missing bound is open.
type FilterRequest struct {
	Text string     `json:"text"`
	From *time.Time `json:"from"`
	To   *time.Time `json:"to"`
}
