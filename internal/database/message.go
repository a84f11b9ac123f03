package database

import (
	"context"
	"strings"
	"time"

	"github.com/thereayou/classroom-chat/internal/models"
	"gorm.io/gorm"
)

const messageViewColumns = "messages.id, messages.author_id, messages.text, users.username, messages.created_at, messages.last_modified"

func (d *Database) messageViews(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx).
		Model(&models.Message{}).
		Select(messageViewColumns).
		Joins("JOIN users ON users.id = messages.author_id")
}

// ListMessages returns every message, oldest first.
func (d *Database) ListMessages(ctx context.Context) ([]models.MessageView, error) {
	var messages []models.MessageView
	err := d.messageViews(ctx).
		Order("messages.created_at ASC").
		Order("messages.id ASC").
		Scan(&messages).Error
	return messages, translate(err)
}

// FilterMessages narrows ListMessages to an inclusive time window and an
// optional substring. Nil bounds are open and a blank pattern matches
// everything.
func (d *Database) FilterMessages(ctx context.Context, from, to *time.Time, pattern string) ([]models.MessageView, error) {
	query := d.messageViews(ctx)
	if from != nil {
		query = query.Where("messages.created_at >= ?", from.UTC())
	}
	if to != nil {
		query = query.Where("messages.created_at <= ?", to.UTC())
	}
	if strings.TrimSpace(pattern) != "" {
		query = query.Where("messages.text LIKE ?", "%"+pattern+"%")
	}

	var messages []models.MessageView
	err := query.
		Order("messages.created_at ASC").
		Order("messages.id ASC").
		Scan(&messages).Error
	return messages, translate(err)
}

func (d *Database) CreateMessage(ctx context.Context, message *models.Message) error {
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}
	return translate(d.db.WithContext(ctx).Omit("Author").Create(message).Error)
}

// MessageAuthorID returns ErrNotFound when the message does not exist.
func (d *Database) MessageAuthorID(ctx context.Context, id int64) (int64, error) {
	var message models.Message
	err := d.db.WithContext(ctx).
		Select("author_id").
		Where("id = ?", id).
		First(&message).Error
	if err != nil {
		return 0, translate(err)
	}
	return message.AuthorID, nil
}

func (d *Database) UpdateMessageText(ctx context.Context, id int64, text string) error {
	now := time.Now().UTC()
	res := d.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"text": text, "last_modified": now})
	return d.updated(ctx, res, &models.Message{}, "id = ?", id)
}

func (d *Database) DeleteMessage(ctx context.Context, id int64) error {
	res := d.db.WithContext(ctx).Delete(&models.Message{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
