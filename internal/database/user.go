package database

import (
	"context"
	"time"

	"github.com/thereayou/classroom-chat/internal/models"
)

func (d *Database) CreateUser(ctx context.Context, user *models.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	return translate(d.db.WithContext(ctx).Create(user).Error)
}

func (d *Database) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := d.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// UserIDByUsername returns ErrNotFound when no such user exists.
func (d *Database) UserIDByUsername(ctx context.Context, username string) (int64, error) {
	var user models.User
	err := d.db.WithContext(ctx).
		Select("id").
		Where("username = ?", username).
		First(&user).Error
	if err != nil {
		return 0, translate(err)
	}
	return user.ID, nil
}

func (d *Database) SetOnline(ctx context.Context, username string, online bool) error {
	res := d.db.WithContext(ctx).
		Model(&models.User{}).
		Where("username = ?", username).
		Update("is_online", online)
	return d.updated(ctx, res, &models.User{}, "username = ?", username)
}

func (d *Database) ListUserStatuses(ctx context.Context) ([]models.UserStatus, error) {
	var users []models.UserStatus
	err := d.db.WithContext(ctx).
		Model(&models.User{}).
		Select("username, is_online").
		Order("username ASC").
		Scan(&users).Error
	return users, translate(err)
}

// SeedAdmin creates the administrator unless one already exists.
// It reports whether a row was inserted.
func (d *Database) SeedAdmin(ctx context.Context, username, passwordHash string) (bool, error) {
	var count int64
	if err := d.db.WithContext(ctx).Model(&models.User{}).Where("is_admin = ?", true).Count(&count).Error; err != nil {
		return false, translate(err)
	}
	if count > 0 {
		return false, nil
	}

	admin := &models.User{
		Username:     username,
		PasswordHash: passwordHash,
		IsAdmin:      true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := d.CreateUser(ctx, admin); err != nil {
		return false, err
	}
	return true, nil
}
