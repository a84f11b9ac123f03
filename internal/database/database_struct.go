package database

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type Database struct {
	db *gorm.DB
}

// DB exposes the underlying handle for callers that need raw access.
func (d *Database) DB() *gorm.DB {
	return d.db
}

func (d *Database) Close() error {
	if d.db == nil {
		return nil
	}
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// updated interprets the result of an UPDATE. MySQL reports changed rows
// rather than matched rows, so zero affected rows only means "not found"
// after the row is looked up.
func (d *Database) updated(ctx context.Context, res *gorm.DB, model interface{}, query string, args ...interface{}) error {
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}
	var count int64
	if err := d.db.WithContext(ctx).Model(model).Where(query, args...).Count(&count).Error; err != nil {
		return translate(err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

// translate maps driver errors onto the package sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey),
		strings.Contains(strings.ToLower(err.Error()), "unique"),
		strings.Contains(strings.ToLower(err.Error()), "duplicate"):
		return ErrDuplicate
	}
	return err
}
