package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/thereayou/classroom-chat/internal/config"
	"github.com/thereayou/classroom-chat/internal/models"
)

// Connect opens the configured driver and migrates the schema.
func Connect(cfg config.DatabaseConfig) (*Database, error) {
	var dialector gorm.Dialector
	driver := strings.ToLower(cfg.Driver)
	switch driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if driver == "sqlite" {
		// one connection keeps a :memory: database alive and serializes writers
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Message{}, &models.AuditLog{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Database{db: db}, nil
}
