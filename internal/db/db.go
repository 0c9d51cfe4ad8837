package db

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/practice-scheduler/internal/config"
	"github.com/BruksfildServices01/practice-scheduler/internal/models"
	"github.com/BruksfildServices01/practice-scheduler/internal/timezone"
)

func NewDB(cfg *config.Config, log *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.Service{},
		&models.WorkingHours{},
		&models.Appointment{},
		&models.Payment{},
		&models.SessionNote{},
		&models.AuditLog{},
	); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	// rows created before timezone was mandatory
	res := db.Exec(`
        UPDATE users
        SET timezone = ?
        WHERE timezone IS NULL OR timezone = ''
    `, timezone.Default())
	if res.Error != nil {
		log.Warn("timezone backfill failed", "error", res.Error)
	} else if res.RowsAffected > 0 {
		log.Info("timezone backfilled", "users", res.RowsAffected)
	}

	return db, nil
}
