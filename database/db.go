package database

import (
	"fmt"
	"log/slog"

	"filmhub/internal/api/models"
	"filmhub/internal/auth"
	"filmhub/internal/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func ConnectDB(cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		// TranslateError turns driver duplicate-key errors into
		// gorm.ErrDuplicatedKey so upsert paths can branch on them.
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access database handle: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("Connected to the database successfully")
	return db, nil
}

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Movie{},
		&models.Rating{},
		&models.Comment{},
		&models.CommentVote{},
		&models.WatchStatus{},
		&models.Collection{},
		&models.Tag{},
		&models.MovieTag{},
	)
}

// EnsureAdmin creates the bootstrap admin account on first startup. Skipped
// when any admin already exists or when no credentials are configured.
func EnsureAdmin(db *gorm.DB, cfg *config.Config, logger *slog.Logger) error {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		logger.Warn("No admin credentials configured, skipping admin bootstrap")
		return nil
	}

	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", "admin").Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count admin users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	admin := models.User{
		Username: cfg.AdminUsername,
		Password: hash,
		Nickname: cfg.AdminUsername,
		Role:     "admin",
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("Bootstrap admin user created", "username", cfg.AdminUsername)
	return nil
}
