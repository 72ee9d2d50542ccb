package service

import (
	"context"
	"testing"

	"filmhub/internal/api/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database per test. TranslateError makes
// sqlite duplicate-key errors come back as gorm.ErrDuplicatedKey, same as the
// postgres driver in production.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// A named in-memory database per test: sharing one ":memory:" DSN across
	// tests would leak state between them through the connection pool.
	dsn := "file:" + uuid.New().String() + "?mode=memory&cache=shared&_fk=1"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Movie{},
		&models.Rating{},
		&models.Comment{},
		&models.CommentVote{},
		&models.WatchStatus{},
		&models.Collection{},
		&models.Tag{},
		&models.MovieTag{},
	))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func seedUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()
	user := &models.User{
		Username: "user-" + uuid.New().String()[:8],
		Password: "x",
		Nickname: uuid.New().String()[:8],
		Role:     role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedMovie(t *testing.T, db *gorm.DB, name, status string) *models.Movie {
	t.Helper()
	movie := &models.Movie{
		Name:     name,
		Category: models.CategoryUserUpload,
		Status:   status,
	}
	require.NoError(t, db.Create(movie).Error)
	return movie
}

// stubResolver satisfies RegionResolver without touching the network.
type stubResolver struct {
	region string
}

func (s stubResolver) Resolve(ctx context.Context, ip string) string {
	if s.region == "" {
		return "unknown"
	}
	return s.region
}

func ptr(v float64) *float64 {
	return &v
}
