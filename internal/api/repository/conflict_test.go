package repository

import (
	"context"
	"testing"

	"filmhub/internal/api/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// The upserts insert first and fall back to an update or delete when the
// unique index rejects the row. Each test here pre-creates the conflicting
// row so that fallback branch runs: the insert fails inside its savepoint
// and the follow-up statements must still succeed on the same transaction.

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
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

func seedUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		Username: "user-" + uuid.New().String()[:8],
		Password: "x",
		Nickname: uuid.New().String()[:8],
		Role:     "user",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedMovie(t *testing.T, db *gorm.DB) *models.Movie {
	t.Helper()
	movie := &models.Movie{
		Name:     "movie-" + uuid.New().String()[:8],
		Category: models.CategoryUserUpload,
		Status:   models.StatusApproved,
	}
	require.NoError(t, db.Create(movie).Error)
	return movie
}

func seedComment(t *testing.T, db *gorm.DB, userID string, movieID int64) *models.Comment {
	t.Helper()
	comment := &models.Comment{UserID: userID, MovieID: movieID, Content: "fine"}
	require.NoError(t, db.Create(comment).Error)
	return comment
}

func TestUpsertComposite_OverwritesAfterDuplicateInsert(t *testing.T) {
	db := newTestDB(t)
	repo := NewRatingRepository(db)
	user := seedUser(t, db)
	movie := seedMovie(t, db)

	plot := 7.0
	require.NoError(t, db.Create(&models.Rating{
		UserID: user.ID, MovieID: movie.ID, Composite: 6.5, PlotScore: &plot,
	}).Error)

	out, err := repo.UpsertComposite(context.Background(), user.ID, movie.ID, 9.0)
	require.NoError(t, err)
	assert.Equal(t, 9.0, out.Composite)
	// Only the composite moves; the dimension survives the fallback.
	require.NotNil(t, out.PlotScore)
	assert.Equal(t, 7.0, *out.PlotScore)

	var count int64
	db.Model(&models.Rating{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestUpsertDimensions_OverwritesAfterDuplicateInsert(t *testing.T) {
	db := newTestDB(t)
	repo := NewRatingRepository(db)
	user := seedUser(t, db)
	movie := seedMovie(t, db)

	music := 8.0
	require.NoError(t, db.Create(&models.Rating{
		UserID: user.ID, MovieID: movie.ID, Composite: 8.0, MusicScore: &music,
	}).Error)

	plot := 6.0
	out, err := repo.UpsertDimensions(context.Background(), &models.Rating{
		UserID: user.ID, MovieID: movie.ID, Composite: 6.0, PlotScore: &plot,
	})
	require.NoError(t, err)
	assert.Equal(t, 6.0, out.Composite)
	require.NotNil(t, out.PlotScore)
	assert.Equal(t, 6.0, *out.PlotScore)
	// The resubmission drops the dimension it no longer carries.
	assert.Nil(t, out.MusicScore)

	var count int64
	db.Model(&models.Rating{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestApply_TransitionsAfterDuplicateInsert(t *testing.T) {
	db := newTestDB(t)
	repo := NewVoteRepository(db)
	user := seedUser(t, db)
	movie := seedMovie(t, db)
	comment := seedComment(t, db, user.ID, movie.ID)

	require.NoError(t, db.Create(&models.CommentVote{
		UserID: user.ID, CommentID: comment.ID, VoteType: models.VoteLike,
	}).Error)

	outcome, err := repo.Apply(context.Background(), user.ID, comment.ID, models.VoteDislike)
	require.NoError(t, err)
	assert.Equal(t, VoteSwitched, outcome)

	outcome, err = repo.Apply(context.Background(), user.ID, comment.ID, models.VoteDislike)
	require.NoError(t, err)
	assert.Equal(t, VoteRemoved, outcome)

	var count int64
	db.Model(&models.CommentVote{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestSetWatchStatus_UpdatesAfterDuplicateInsert(t *testing.T) {
	db := newTestDB(t)
	repo := NewLibraryRepository(db)
	user := seedUser(t, db)
	movie := seedMovie(t, db)

	require.NoError(t, db.Create(&models.WatchStatus{
		UserID: user.ID, MovieID: movie.ID, Status: models.WatchWatching,
	}).Error)

	require.NoError(t, repo.SetWatchStatus(context.Background(), user.ID, movie.ID, models.WatchWatched))

	var rows []models.WatchStatus
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, models.WatchWatched, rows[0].Status)
}

func TestToggleCollection_RemovesAfterDuplicateInsert(t *testing.T) {
	db := newTestDB(t)
	repo := NewLibraryRepository(db)
	user := seedUser(t, db)
	movie := seedMovie(t, db)

	require.NoError(t, db.Create(&models.Collection{UserID: user.ID, MovieID: movie.ID}).Error)

	collected, err := repo.ToggleCollection(context.Background(), user.ID, movie.ID)
	require.NoError(t, err)
	assert.False(t, collected)

	var count int64
	db.Model(&models.Collection{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestTagMovie_ReusesTagAfterDuplicateInsert(t *testing.T) {
	db := newTestDB(t)
	repo := NewLibraryRepository(db)
	user := seedUser(t, db)
	movie := seedMovie(t, db)

	require.NoError(t, db.Create(&models.Tag{Name: "classic"}).Error)

	require.NoError(t, repo.TagMovie(context.Background(), user.ID, movie.ID, "classic"))

	var tagCount int64
	db.Model(&models.Tag{}).Count(&tagCount)
	assert.Equal(t, int64(1), tagCount)

	var assoc models.MovieTag
	require.NoError(t, db.First(&assoc).Error)
	assert.Equal(t, movie.ID, assoc.MovieID)

	// Tagging the same movie with the same tag again is the one duplicate
	// that propagates, for the service to map to its conflict error.
	err := repo.TagMovie(context.Background(), user.ID, movie.ID, "classic")
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}
