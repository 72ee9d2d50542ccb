package repository

import (
	"context"
	"fmt"

	"filmhub/internal/api/models"

	"gorm.io/gorm"
)

// LibraryRepository groups the per-user movie associations: watch status,
// collection, and tags. Each is an independent unique-keyed upsert or toggle.
type LibraryRepository interface {
	SetWatchStatus(ctx context.Context, userID string, movieID int64, status string) error
	ListWatchStatuses(ctx context.Context, userID string) ([]models.WatchStatus, error)
	ToggleCollection(ctx context.Context, userID string, movieID int64) (collected bool, err error)
	ListCollections(ctx context.Context, userID string) ([]models.Collection, error)
	TagMovie(ctx context.Context, userID string, movieID int64, tagName string) error
}

type libraryRepository struct {
	db *gorm.DB
}

func NewLibraryRepository(db *gorm.DB) LibraryRepository {
	return &libraryRepository{db: db}
}

// SetWatchStatus upserts the (user, movie) watch state. Insert-first; the
// duplicate-key failure rolls back to a savepoint and the row is updated on
// the still-live transaction.
func (r *libraryRepository) SetWatchStatus(ctx context.Context, userID string, movieID int64, status string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ws := models.WatchStatus{UserID: userID, MovieID: movieID, Status: status}
		err := createInSavepoint(tx, &ws)
		if err == nil {
			return nil
		}
		if !IsUniqueViolation(err) {
			return fmt.Errorf("create watch status: %w", err)
		}
		return tx.Model(&models.WatchStatus{}).
			Where("user_id = ? AND movie_id = ?", userID, movieID).
			Update("status", status).Error
	})
}

func (r *libraryRepository) ListWatchStatuses(ctx context.Context, userID string) ([]models.WatchStatus, error) {
	var list []models.WatchStatus
	err := r.db.WithContext(ctx).
		Preload("Movie").
		Where("user_id = ?", userID).
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list watch statuses: %w", err)
	}
	return list, nil
}

// ToggleCollection creates the row when absent and removes it otherwise,
// reporting the resulting state. The unique index arbitrates: a rejected
// insert means the movie is already collected, so this call is the off-toggle.
func (r *libraryRepository) ToggleCollection(ctx context.Context, userID string, movieID int64) (bool, error) {
	var collected bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c := models.Collection{UserID: userID, MovieID: movieID}
		err := createInSavepoint(tx, &c)
		if err == nil {
			collected = true
			return nil
		}
		if !IsUniqueViolation(err) {
			return fmt.Errorf("create collection: %w", err)
		}
		collected = false
		return tx.Where("user_id = ? AND movie_id = ?", userID, movieID).Delete(&models.Collection{}).Error
	})
	return collected, err
}

func (r *libraryRepository) ListCollections(ctx context.Context, userID string) ([]models.Collection, error) {
	var list []models.Collection
	err := r.db.WithContext(ctx).
		Preload("Movie").
		Where("user_id = ?", userID).
		Order("added_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return list, nil
}

// TagMovie creates or reuses the tag row, then records the (user, movie, tag)
// association. A duplicate association surfaces as a unique violation for the
// service to map to its conflict error.
func (r *libraryRepository) TagMovie(ctx context.Context, userID string, movieID int64, tagName string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tag := models.Tag{Name: tagName}
		if err := createInSavepoint(tx, &tag); err != nil {
			if !IsUniqueViolation(err) {
				return fmt.Errorf("create tag: %w", err)
			}
			if err := tx.Where("name = ?", tagName).First(&tag).Error; err != nil {
				return err
			}
		}

		assoc := models.MovieTag{UserID: userID, MovieID: movieID, TagID: tag.ID}
		if err := tx.Create(&assoc).Error; err != nil {
			if IsUniqueViolation(err) {
				return err
			}
			return fmt.Errorf("tag movie: %w", err)
		}
		return nil
	})
}
