package repository

import (
	"context"
	"fmt"
	"strings"

	"filmhub/internal/api/models"

	"gorm.io/gorm"
)

// Movie list sort modes, matching the query parameter values.
const (
	SortDefault = "default" // id asc, i.e. crawl order for seeded rows
	SortHot     = "hot"     // most commented first
	SortNew     = "new"     // newest first
)

type MovieRepo struct {
	db *gorm.DB
}

func NewMovieRepo(db *gorm.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

func (r *MovieRepo) GetByID(ctx context.Context, id int64) (*models.Movie, error) {
	var m models.Movie
	if err := r.db.WithContext(ctx).Preload("Uploader").First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MovieRepo) GetByName(ctx context.Context, name string) (*models.Movie, error) {
	var m models.Movie
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MovieRepo) Create(ctx context.Context, m *models.Movie) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("create movie: %w", err)
	}
	return nil
}

// SetStatus updates only the moderation status column.
func (r *MovieRepo) SetStatus(ctx context.Context, id int64, status string) error {
	if err := r.db.WithContext(ctx).Model(&models.Movie{}).
		Where("id = ?", id).
		Update("status", status).Error; err != nil {
		return fmt.Errorf("update movie status: %w", err)
	}
	return nil
}

// List returns movies visible to the viewer. approvedOnly hides pending rows
// (non-admin view); category filters when non-empty; sort is one of the Sort*
// constants, anything else falls back to SortDefault.
func (r *MovieRepo) List(ctx context.Context, approvedOnly bool, category, sort string) ([]models.Movie, error) {
	q := r.db.WithContext(ctx).Model(&models.Movie{}).Preload("Uploader")
	if approvedOnly {
		q = q.Where("status = ?", models.StatusApproved)
	}
	if category != "" {
		q = q.Where("category = ?", category)
	}

	switch sort {
	case SortHot:
		q = q.Joins("LEFT JOIN comments ON comments.movie_id = movies.id").
			Group("movies.id").
			Order("COUNT(comments.id) DESC")
	case SortNew:
		q = q.Order("movies.created_at DESC")
	default:
		q = q.Order("movies.id ASC")
	}

	var list []models.Movie
	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	return list, nil
}

// SearchByName performs a case-insensitive substring match on the movie name.
func (r *MovieRepo) SearchByName(ctx context.Context, keyword string, approvedOnly bool) ([]models.Movie, error) {
	q := r.db.WithContext(ctx).Preload("Uploader").
		Where("LOWER(name) LIKE ?", "%"+strings.ToLower(keyword)+"%")
	if approvedOnly {
		q = q.Where("status = ?", models.StatusApproved)
	}

	var list []models.Movie
	if err := q.Order("id ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("search movies: %w", err)
	}
	return list, nil
}

func (r *MovieRepo) ListByUploader(ctx context.Context, uploaderID string) ([]models.Movie, error) {
	var list []models.Movie
	if err := r.db.WithContext(ctx).
		Where("uploader_id = ?", uploaderID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	return list, nil
}

func (r *MovieRepo) ListByStatus(ctx context.Context, status string) ([]models.Movie, error) {
	var list []models.Movie
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list movies by status: %w", err)
	}
	return list, nil
}

func (r *MovieRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Movie{}).Count(&n).Error
	return n, err
}

func (r *MovieRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Movie{}).Where("status = ?", status).Count(&n).Error
	return n, err
}

// MovieCommentCount pairs a movie with its comment total for ranking views.
type MovieCommentCount struct {
	models.Movie
	CommentCount int64 `json:"comment_count"`
}

// TopByComments returns the most-commented approved movies.
func (r *MovieRepo) TopByComments(ctx context.Context, limit int) ([]MovieCommentCount, error) {
	var rows []MovieCommentCount
	err := r.db.WithContext(ctx).Model(&models.Movie{}).
		Select("movies.*, COUNT(comments.id) AS comment_count").
		Joins("LEFT JOIN comments ON comments.movie_id = movies.id").
		Where("movies.status = ?", models.StatusApproved).
		Group("movies.id").
		Order("COUNT(comments.id) DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("top movies by comments: %w", err)
	}
	return rows, nil
}

// ReplaceCategory deletes every movie of the given category and inserts the
// replacement batch in one transaction. Used by the seed import sweep.
func (r *MovieRepo) ReplaceCategory(ctx context.Context, category string, movies []models.Movie) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category = ?", category).Delete(&models.Movie{}).Error; err != nil {
			return fmt.Errorf("clear %s movies: %w", category, err)
		}
		if len(movies) == 0 {
			return nil
		}
		if err := tx.Create(&movies).Error; err != nil {
			return fmt.Errorf("insert %s movies: %w", category, err)
		}
		return nil
	})
}
