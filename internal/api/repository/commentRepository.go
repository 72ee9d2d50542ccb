package repository

import (
	"context"
	"fmt"

	"filmhub/internal/api/models"

	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, commentID int64) (*models.Comment, error)
	RootsByMovie(ctx context.Context, movieID int64) ([]models.Comment, error)
	RepliesOf(ctx context.Context, parentID int64) ([]models.Comment, error)
	LatestReply(ctx context.Context, parentID int64) (*models.Comment, error)
	CountReplies(ctx context.Context, parentID int64) (int64, error)
	CountByMovie(ctx context.Context, movieID int64) (int64, error)
	CountByMovies(ctx context.Context, movieIDs []int64) (map[int64]int64, error)
	DeleteCascade(ctx context.Context, commentID int64) error
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, commentID int64) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		First(&comment, commentID).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// RootsByMovie returns the movie's root comments, newest first.
func (r *commentRepository) RootsByMovie(ctx context.Context, movieID int64) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Where("movie_id = ? AND parent_id IS NULL", movieID).
		Preload("User").
		Order("created_at DESC, id DESC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("list root comments: %w", err)
	}
	return comments, nil
}

// RepliesOf returns every direct reply of the given comment, oldest first.
func (r *commentRepository) RepliesOf(ctx context.Context, parentID int64) ([]models.Comment, error) {
	var replies []models.Comment
	err := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Preload("User").
		Order("created_at ASC, id ASC").
		Find(&replies).Error
	if err != nil {
		return nil, fmt.Errorf("list replies: %w", err)
	}
	return replies, nil
}

// LatestReply returns the single most recent reply, or nil when there is none.
func (r *commentRepository) LatestReply(ctx context.Context, parentID int64) (*models.Comment, error) {
	var reply models.Comment
	err := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Preload("User").
		Order("created_at DESC, id DESC").
		First(&reply).Error
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &reply, nil
}

func (r *commentRepository) CountReplies(ctx context.Context, parentID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("parent_id = ?", parentID).Count(&count).Error
	return count, err
}

func (r *commentRepository) CountByMovie(ctx context.Context, movieID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("movie_id = ?", movieID).Count(&count).Error
	return count, err
}

// CountByMovies returns the comment count per movie in one grouped query.
// Movies without comments are absent from the map.
func (r *commentRepository) CountByMovies(ctx context.Context, movieIDs []int64) (map[int64]int64, error) {
	var rows []struct {
		MovieID int64
		Total   int64
	}
	err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Select("movie_id, COUNT(*) as total").
		Where("movie_id IN ?", movieIDs).
		Group("movie_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}
	out := make(map[int64]int64, len(rows))
	for _, row := range rows {
		out[row.MovieID] = row.Total
	}
	return out, nil
}

// DeleteCascade removes a comment, its direct replies (parent_id match only),
// and every vote on the comment or those replies, all in one transaction.
// Votes on unrelated comments are untouched.
func (r *commentRepository) DeleteCascade(ctx context.Context, commentID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var replyIDs []int64
		if err := tx.Model(&models.Comment{}).
			Where("parent_id = ?", commentID).
			Pluck("id", &replyIDs).Error; err != nil {
			return fmt.Errorf("collect replies: %w", err)
		}

		victims := append(replyIDs, commentID)
		if err := tx.Where("comment_id IN ?", victims).Delete(&models.CommentVote{}).Error; err != nil {
			return fmt.Errorf("delete votes: %w", err)
		}
		if err := tx.Where("parent_id = ?", commentID).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("delete replies: %w", err)
		}
		if err := tx.Delete(&models.Comment{}, commentID).Error; err != nil {
			return fmt.Errorf("delete comment: %w", err)
		}
		return nil
	})
}
