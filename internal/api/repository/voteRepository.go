package repository

import (
	"context"
	"fmt"

	"filmhub/internal/api/models"

	"gorm.io/gorm"
)

// Vote transition outcomes reported back to the service layer.
const (
	VoteCreated  = "created"  // none -> liked/disliked
	VoteRemoved  = "removed"  // same type again, toggled off
	VoteSwitched = "switched" // opposite type, flipped in place
)

// VoteTally is the like/dislike count pair for a comment.
type VoteTally struct {
	Likes    int64 `json:"like_count"`
	Dislikes int64 `json:"dislike_count"`
}

type VoteRepository interface {
	Apply(ctx context.Context, userID string, commentID int64, voteType string) (string, error)
	Tally(ctx context.Context, commentID int64) (VoteTally, error)
}

type voteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

// Apply runs one step of the per-(user, comment) vote state machine inside a
// transaction: create when no row exists, delete on a same-type resubmission,
// flip the type otherwise. The insert goes first; when the unique index
// rejects it, the savepoint rollback keeps the transaction live and the
// existing row is transitioned instead.
func (r *voteRepository) Apply(ctx context.Context, userID string, commentID int64, voteType string) (string, error) {
	var outcome string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		vote := models.CommentVote{UserID: userID, CommentID: commentID, VoteType: voteType}
		err := createInSavepoint(tx, &vote)
		if err == nil {
			outcome = VoteCreated
			return nil
		}
		if !IsUniqueViolation(err) {
			return fmt.Errorf("create vote: %w", err)
		}
		var existing models.CommentVote
		if err := tx.Where("user_id = ? AND comment_id = ?", userID, commentID).First(&existing).Error; err != nil {
			return err
		}
		return applyTransition(tx, &existing, voteType, &outcome)
	})
	if err != nil {
		return "", err
	}
	return outcome, nil
}

func applyTransition(tx *gorm.DB, existing *models.CommentVote, voteType string, outcome *string) error {
	if existing.VoteType == voteType {
		if err := tx.Delete(existing).Error; err != nil {
			return fmt.Errorf("remove vote: %w", err)
		}
		*outcome = VoteRemoved
		return nil
	}
	if err := tx.Model(existing).Update("vote_type", voteType).Error; err != nil {
		return fmt.Errorf("switch vote: %w", err)
	}
	*outcome = VoteSwitched
	return nil
}

func (r *voteRepository) Tally(ctx context.Context, commentID int64) (VoteTally, error) {
	var tally VoteTally
	if err := r.db.WithContext(ctx).Model(&models.CommentVote{}).
		Where("comment_id = ? AND vote_type = ?", commentID, models.VoteLike).
		Count(&tally.Likes).Error; err != nil {
		return tally, err
	}
	if err := r.db.WithContext(ctx).Model(&models.CommentVote{}).
		Where("comment_id = ? AND vote_type = ?", commentID, models.VoteDislike).
		Count(&tally.Dislikes).Error; err != nil {
		return tally, err
	}
	return tally, nil
}
