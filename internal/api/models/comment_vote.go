package models

// Vote types for CommentVote.
const (
	VoteLike    = "like"
	VoteDislike = "dislike"
)

// CommentVote records a user's single vote on a comment. Resubmitting the
// same type removes the row (toggle off); the opposite type flips VoteType
// in place. The (user_id, comment_id) unique index serializes concurrent
// votes from the same user.
type CommentVote struct {
	ID        int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    string `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_user_comment_vote"`
	CommentID int64  `json:"comment_id" gorm:"not null;uniqueIndex:idx_user_comment_vote;index"`
	VoteType  string `json:"vote_type" gorm:"size:10;not null"`

	// Associations
	User    User    `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Comment Comment `json:"comment,omitempty" gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE;"`
}

func (CommentVote) TableName() string {
	return "comment_votes"
}
