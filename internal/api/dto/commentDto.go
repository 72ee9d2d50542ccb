package dto

import (
	"time"

	"filmhub/internal/api/models"
	"filmhub/internal/api/repository"
)

// CreateCommentDTO for posting a root comment or a reply.
type CreateCommentDTO struct {
	Content  string `json:"content" binding:"required,min=1,max=5000"`
	ParentID *int64 `json:"parent_id"`
}

// VoteDTO for like/dislike submissions.
type VoteDTO struct {
	VoteType string `json:"vote_type" binding:"required,oneof=like dislike"`
}

// CommentResponse is one rendered comment, reply or root.
type CommentResponse struct {
	ID                 int64        `json:"id"`
	Content            string       `json:"content"`
	CreatedAt          time.Time    `json:"created_at"`
	IPRegion           string       `json:"ip_region"`
	User               UserResponse `json:"user"`
	ParentID           *int64       `json:"parent_id,omitempty"`
	ParentUserNickname string       `json:"parent_user_nickname,omitempty"`
	LikeCount          int64        `json:"like_count"`
	DislikeCount       int64        `json:"dislike_count"`
}

func FromModelToCommentResponse(c *models.Comment, tally repository.VoteTally) *CommentResponse {
	return &CommentResponse{
		ID:           c.ID,
		Content:      c.Content,
		CreatedAt:    c.CreatedAt,
		IPRegion:     c.IPRegion,
		User:         *FromModelToUserResponse(&c.User),
		ParentID:     c.ParentID,
		LikeCount:    tally.Likes,
		DislikeCount: tally.Dislikes,
	}
}

// ThreadResponse is a root comment with its reply summary and the root
// author's rating of the movie (threads are rating-contextualized).
type ThreadResponse struct {
	CommentResponse
	ReplyTotal int64             `json:"reply_total"`
	Replies    []CommentResponse `json:"replies"`
	UserRating *float64          `json:"user_rating"`
}

// VoteResultResponse reports the outcome of a vote transition plus the
// resulting tallies.
type VoteResultResponse struct {
	Outcome      string `json:"outcome"`
	LikeCount    int64  `json:"like_count"`
	DislikeCount int64  `json:"dislike_count"`
}
