package service

import (
	"context"
	"errors"
	"strings"

	"filmhub/internal/api/dto"
	"filmhub/internal/api/models"
	"filmhub/internal/api/repository"

	"gorm.io/gorm"
)

var (
	ErrEmptyContent    = errors.New("comment content must not be empty")
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotRootComment  = errors.New("comment is not a root comment")
	ErrNotCommentOwner = errors.New("no permission to delete this comment")
	ErrInvalidVoteType = errors.New("vote type must be like or dislike")
)

// RegionResolver is the geolocation collaborator boundary. Implementations
// must never fail: any lookup problem degrades to "unknown".
type RegionResolver interface {
	Resolve(ctx context.Context, ip string) string
}

type CommentService interface {
	PostComment(ctx context.Context, author *models.User, movieID int64, req dto.CreateCommentDTO, ip string) (*dto.CommentResponse, error)
	ListComments(ctx context.Context, movieID int64) ([]dto.ThreadResponse, error)
	ListReplies(ctx context.Context, rootID int64) ([]dto.CommentResponse, error)
	DeleteComment(ctx context.Context, requester *models.User, commentID int64) error
	VoteComment(ctx context.Context, userID string, commentID int64, voteType string) (*dto.VoteResultResponse, error)
}

type commentService struct {
	commentRepo repository.CommentRepository
	voteRepo    repository.VoteRepository
	ratingRepo  repository.RatingRepository
	movieRepo   *repository.MovieRepo
	regions     RegionResolver
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	voteRepo repository.VoteRepository,
	ratingRepo repository.RatingRepository,
	movieRepo *repository.MovieRepo,
	regions RegionResolver,
) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		voteRepo:    voteRepo,
		ratingRepo:  ratingRepo,
		movieRepo:   movieRepo,
		regions:     regions,
	}
}

// PostComment creates a root comment or a reply on an approved movie. An
// unresolvable parent id is cleared rather than rejected, matching the
// permissive thread model. The submitter's IP is resolved to a coarse region
// label, best effort.
func (s *commentService) PostComment(ctx context.Context, author *models.User, movieID int64, req dto.CreateCommentDTO, ip string) (*dto.CommentResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if err := s.requireApproved(ctx, movieID); err != nil {
		return nil, err
	}

	parentID := req.ParentID
	var rootAuthorNickname string
	if parentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *parentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				parentID = nil // dangling parent reference: post as a root comment
			} else {
				return nil, err
			}
		} else {
			rootAuthorNickname = parent.User.Nickname
		}
	}

	comment := &models.Comment{
		MovieID:  movieID,
		UserID:   author.ID,
		Content:  content,
		ParentID: parentID,
		IPRegion: s.regions.Resolve(ctx, ip),
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	comment.User = *author
	resp := dto.FromModelToCommentResponse(comment, repository.VoteTally{})
	resp.ParentUserNickname = rootAuthorNickname
	return resp, nil
}

// ListComments returns the movie's threads: roots newest-first, each with its
// reply total, its single most recent reply, vote tallies, and the root
// author's rating of the movie.
func (s *commentService) ListComments(ctx context.Context, movieID int64) ([]dto.ThreadResponse, error) {
	if err := s.requireApproved(ctx, movieID); err != nil {
		return nil, err
	}

	roots, err := s.commentRepo.RootsByMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}

	threads := make([]dto.ThreadResponse, 0, len(roots))
	for i := range roots {
		root := &roots[i]

		tally, err := s.voteRepo.Tally(ctx, root.ID)
		if err != nil {
			return nil, err
		}
		thread := dto.ThreadResponse{
			CommentResponse: *dto.FromModelToCommentResponse(root, tally),
			Replies:         []dto.CommentResponse{},
		}

		if thread.ReplyTotal, err = s.commentRepo.CountReplies(ctx, root.ID); err != nil {
			return nil, err
		}
		latest, err := s.commentRepo.LatestReply(ctx, root.ID)
		if err != nil {
			return nil, err
		}
		if latest != nil {
			replyTally, err := s.voteRepo.Tally(ctx, latest.ID)
			if err != nil {
				return nil, err
			}
			reply := dto.FromModelToCommentResponse(latest, replyTally)
			reply.ParentUserNickname = root.User.Nickname
			thread.Replies = append(thread.Replies, *reply)
		}

		rating, err := s.ratingRepo.GetByUserAndMovie(ctx, root.UserID, movieID)
		if err == nil {
			thread.UserRating = &rating.Composite
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		threads = append(threads, thread)
	}
	return threads, nil
}

// ListReplies fetches every reply of a root comment, oldest first, unbounded.
func (s *commentService) ListReplies(ctx context.Context, rootID int64) ([]dto.CommentResponse, error) {
	root, err := s.commentRepo.GetByID(ctx, rootID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	if !root.IsRoot() {
		return nil, ErrNotRootComment
	}

	replies, err := s.commentRepo.RepliesOf(ctx, rootID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CommentResponse, 0, len(replies))
	for i := range replies {
		tally, err := s.voteRepo.Tally(ctx, replies[i].ID)
		if err != nil {
			return nil, err
		}
		resp := dto.FromModelToCommentResponse(&replies[i], tally)
		resp.ParentUserNickname = root.User.Nickname
		out = append(out, *resp)
	}
	return out, nil
}

// DeleteComment removes a comment, its direct replies, and the votes on all
// of them. Only the author or an admin may delete.
func (s *commentService) DeleteComment(ctx context.Context, requester *models.User, commentID int64) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	if comment.UserID != requester.ID && !requester.IsAdmin() {
		return ErrNotCommentOwner
	}
	return s.commentRepo.DeleteCascade(ctx, commentID)
}

// VoteComment advances the (user, comment) vote state machine and reports the
// resulting tallies.
func (s *commentService) VoteComment(ctx context.Context, userID string, commentID int64, voteType string) (*dto.VoteResultResponse, error) {
	if voteType != models.VoteLike && voteType != models.VoteDislike {
		return nil, ErrInvalidVoteType
	}
	if _, err := s.commentRepo.GetByID(ctx, commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}

	outcome, err := s.voteRepo.Apply(ctx, userID, commentID, voteType)
	if err != nil {
		return nil, err
	}
	tally, err := s.voteRepo.Tally(ctx, commentID)
	if err != nil {
		return nil, err
	}
	return &dto.VoteResultResponse{
		Outcome:      outcome,
		LikeCount:    tally.Likes,
		DislikeCount: tally.Dislikes,
	}, nil
}

func (s *commentService) requireApproved(ctx context.Context, movieID int64) error {
	movie, err := s.movieRepo.GetByID(ctx, movieID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMovieNotFound
		}
		return err
	}
	if movie.Status != models.StatusApproved {
		return ErrMovieNotApproved
	}
	return nil
}
