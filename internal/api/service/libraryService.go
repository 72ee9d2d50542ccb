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
	ErrInvalidWatchStatus = errors.New("invalid watch status")
	ErrAlreadyTagged      = errors.New("movie already carries this tag from you")
	ErrEmptyTag           = errors.New("tag must not be empty")
)

type LibraryService interface {
	SetWatchStatus(ctx context.Context, userID string, movieID int64, status string) error
	ToggleCollection(ctx context.Context, userID string, movieID int64) (*dto.CollectionResultResponse, error)
	TagMovie(ctx context.Context, userID string, movieID int64, tagName string) error
}

type libraryService struct {
	libraryRepo repository.LibraryRepository
	movieRepo   *repository.MovieRepo
}

func NewLibraryService(libraryRepo repository.LibraryRepository, movieRepo *repository.MovieRepo) LibraryService {
	return &libraryService{
		libraryRepo: libraryRepo,
		movieRepo:   movieRepo,
	}
}

func (s *libraryService) SetWatchStatus(ctx context.Context, userID string, movieID int64, status string) error {
	switch status {
	case models.WatchWish, models.WatchWatching, models.WatchWatched:
	default:
		return ErrInvalidWatchStatus
	}
	if err := s.requireApproved(ctx, movieID); err != nil {
		return err
	}
	return s.libraryRepo.SetWatchStatus(ctx, userID, movieID, status)
}

func (s *libraryService) ToggleCollection(ctx context.Context, userID string, movieID int64) (*dto.CollectionResultResponse, error) {
	if err := s.requireApproved(ctx, movieID); err != nil {
		return nil, err
	}
	collected, err := s.libraryRepo.ToggleCollection(ctx, userID, movieID)
	if err != nil {
		return nil, err
	}
	return &dto.CollectionResultResponse{Collected: collected}, nil
}

func (s *libraryService) TagMovie(ctx context.Context, userID string, movieID int64, tagName string) error {
	tagName = strings.TrimSpace(tagName)
	if tagName == "" {
		return ErrEmptyTag
	}
	if err := s.requireApproved(ctx, movieID); err != nil {
		return err
	}
	if err := s.libraryRepo.TagMovie(ctx, userID, movieID, tagName); err != nil {
		if repository.IsUniqueViolation(err) {
			return ErrAlreadyTagged
		}
		return err
	}
	return nil
}

func (s *libraryService) requireApproved(ctx context.Context, movieID int64) error {
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
