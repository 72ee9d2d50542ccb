package service

import (
	"context"
	"errors"
	"math"

	"filmhub/internal/api/dto"
	"filmhub/internal/api/models"
	"filmhub/internal/api/repository"

	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

type ProfileService interface {
	GetProfile(ctx context.Context, viewer *models.User, targetUserID string) (*dto.ProfileResponse, error)
}

type profileService struct {
	userRepo    repository.UserRepository
	ratingRepo  repository.RatingRepository
	libraryRepo repository.LibraryRepository
	movieRepo   *repository.MovieRepo
}

func NewProfileService(
	userRepo repository.UserRepository,
	ratingRepo repository.RatingRepository,
	libraryRepo repository.LibraryRepository,
	movieRepo *repository.MovieRepo,
) ProfileService {
	return &profileService{
		userRepo:    userRepo,
		ratingRepo:  ratingRepo,
		libraryRepo: libraryRepo,
		movieRepo:   movieRepo,
	}
}

// GetProfile assembles a user's public activity: rating stats, watch list,
// collection, and — for the owner or an admin — their uploads including
// pending ones.
func (s *profileService) GetProfile(ctx context.Context, viewer *models.User, targetUserID string) (*dto.ProfileResponse, error) {
	target, err := s.userRepo.FindByID(targetUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	out := &dto.ProfileResponse{
		User:           *dto.FromModelToUserResponse(target),
		TopCategory:    "none",
		StatusMovies:   []dto.ProfileMovieEntry{},
		CollectMovies:  []dto.ProfileMovieEntry{},
		UploadedMovies: []dto.ProfileMovieEntry{},
	}

	ratings, err := s.ratingRepo.ListByUser(ctx, target.ID)
	if err != nil {
		return nil, err
	}
	if len(ratings) > 0 {
		var sum float64
		categoryCount := map[string]int{}
		for i := range ratings {
			sum += ratings[i].Composite
			if movie, err := s.movieRepo.GetByID(ctx, ratings[i].MovieID); err == nil {
				categoryCount[movie.Category]++
			}
		}
		out.AverageRating = math.Round(sum/float64(len(ratings))*10) / 10

		best := 0
		for category, n := range categoryCount {
			if n > best {
				best = n
				out.TopCategory = category
			}
		}
	}

	statuses, err := s.libraryRepo.ListWatchStatuses(ctx, target.ID)
	if err != nil {
		return nil, err
	}
	for i := range statuses {
		movie := statuses[i].Movie
		if movie == nil || movie.Status != models.StatusApproved {
			continue
		}
		out.StatusMovies = append(out.StatusMovies, dto.ProfileMovieEntry{
			ID:        movie.ID,
			Name:      movie.Name,
			PosterURL: movie.PosterURL,
			Status:    statuses[i].Status,
		})
	}

	collections, err := s.libraryRepo.ListCollections(ctx, target.ID)
	if err != nil {
		return nil, err
	}
	for i := range collections {
		movie := collections[i].Movie
		if movie == nil || movie.Status != models.StatusApproved {
			continue
		}
		out.CollectMovies = append(out.CollectMovies, dto.ProfileMovieEntry{
			ID:        movie.ID,
			Name:      movie.Name,
			PosterURL: movie.PosterURL,
		})
	}

	// Uploads expose moderation state, so they stay private to the owner and admins.
	if viewer != nil && (viewer.ID == target.ID || viewer.IsAdmin()) {
		uploads, err := s.movieRepo.ListByUploader(ctx, target.ID)
		if err != nil {
			return nil, err
		}
		for i := range uploads {
			out.UploadedMovies = append(out.UploadedMovies, dto.ProfileMovieEntry{
				ID:        uploads[i].ID,
				Name:      uploads[i].Name,
				PosterURL: uploads[i].PosterURL,
				Status:    uploads[i].Status,
			})
		}
	}
	return out, nil
}
