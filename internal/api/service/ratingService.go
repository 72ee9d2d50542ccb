package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"filmhub/internal/api/dto"
	"filmhub/internal/api/models"
	"filmhub/internal/api/repository"

	"gorm.io/gorm"
)

var (
	ErrInvalidScore   = errors.New("score must be between 0 and 10")
	ErrRatingNotFound = errors.New("rating not found")
)

type RatingService interface {
	SubmitStarRating(ctx context.Context, userID string, movieID int64, score float64) (*dto.RatingResponse, error)
	SubmitMultiRating(ctx context.Context, userID string, movieID int64, dims dto.MultiRatingDTO) (*dto.RatingResponse, error)
	GetUserRating(ctx context.Context, userID string, movieID int64) (*dto.RatingResponse, error)
	AggregateRating(ctx context.Context, movieID int64) (*dto.AggregateRatingResponse, error)
	DimensionAverages(ctx context.Context, movieID int64) (*dto.DimensionAveragesResponse, error)
}

type ratingService struct {
	ratingRepo repository.RatingRepository
	movieRepo  *repository.MovieRepo
}

func NewRatingService(ratingRepo repository.RatingRepository, movieRepo *repository.MovieRepo) RatingService {
	return &ratingService{
		ratingRepo: ratingRepo,
		movieRepo:  movieRepo,
	}
}

// SubmitStarRating upserts the (user, movie) row with the star value as the
// composite, leaving any stored dimension scores untouched. The star value
// wins over a previously computed dimension average, last write takes all.
func (s *ratingService) SubmitStarRating(ctx context.Context, userID string, movieID int64, score float64) (*dto.RatingResponse, error) {
	if score < 0 || score > 10 {
		return nil, ErrInvalidScore
	}
	if _, err := s.movieRepo.GetByID(ctx, movieID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}

	rating, err := s.ratingRepo.UpsertComposite(ctx, userID, movieID, score)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToRatingResponse(rating), nil
}

// SubmitMultiRating validates the supplied dimensions, recomputes the
// composite as the rounded mean of the non-nil scores, and upserts the row.
// Only approved movies accept dimension ratings.
func (s *ratingService) SubmitMultiRating(ctx context.Context, userID string, movieID int64, dims dto.MultiRatingDTO) (*dto.RatingResponse, error) {
	for _, d := range []*float64{dims.Plot, dims.Acting, dims.Visual, dims.Music, dims.Rhythm, dims.Theme} {
		if d != nil && (*d < 0 || *d > 10) {
			return nil, ErrInvalidScore
		}
	}

	movie, err := s.movieRepo.GetByID(ctx, movieID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	if movie.Status != models.StatusApproved {
		return nil, ErrMovieNotApproved
	}

	rating := &models.Rating{
		UserID:      userID,
		MovieID:     movieID,
		PlotScore:   dims.Plot,
		ActingScore: dims.Acting,
		VisualScore: dims.Visual,
		MusicScore:  dims.Music,
		RhythmScore: dims.Rhythm,
		ThemeScore:  dims.Theme,
		Comment:     strings.TrimSpace(dims.Comment),
	}
	rating.Composite = models.CompositeOf(rating.Dimensions()...)

	saved, err := s.ratingRepo.UpsertDimensions(ctx, rating)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToRatingResponse(saved), nil
}

func (s *ratingService) GetUserRating(ctx context.Context, userID string, movieID int64) (*dto.RatingResponse, error) {
	rating, err := s.ratingRepo.GetByUserAndMovie(ctx, userID, movieID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRatingNotFound
		}
		return nil, err
	}
	return dto.FromModelToRatingResponse(rating), nil
}

// AggregateRating returns the mean composite over all raters rounded to one
// decimal, 0.0 when nobody has rated. Display-level fallback to the seeded
// rating happens in the catalog enrichment, not here.
func (s *ratingService) AggregateRating(ctx context.Context, movieID int64) (*dto.AggregateRatingResponse, error) {
	if _, err := s.movieRepo.GetByID(ctx, movieID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}

	avg, err := s.ratingRepo.AverageComposite(ctx, movieID)
	if err != nil {
		return nil, err
	}
	count, err := s.ratingRepo.CountByMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}
	return &dto.AggregateRatingResponse{
		MovieID:     movieID,
		Average:     math.Round(avg*10) / 10,
		RatingCount: count,
	}, nil
}

func (s *ratingService) DimensionAverages(ctx context.Context, movieID int64) (*dto.DimensionAveragesResponse, error) {
	if _, err := s.movieRepo.GetByID(ctx, movieID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}

	avgs, err := s.ratingRepo.DimensionAverages(ctx, movieID)
	if err != nil {
		return nil, err
	}
	round1 := func(v float64) float64 { return math.Round(v*10) / 10 }
	return &dto.DimensionAveragesResponse{
		Plot:   round1(avgs["plot"]),
		Acting: round1(avgs["acting"]),
		Visual: round1(avgs["visual"]),
		Music:  round1(avgs["music"]),
		Rhythm: round1(avgs["rhythm"]),
		Theme:  round1(avgs["theme"]),
	}, nil
}
