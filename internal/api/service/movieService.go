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
	ErrMovieNotFound    = errors.New("movie not found")
	ErrMovieNotApproved = errors.New("movie not approved")
	ErrMovieExists      = errors.New("movie already exists")
	ErrAlreadyApproved  = errors.New("movie already approved")
	ErrEmptyMovieName   = errors.New("movie name must not be empty")
)

// MovieSeed is one validated record produced by the seed-import collaborator.
type MovieSeed struct {
	Name                string
	PosterURL           string
	Intro               string
	InitialRating       float64
	InitialCommentCount int
}

type MovieService interface {
	CreateMovie(ctx context.Context, submitter *models.User, req dto.CreateMovieDTO) (*dto.MovieResponse, error)
	ApproveMovie(ctx context.Context, movieID int64) error
	GetMovie(ctx context.Context, viewer *models.User, movieID int64) (*dto.MovieResponse, error)
	ListMovies(ctx context.Context, viewer *models.User, category, sort string) ([]dto.MovieResponse, error)
	SearchMovies(ctx context.Context, viewer *models.User, keyword string) ([]dto.MovieResponse, error)
	ImportSeeds(ctx context.Context, seeds []MovieSeed) (int, error)
	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)
}

type movieService struct {
	movieRepo   *repository.MovieRepo
	ratingRepo  repository.RatingRepository
	commentRepo repository.CommentRepository
	userRepo    repository.UserRepository
}

func NewMovieService(
	movieRepo *repository.MovieRepo,
	ratingRepo repository.RatingRepository,
	commentRepo repository.CommentRepository,
	userRepo repository.UserRepository,
) MovieService {
	return &movieService{
		movieRepo:   movieRepo,
		ratingRepo:  ratingRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
	}
}

// CreateMovie registers a user-submitted movie. Admin submissions go live
// immediately; everything else waits for moderation.
func (s *movieService) CreateMovie(ctx context.Context, submitter *models.User, req dto.CreateMovieDTO) (*dto.MovieResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrEmptyMovieName
	}

	status := models.StatusPending
	if submitter.IsAdmin() {
		status = models.StatusApproved
	}

	movie := &models.Movie{
		Name:       name,
		Intro:      strings.TrimSpace(req.Intro),
		PosterURL:  req.PosterURL,
		Category:   models.CategoryUserUpload,
		Status:     status,
		UploaderID: &submitter.ID,
	}
	if movie.PosterURL == "" {
		movie.PosterURL = "/static/posters/default.jpg"
	}

	if err := s.movieRepo.Create(ctx, movie); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrMovieExists
		}
		return nil, err
	}

	movie.Uploader = submitter
	return dto.FromModelToMovieResponse(movie), nil
}

// ApproveMovie performs the one-way pending -> approved transition.
// Re-approving is rejected so the moderation log stays truthful.
func (s *movieService) ApproveMovie(ctx context.Context, movieID int64) error {
	movie, err := s.movieRepo.GetByID(ctx, movieID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMovieNotFound
		}
		return err
	}
	if movie.Status == models.StatusApproved {
		return ErrAlreadyApproved
	}
	return s.movieRepo.SetStatus(ctx, movieID, models.StatusApproved)
}

func (s *movieService) GetMovie(ctx context.Context, viewer *models.User, movieID int64) (*dto.MovieResponse, error) {
	movie, err := s.movieRepo.GetByID(ctx, movieID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	if movie.Status != models.StatusApproved && !viewer.IsAdmin() {
		return nil, ErrMovieNotFound
	}
	return s.enrich(ctx, viewer, movie)
}

// ListMovies returns the catalog visible to the viewer, sorted and enriched
// with the display rating and the viewer's own rating.
func (s *movieService) ListMovies(ctx context.Context, viewer *models.User, category, sort string) ([]dto.MovieResponse, error) {
	movies, err := s.movieRepo.List(ctx, !viewer.IsAdmin(), category, sort)
	if err != nil {
		return nil, err
	}
	return s.enrichAll(ctx, viewer, movies)
}

func (s *movieService) SearchMovies(ctx context.Context, viewer *models.User, keyword string) ([]dto.MovieResponse, error) {
	movies, err := s.movieRepo.SearchByName(ctx, strings.TrimSpace(keyword), !viewer.IsAdmin())
	if err != nil {
		return nil, err
	}
	return s.enrichAll(ctx, viewer, movies)
}

// ImportSeeds replaces the whole seeded category with the given batch:
// dedup by name, last seen wins, then a single delete-and-insert sweep.
// Returns the number of rows imported.
func (s *movieService) ImportSeeds(ctx context.Context, seeds []MovieSeed) (int, error) {
	byName := make(map[string]MovieSeed, len(seeds))
	order := make([]string, 0, len(seeds))
	for _, seed := range seeds {
		if strings.TrimSpace(seed.Name) == "" {
			continue
		}
		if _, seen := byName[seed.Name]; !seen {
			order = append(order, seed.Name)
		}
		byName[seed.Name] = seed
	}

	movies := make([]models.Movie, 0, len(byName))
	for _, name := range order {
		seed := byName[name]
		movies = append(movies, models.Movie{
			Name:                seed.Name,
			PosterURL:           seed.PosterURL,
			Intro:               seed.Intro,
			InitialRating:       seed.InitialRating,
			InitialCommentCount: seed.InitialCommentCount,
			Category:            models.CategoryDoubanTop250,
			Status:              models.StatusApproved,
		})
	}

	if err := s.movieRepo.ReplaceCategory(ctx, models.CategoryDoubanTop250, movies); err != nil {
		return 0, err
	}
	return len(movies), nil
}

func (s *movieService) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	out := &dto.DashboardResponse{}

	var err error
	if out.TotalMovies, err = s.movieRepo.Count(ctx); err != nil {
		return nil, err
	}
	if out.PendingMovies, err = s.movieRepo.CountByStatus(ctx, models.StatusPending); err != nil {
		return nil, err
	}
	if out.ApprovedMovies, err = s.movieRepo.CountByStatus(ctx, models.StatusApproved); err != nil {
		return nil, err
	}
	if out.TotalUsers, err = s.userRepo.Count(); err != nil {
		return nil, err
	}
	if out.AdminUsers, err = s.userRepo.CountByRole("admin"); err != nil {
		return nil, err
	}

	top, err := s.movieRepo.TopByComments(ctx, 10)
	if err != nil {
		return nil, err
	}
	out.TopMovies = make([]dto.TopMovieResponse, 0, len(top))
	for _, row := range top {
		out.TopMovies = append(out.TopMovies, dto.TopMovieResponse{
			ID:           row.ID,
			Name:         row.Name,
			CommentCount: row.CommentCount,
		})
	}

	pending, err := s.movieRepo.ListByStatus(ctx, models.StatusPending)
	if err != nil {
		return nil, err
	}
	out.PendingList = make([]dto.MovieResponse, 0, len(pending))
	for i := range pending {
		out.PendingList = append(out.PendingList, *dto.FromModelToMovieResponse(&pending[i]))
	}
	return out, nil
}

// enrichAll layers the derived display fields onto a batch of catalog rows
// with three grouped queries, so listing cost stays flat as the catalog grows.
func (s *movieService) enrichAll(ctx context.Context, viewer *models.User, movies []models.Movie) ([]dto.MovieResponse, error) {
	out := make([]dto.MovieResponse, 0, len(movies))
	if len(movies) == 0 {
		return out, nil
	}

	ids := make([]int64, len(movies))
	for i := range movies {
		ids[i] = movies[i].ID
	}

	avgs, err := s.ratingRepo.AverageCompositeByMovie(ctx, ids)
	if err != nil {
		return nil, err
	}
	counts, err := s.commentRepo.CountByMovies(ctx, ids)
	if err != nil {
		return nil, err
	}
	var mine map[int64]models.Rating
	if viewer != nil {
		if mine, err = s.ratingRepo.ByUserForMovies(ctx, viewer.ID, ids); err != nil {
			return nil, err
		}
	}

	for i := range movies {
		movie := &movies[i]
		resp := dto.FromModelToMovieResponse(movie)
		applyDisplayRating(resp, movie, avgs[movie.ID])
		resp.CommentCount = counts[movie.ID]
		if rating, ok := mine[movie.ID]; ok {
			applyViewerRating(resp, rating)
		}
		out = append(out, *resp)
	}
	return out, nil
}

// enrich is the single-row variant used by the detail endpoint.
func (s *movieService) enrich(ctx context.Context, viewer *models.User, movie *models.Movie) (*dto.MovieResponse, error) {
	resp := dto.FromModelToMovieResponse(movie)

	avg, err := s.ratingRepo.AverageComposite(ctx, movie.ID)
	if err != nil {
		return nil, err
	}
	applyDisplayRating(resp, movie, avg)

	if resp.CommentCount, err = s.commentRepo.CountByMovie(ctx, movie.ID); err != nil {
		return nil, err
	}

	if viewer != nil {
		rating, err := s.ratingRepo.GetByUserAndMovie(ctx, viewer.ID, movie.ID)
		if err == nil {
			applyViewerRating(resp, *rating)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return resp, nil
}

// applyDisplayRating rounds the aggregate and falls back to the seeded rating
// on 0.0; "no ratings yet" and "genuine zero average" are deliberately
// indistinguishable here.
func applyDisplayRating(resp *dto.MovieResponse, movie *models.Movie, avg float64) {
	avg = math.Round(avg*10) / 10
	if avg > 0 {
		resp.AverageRating = avg
	} else {
		resp.AverageRating = movie.InitialRating
	}
}

func applyViewerRating(resp *dto.MovieResponse, rating models.Rating) {
	composite := rating.Composite
	resp.ViewerRating = &composite
	if rating.Comment != "" {
		comment := rating.Comment
		resp.ViewerRatingNotes = &comment
	}
}
