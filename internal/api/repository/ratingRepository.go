package repository

import (
	"context"
	"fmt"

	"filmhub/internal/api/models"

	"gorm.io/gorm"
)

type RatingRepository interface {
	GetByUserAndMovie(ctx context.Context, userID string, movieID int64) (*models.Rating, error)
	UpsertComposite(ctx context.Context, userID string, movieID int64, composite float64) (*models.Rating, error)
	UpsertDimensions(ctx context.Context, rating *models.Rating) (*models.Rating, error)
	AverageComposite(ctx context.Context, movieID int64) (float64, error)
	AverageCompositeByMovie(ctx context.Context, movieIDs []int64) (map[int64]float64, error)
	DimensionAverages(ctx context.Context, movieID int64) (map[string]float64, error)
	CountByMovie(ctx context.Context, movieID int64) (int64, error)
	ListByUser(ctx context.Context, userID string) ([]models.Rating, error)
	ByUserForMovies(ctx context.Context, userID string, movieIDs []int64) (map[int64]models.Rating, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) GetByUserAndMovie(ctx context.Context, userID string, movieID int64) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// UpsertComposite writes only the composite column of the (user, movie) row,
// creating it when absent. The star-rating path: dimension columns are left
// exactly as they were. Insert-first inside one transaction; when the unique
// index rejects the insert, the savepoint rollback leaves the transaction
// live and the existing row is overwritten instead.
func (r *ratingRepository) UpsertComposite(ctx context.Context, userID string, movieID int64, composite float64) (*models.Rating, error) {
	var out models.Rating
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fresh := models.Rating{UserID: userID, MovieID: movieID, Composite: composite}
		err := createInSavepoint(tx, &fresh)
		switch {
		case err == nil:
			out = fresh
			return nil
		case IsUniqueViolation(err):
			if err := tx.Model(&models.Rating{}).
				Where("user_id = ? AND movie_id = ?", userID, movieID).
				Update("composite", composite).Error; err != nil {
				return fmt.Errorf("update composite: %w", err)
			}
			return tx.Where("user_id = ? AND movie_id = ?", userID, movieID).First(&out).Error
		default:
			return fmt.Errorf("create rating: %w", err)
		}
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpsertDimensions replaces all six dimension columns and the composite for
// the (user, movie) pair. Absent dimensions are stored as NULL, so Updates
// with a map rather than a struct (struct updates skip zero values).
func (r *ratingRepository) UpsertDimensions(ctx context.Context, rating *models.Rating) (*models.Rating, error) {
	values := map[string]interface{}{
		"plot_score":   rating.PlotScore,
		"acting_score": rating.ActingScore,
		"visual_score": rating.VisualScore,
		"music_score":  rating.MusicScore,
		"rhythm_score": rating.RhythmScore,
		"theme_score":  rating.ThemeScore,
		"composite":    rating.Composite,
		"comment":      rating.Comment,
	}

	var out models.Rating
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := createInSavepoint(tx, rating); err != nil {
			if !IsUniqueViolation(err) {
				return fmt.Errorf("create rating: %w", err)
			}
			if err := tx.Model(&models.Rating{}).
				Where("user_id = ? AND movie_id = ?", rating.UserID, rating.MovieID).
				Updates(values).Error; err != nil {
				return fmt.Errorf("update dimensions: %w", err)
			}
		}
		return tx.Where("user_id = ? AND movie_id = ?", rating.UserID, rating.MovieID).First(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// AverageComposite returns the mean composite across all raters, 0 when none.
func (r *ratingRepository) AverageComposite(ctx context.Context, movieID int64) (float64, error) {
	var avg struct {
		Average float64
	}
	err := r.db.WithContext(ctx).Model(&models.Rating{}).
		Select("COALESCE(AVG(composite), 0) as average").
		Where("movie_id = ?", movieID).
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	return avg.Average, nil
}

// AverageCompositeByMovie returns the mean composite per movie in one grouped
// query. Movies without raters are absent from the map, which reads as 0.
func (r *ratingRepository) AverageCompositeByMovie(ctx context.Context, movieIDs []int64) (map[int64]float64, error) {
	var rows []struct {
		MovieID int64
		Average float64
	}
	err := r.db.WithContext(ctx).Model(&models.Rating{}).
		Select("movie_id, AVG(composite) as average").
		Where("movie_id IN ?", movieIDs).
		Group("movie_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("average composites: %w", err)
	}
	out := make(map[int64]float64, len(rows))
	for _, row := range rows {
		out[row.MovieID] = row.Average
	}
	return out, nil
}

// DimensionAverages averages each dimension over the raters that supplied it.
// SQL AVG skips NULLs, which is exactly the "absent, not zero" rule; COALESCE
// turns a contributor-less dimension into 0.
func (r *ratingRepository) DimensionAverages(ctx context.Context, movieID int64) (map[string]float64, error) {
	var row struct {
		Plot   float64
		Acting float64
		Visual float64
		Music  float64
		Rhythm float64
		Theme  float64
	}
	err := r.db.WithContext(ctx).Model(&models.Rating{}).
		Select(`COALESCE(AVG(plot_score), 0) as plot,
			COALESCE(AVG(acting_score), 0) as acting,
			COALESCE(AVG(visual_score), 0) as visual,
			COALESCE(AVG(music_score), 0) as music,
			COALESCE(AVG(rhythm_score), 0) as rhythm,
			COALESCE(AVG(theme_score), 0) as theme`).
		Where("movie_id = ?", movieID).
		Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("dimension averages: %w", err)
	}
	return map[string]float64{
		"plot":   row.Plot,
		"acting": row.Acting,
		"visual": row.Visual,
		"music":  row.Music,
		"rhythm": row.Rhythm,
		"theme":  row.Theme,
	}, nil
}

func (r *ratingRepository) CountByMovie(ctx context.Context, movieID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Rating{}).Where("movie_id = ?", movieID).Count(&count).Error
	return count, err
}

func (r *ratingRepository) ListByUser(ctx context.Context, userID string) ([]models.Rating, error) {
	var ratings []models.Rating
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&ratings).Error
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

// ByUserForMovies returns the user's ratings for the given movies, keyed by
// movie id.
func (r *ratingRepository) ByUserForMovies(ctx context.Context, userID string, movieIDs []int64) (map[int64]models.Rating, error) {
	var ratings []models.Rating
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND movie_id IN ?", userID, movieIDs).
		Find(&ratings).Error
	if err != nil {
		return nil, err
	}
	out := make(map[int64]models.Rating, len(ratings))
	for _, rating := range ratings {
		out[rating.MovieID] = rating
	}
	return out, nil
}
