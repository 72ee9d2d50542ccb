package dto

import (
	"time"

	"filmhub/internal/api/models"
)

// StarRatingDTO is the single-value shortcut: it sets only the composite.
type StarRatingDTO struct {
	Score *float64 `json:"score" binding:"required"`
}

// MultiRatingDTO carries up to six dimension scores. A nil field means
// "not scored", which is distinct from an explicit 0.
type MultiRatingDTO struct {
	Plot    *float64 `json:"plot"`
	Acting  *float64 `json:"acting"`
	Visual  *float64 `json:"visual"`
	Music   *float64 `json:"music"`
	Rhythm  *float64 `json:"rhythm"`
	Theme   *float64 `json:"theme"`
	Comment string   `json:"comment" binding:"max=500"`
}

// RatingResponse echoes the stored row after an upsert.
type RatingResponse struct {
	MovieID   int64     `json:"movie_id"`
	Plot      *float64  `json:"plot,omitempty"`
	Acting    *float64  `json:"acting,omitempty"`
	Visual    *float64  `json:"visual,omitempty"`
	Music     *float64  `json:"music,omitempty"`
	Rhythm    *float64  `json:"rhythm,omitempty"`
	Theme     *float64  `json:"theme,omitempty"`
	Composite float64   `json:"composite"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromModelToRatingResponse(r *models.Rating) *RatingResponse {
	return &RatingResponse{
		MovieID:   r.MovieID,
		Plot:      r.PlotScore,
		Acting:    r.ActingScore,
		Visual:    r.VisualScore,
		Music:     r.MusicScore,
		Rhythm:    r.RhythmScore,
		Theme:     r.ThemeScore,
		Composite: r.Composite,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// AggregateRatingResponse reports the movie-level average and rater count.
type AggregateRatingResponse struct {
	MovieID     int64   `json:"movie_id"`
	Average     float64 `json:"average"`
	RatingCount int64   `json:"rating_count"`
}

// DimensionAveragesResponse reports the per-dimension means; a dimension
// nobody has scored reads 0.
type DimensionAveragesResponse struct {
	Plot   float64 `json:"plot"`
	Acting float64 `json:"acting"`
	Visual float64 `json:"visual"`
	Music  float64 `json:"music"`
	Rhythm float64 `json:"rhythm"`
	Theme  float64 `json:"theme"`
}
