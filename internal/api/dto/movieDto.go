package dto

import (
	"time"

	"filmhub/internal/api/models"
)

// CreateMovieDTO for user-submitted movies.
type CreateMovieDTO struct {
	Name      string `json:"name" binding:"required,min=1,max=200"`
	Intro     string `json:"intro" binding:"max=5000"`
	PosterURL string `json:"poster_url" binding:"omitempty,max=500"`
}

// MovieResponse is a catalog row enriched for the requesting viewer.
// AverageRating already carries the seed fallback: it equals the rating
// aggregate when at least one composite exists, the seeded initial rating
// otherwise.
type MovieResponse struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	PosterURL         string    `json:"poster_url"`
	Intro             string    `json:"intro"`
	InitialRating     float64   `json:"initial_rating"`
	AverageRating     float64   `json:"average_rating"`
	CommentCount      int64     `json:"comment_count"`
	Category          string    `json:"category"`
	Status            string    `json:"status"`
	UploaderNickname  string    `json:"uploader_nickname"`
	CreatedAt         time.Time `json:"created_at"`
	ViewerRating      *float64  `json:"user_rating,omitempty"`
	ViewerRatingNotes *string   `json:"user_comment,omitempty"`
}

// FromModelToMovieResponse fills the storage-backed fields; enrichment
// (average, counts, viewer rating) is layered on by the service.
func FromModelToMovieResponse(m *models.Movie) *MovieResponse {
	uploader := "unknown"
	if m.Uploader != nil && m.Uploader.Nickname != "" {
		uploader = m.Uploader.Nickname
	}
	return &MovieResponse{
		ID:               m.ID,
		Name:             m.Name,
		PosterURL:        m.PosterURL,
		Intro:            m.Intro,
		InitialRating:    m.InitialRating,
		Category:         m.Category,
		Status:           m.Status,
		UploaderNickname: uploader,
		CreatedAt:        m.CreatedAt,
	}
}

// DashboardResponse aggregates the admin overview numbers.
type DashboardResponse struct {
	TotalMovies    int64              `json:"total_movies"`
	PendingMovies  int64              `json:"pending_movies"`
	ApprovedMovies int64              `json:"approved_movies"`
	TotalUsers     int64              `json:"total_users"`
	AdminUsers     int64              `json:"admin_users"`
	TopMovies      []TopMovieResponse `json:"top_movies"`
	PendingList    []MovieResponse    `json:"pending_list"`
}

type TopMovieResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	CommentCount int64  `json:"comment_count"`
}
