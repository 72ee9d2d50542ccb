package dto

// WatchStatusDTO sets the viewer's watch state for a movie.
type WatchStatusDTO struct {
	Status string `json:"status" binding:"required,oneof=wish watching watched"`
}

// TagDTO attaches a free-text tag to a movie.
type TagDTO struct {
	TagName string `json:"tag_name" binding:"required,min=1,max=20"`
}

// CollectionResultResponse reports the state after a collection toggle.
type CollectionResultResponse struct {
	Collected bool `json:"collected"`
}

// ProfileMovieEntry is a movie reference inside a profile listing.
type ProfileMovieEntry struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	PosterURL string `json:"poster_url"`
	Status    string `json:"status,omitempty"`
}

// ProfileResponse is the aggregate view of one user's activity.
type ProfileResponse struct {
	User           UserResponse        `json:"user"`
	AverageRating  float64             `json:"avg_rating"`
	TopCategory    string              `json:"top_category"`
	StatusMovies   []ProfileMovieEntry `json:"status_movies"`
	CollectMovies  []ProfileMovieEntry `json:"collect_movies"`
	UploadedMovies []ProfileMovieEntry `json:"uploaded_movies"`
}
