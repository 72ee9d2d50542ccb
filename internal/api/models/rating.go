package models

import (
	"math"
	"time"
)

// Rating holds one user's opinion of one movie: up to six optional dimension
// scores plus the derived composite. A nil dimension means "not scored", which
// is different from a zero score. The (user_id, movie_id) pair is unique, so
// resubmissions overwrite in place.
type Rating struct {
	ID      int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID  string `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_user_movie_rating"`
	MovieID int64  `json:"movie_id" gorm:"not null;uniqueIndex:idx_user_movie_rating;index"`

	PlotScore   *float64 `json:"plot_score,omitempty"`
	ActingScore *float64 `json:"acting_score,omitempty"`
	VisualScore *float64 `json:"visual_score,omitempty"`
	MusicScore  *float64 `json:"music_score,omitempty"`
	RhythmScore *float64 `json:"rhythm_score,omitempty"`
	ThemeScore  *float64 `json:"theme_score,omitempty"`

	Composite float64   `json:"composite" gorm:"check:composite >= 0 AND composite <= 10"`
	Comment   string    `json:"comment" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	User  User  `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Movie Movie `json:"movie,omitempty" gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE;"`
}

func (Rating) TableName() string {
	return "ratings"
}

// Dimensions returns the six dimension scores in canonical order.
func (r *Rating) Dimensions() []*float64 {
	return []*float64{r.PlotScore, r.ActingScore, r.VisualScore, r.MusicScore, r.RhythmScore, r.ThemeScore}
}

// CompositeOf averages the non-nil dimension scores to one decimal place.
// All-nil input yields 0.0.
func CompositeOf(dims ...*float64) float64 {
	var sum float64
	var n int
	for _, d := range dims {
		if d != nil {
			sum += *d
			n++
		}
	}
	if n == 0 {
		return 0.0
	}
	return math.Round(sum/float64(n)*10) / 10
}
