package models

import "time"

// Movie categories. Seeded rows carry CategoryDoubanTop250 and are replaced
// wholesale on every reimport; user submissions carry CategoryUserUpload.
const (
	CategoryDoubanTop250 = "DoubanTop250"
	CategoryUserUpload   = "UserUpload"
)

// Moderation states. The only transition is pending -> approved.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
)

type Movie struct {
	ID                  int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name                string    `json:"name" gorm:"uniqueIndex;size:200;not null"`
	PosterURL           string    `json:"poster_url" gorm:"size:500;default:'/static/posters/default.jpg'"`
	Intro               string    `json:"intro" gorm:"type:text"`
	InitialRating       float64   `json:"initial_rating" gorm:"default:0"` // seed rating, display fallback only
	InitialCommentCount int       `json:"initial_comment_count" gorm:"default:0"`
	Category            string    `json:"category" gorm:"size:20;default:'UserUpload';index"`
	Status              string    `json:"status" gorm:"size:10;default:'pending';index"`
	UploaderID          *string   `json:"uploader_id,omitempty" gorm:"type:uuid;index"` // nil for seeded rows
	CreatedAt           time.Time `json:"created_at" gorm:"autoCreateTime"`

	// Associations
	Uploader *User `json:"uploader,omitempty" gorm:"foreignKey:UploaderID"`
}

func (Movie) TableName() string {
	return "movies"
}
