package models

import "time"

// Watch states for WatchStatus.
const (
	WatchWish     = "wish"
	WatchWatching = "watching"
	WatchWatched  = "watched"
)

// WatchStatus tracks a user's watch state for a movie. Upsert-only.
type WatchStatus struct {
	ID      int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID  string `gorm:"type:uuid;not null;uniqueIndex:idx_user_movie_status" json:"user_id"`
	MovieID int64  `gorm:"not null;uniqueIndex:idx_user_movie_status;index" json:"movie_id"`
	Status  string `gorm:"size:10;not null" json:"status"`

	// Associations
	User  *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Movie *Movie `gorm:"foreignKey:MovieID" json:"movie,omitempty"`
}

func (WatchStatus) TableName() string {
	return "watch_statuses"
}

// Collection marks a movie as favorited by a user. Toggled on and off.
type Collection struct {
	ID      int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID  string    `gorm:"type:uuid;not null;uniqueIndex:idx_user_movie_collection" json:"user_id"`
	MovieID int64     `gorm:"not null;uniqueIndex:idx_user_movie_collection;index" json:"movie_id"`
	AddedAt time.Time `gorm:"autoCreateTime" json:"added_at"`

	// Associations
	User  *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Movie *Movie `gorm:"foreignKey:MovieID" json:"movie,omitempty"`
}

func (Collection) TableName() string {
	return "collections"
}

// Tag is a free-text label shared across movies.
type Tag struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"uniqueIndex;size:20;not null" json:"name"`
}

func (Tag) TableName() string {
	return "tags"
}

// MovieTag associates one user's tag on one movie.
type MovieTag struct {
	ID      int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID  string `gorm:"type:uuid;not null;uniqueIndex:idx_user_movie_tag" json:"user_id"`
	MovieID int64  `gorm:"not null;uniqueIndex:idx_user_movie_tag;index" json:"movie_id"`
	TagID   int64  `gorm:"not null;uniqueIndex:idx_user_movie_tag" json:"tag_id"`

	// Associations
	Tag *Tag `gorm:"foreignKey:TagID" json:"tag,omitempty"`
}

func (MovieTag) TableName() string {
	return "movie_tags"
}
