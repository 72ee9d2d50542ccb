package models

import "time"

// Comment is either a root comment (ParentID nil) or a reply to a root.
// Nesting is assumed to be one level deep; the parent id is not validated
// beyond existence, so display logic treats the parent as the thread root.
type Comment struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    string    `json:"user_id" gorm:"type:uuid;not null;index"`
	MovieID   int64     `json:"movie_id" gorm:"not null;index"`
	Content   string    `json:"content" gorm:"not null;type:text"`
	ParentID  *int64    `json:"parent_id,omitempty" gorm:"index"`
	IPRegion  string    `json:"ip_region" gorm:"size:50;default:'unknown'"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	// Associations
	User  User  `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Movie Movie `json:"movie,omitempty" gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE;"`
}

func (Comment) TableName() string {
	return "comments"
}

// IsRoot reports whether the comment starts a thread.
func (c *Comment) IsRoot() bool {
	return c.ParentID == nil
}
