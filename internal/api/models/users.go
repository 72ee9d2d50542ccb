package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Password  string    `gorm:"column:password_hash;not null" json:"-"` // Not show in JSON
	Nickname  string    `gorm:"uniqueIndex;not null" json:"nickname"`
	Role      string    `gorm:"default:'user';not null" json:"role"` // only 2 roles: "user", "admin" for now
	Avatar    string    `gorm:"default:'/static/avatars/default.jpg'" json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	// If the ID is not already set, generate a new one.
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

// IsAdmin reports whether the user holds the elevated moderation role.
func (user *User) IsAdmin() bool {
	return user.Role == "admin"
}

func (User) TableName() string {
	return "users"
}
