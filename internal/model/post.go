package model

import (
	"time"

	"gorm.io/gorm"
)

// Post is a message inside a discussion. Edit and delete are restricted to
// the author; deleting a discussion deletes all its posts.
type Post struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	DiscussionID uint           `json:"discussion_id" gorm:"index;not null"`
	UserID       uint           `json:"user_id" gorm:"index;not null"`
	Content      string         `json:"content" gorm:"type:text;not null"`
	IsEdited     bool           `json:"is_edited" gorm:"default:false"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}
