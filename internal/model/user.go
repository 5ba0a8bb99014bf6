package model

import (
	"time"

	"gorm.io/gorm"
)

// User represents the user model stored in the database
type User struct {
	ID                uint           `json:"id" gorm:"primaryKey"`
	Email             string         `json:"email" gorm:"type:varchar(100);uniqueIndex"`
	Password          string         `json:"-" gorm:"type:varchar(255)"`
	DisplayName       string         `json:"display_name" gorm:"type:varchar(100)"`
	Slug              string         `json:"slug" gorm:"type:varchar(100);uniqueIndex"`
	AvatarURL         string         `json:"avatar_url" gorm:"type:text"`
	DefaultStudioSlug string         `json:"default_studio_slug" gorm:"type:varchar(100)"`
	DarkTheme         bool           `json:"dark_theme" gorm:"default:false"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `json:"-" gorm:"index"`
}
