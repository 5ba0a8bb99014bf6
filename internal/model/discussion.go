package model

import (
	"time"

	"gorm.io/gorm"
)

// Notification modes for a discussion.
const (
	NotificationDefault = "default"
	NotificationEmail   = "email"
)

// ValidNotificationType reports whether t is a known notification mode.
func ValidNotificationType(t string) bool {
	return t == NotificationDefault || t == NotificationEmail
}

// Discussion is a studio-scoped thread. Its member set is a subset of the
// studio's members; the slug is unique per studio, not globally.
type Discussion struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	StudioID         uint           `json:"studio_id" gorm:"not null;uniqueIndex:idx_discussion_studio_slug"`
	CreatedUserID    uint           `json:"created_user_id" gorm:"index;not null"`
	Name             string         `json:"name" gorm:"type:varchar(200);not null"`
	Slug             string         `json:"slug" gorm:"type:varchar(200);not null;uniqueIndex:idx_discussion_studio_slug"`
	MemberIDs        IDList         `json:"member_ids" gorm:"serializer:json"`
	NotificationType string         `json:"notification_type" gorm:"type:varchar(20);default:'default'"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"index"`
}
