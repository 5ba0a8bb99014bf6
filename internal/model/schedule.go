package model

import (
	"time"

	"gorm.io/gorm"
)

// Day-of-week values accepted in availability windows.
var DaysOfWeek = map[string]bool{
	"monday":    true,
	"tuesday":   true,
	"wednesday": true,
	"thursday":  true,
	"friday":    true,
	"saturday":  true,
	"sunday":    true,
}

// AvailabilityWindow is a recurring weekly time range during which the
// teacher is bookable. Times are wall-clock strings, no timezone stored.
type AvailabilityWindow struct {
	DayOfWeek string `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Duration  string `json:"duration,omitempty"`
	Frequency string `json:"frequency,omitempty"`
}

// Schedule stores a teacher's recurring availability and the lessons booked
// against it. Exactly one schedule exists per (studio, teacher) pair.
type Schedule struct {
	ID           uint                 `json:"id" gorm:"primaryKey"`
	StudioID     uint                 `json:"studio_id" gorm:"index;not null"`
	TeacherID    uint                 `json:"teacher_id" gorm:"index;not null"`
	Slug         string               `json:"slug" gorm:"type:varchar(100);uniqueIndex;not null"`
	StudentIDs   IDList               `json:"student_ids" gorm:"serializer:json"`
	LessonIDs    IDList               `json:"lesson_ids" gorm:"serializer:json"`
	Availability []AvailabilityWindow `json:"availability" gorm:"serializer:json"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
	DeletedAt    gorm.DeletedAt       `json:"-" gorm:"index"`
}
