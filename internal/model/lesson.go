package model

import (
	"time"

	"gorm.io/gorm"
)

// Lesson is a booked slot on a schedule. Teacher and student must both be
// members of the owning schedule's studio. The model is migrated for
// completeness; booking operations are not exposed yet.
type Lesson struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	Slug       string         `json:"slug" gorm:"type:varchar(100);uniqueIndex;not null"`
	ScheduleID uint           `json:"schedule_id" gorm:"index;not null"`
	TeacherID  uint           `json:"teacher_id" gorm:"index;not null"`
	StudentID  uint           `json:"student_id" gorm:"index;not null"`
	Day        string         `json:"day" gorm:"type:varchar(20)"`
	StartTime  string         `json:"start_time" gorm:"type:varchar(20)"`
	Duration   string         `json:"duration" gorm:"type:varchar(20)"`
	Location   string         `json:"location" gorm:"type:varchar(200)"`
	LessonRate float64        `json:"lesson_rate"`
	Status     string         `json:"status" gorm:"type:varchar(20)"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}
