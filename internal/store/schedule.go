package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"studio-service/internal/apperr"
	"studio-service/internal/guard"
	"studio-service/internal/model"
	"studio-service/pkg/slugify"
)

// ScheduleStore owns the per-studio teaching schedule: availability windows,
// the enrolled student set and lesson references.
type ScheduleStore struct {
	db *gorm.DB
}

func NewScheduleStore(db *gorm.DB) *ScheduleStore {
	return &ScheduleStore{db: db}
}

func (s *ScheduleStore) slugTaken(candidate string) (bool, error) {
	var count int64
	if err := s.db.Model(&model.Schedule{}).Where("slug = ?", candidate).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create opens the schedule for a (studio, teacher) pair. Teacher only, and
// at most one schedule may exist per pair.
func (s *ScheduleStore) Create(actorID, studioID uint) (*model.Schedule, error) {
	if _, err := guard.CheckOwner(s.db, actorID, studioID); err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&model.Schedule{}).
		Where("studio_id = ? AND teacher_id = ?", studioID, actorID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: schedule already exists for studio %d", apperr.ErrConflict, studioID)
	}

	scheduleSlug, err := slugify.GenerateNumber(s.slugTaken)
	if err != nil {
		if errors.Is(err, slugify.ErrExhausted) {
			return nil, fmt.Errorf("%w: no free schedule slug", apperr.ErrConflict)
		}
		return nil, err
	}

	schedule := &model.Schedule{
		StudioID:     studioID,
		TeacherID:    actorID,
		Slug:         scheduleSlug,
		StudentIDs:   model.IDList{},
		LessonIDs:    model.IDList{},
		Availability: []model.AvailabilityWindow{},
	}
	if err := s.db.Create(schedule).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: schedule slug %q", apperr.ErrConflict, scheduleSlug)
		}
		return nil, err
	}
	return schedule, nil
}

// Get returns the studio's schedule; any member may read it.
func (s *ScheduleStore) Get(actorID, studioID uint) (*model.Schedule, error) {
	if _, err := guard.CheckMembership(s.db, actorID, studioID, nil); err != nil {
		return nil, err
	}

	var schedule model.Schedule
	if err := s.db.Where("studio_id = ?", studioID).First(&schedule).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: schedule for studio %d", apperr.ErrNotFound, studioID)
		}
		return nil, err
	}
	return &schedule, nil
}

func validateWindows(windows []model.AvailabilityWindow) error {
	for _, w := range windows {
		if !model.DaysOfWeek[w.DayOfWeek] {
			return fmt.Errorf("%w: unknown day of week %q", apperr.ErrValidation, w.DayOfWeek)
		}
		if w.StartTime == "" || w.EndTime == "" {
			return fmt.Errorf("%w: availability window needs start and end times", apperr.ErrValidation)
		}
	}
	return nil
}

// ReplaceAvailability merges the incoming windows into the schedule day by
// day. Windows for days not mentioned in the incoming set stay untouched;
// windows for mentioned days are overwritten in place, with extra incoming
// windows for a day appended. Teacher only.
func (s *ScheduleStore) ReplaceAvailability(actorID, studioID uint, windows []model.AvailabilityWindow) (*model.Schedule, error) {
	if err := validateWindows(windows); err != nil {
		return nil, err
	}
	if _, err := guard.CheckOwner(s.db, actorID, studioID); err != nil {
		return nil, err
	}

	schedule, err := s.loadForTeacher(studioID, actorID)
	if err != nil {
		return nil, err
	}

	incoming := make(map[string][]model.AvailabilityWindow)
	for _, w := range windows {
		incoming[w.DayOfWeek] = append(incoming[w.DayOfWeek], w)
	}

	// Overwrite mentioned days in place, keep unmentioned days as they are,
	// then append whatever incoming windows found no slot.
	merged := make([]model.AvailabilityWindow, 0, len(schedule.Availability)+len(windows))
	for _, existing := range schedule.Availability {
		day := existing.DayOfWeek
		replacements, mentioned := incoming[day]
		if !mentioned {
			merged = append(merged, existing)
			continue
		}
		if len(replacements) > 0 {
			merged = append(merged, replacements[0])
			incoming[day] = replacements[1:]
		}
	}
	seen := make(map[string]bool)
	for _, w := range windows {
		if !seen[w.DayOfWeek] {
			seen[w.DayOfWeek] = true
			merged = append(merged, incoming[w.DayOfWeek]...)
		}
	}

	schedule.Availability = merged
	// Serialized columns only go through the json serializer on the map form
	// of Updates, not on single-column Update.
	if err := s.db.Model(schedule).Updates(map[string]interface{}{
		"availability": schedule.Availability,
	}).Error; err != nil {
		return nil, err
	}
	return schedule, nil
}

// AppendWindow adds a single window without looking at what is already there.
// Calling it twice with the same window stores two copies. Teacher only.
func (s *ScheduleStore) AppendWindow(actorID, studioID uint, window model.AvailabilityWindow) (*model.Schedule, error) {
	if err := validateWindows([]model.AvailabilityWindow{window}); err != nil {
		return nil, err
	}
	if _, err := guard.CheckOwner(s.db, actorID, studioID); err != nil {
		return nil, err
	}

	schedule, err := s.loadForTeacher(studioID, actorID)
	if err != nil {
		return nil, err
	}

	schedule.Availability = append(schedule.Availability, window)
	if err := s.db.Model(schedule).Updates(map[string]interface{}{
		"availability": schedule.Availability,
	}).Error; err != nil {
		return nil, err
	}
	return schedule, nil
}

// UpdateStudents merges studentIDs into the schedule's enrolled set. The
// actor, the schedule's teacher and every incoming student must all be studio
// members. Already-enrolled ids are ignored.
func (s *ScheduleStore) UpdateStudents(actorID, scheduleID uint, studentIDs []uint) (*model.Schedule, error) {
	if scheduleID == 0 {
		return nil, fmt.Errorf("%w: schedule is required", apperr.ErrValidation)
	}

	var schedule model.Schedule
	if err := s.db.First(&schedule, scheduleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: schedule %d", apperr.ErrNotFound, scheduleID)
		}
		return nil, err
	}

	extras := append([]uint{schedule.TeacherID}, studentIDs...)
	studio, err := guard.CheckMembership(s.db, actorID, schedule.StudioID, extras)
	if err != nil {
		return nil, err
	}
	if studio.TeacherID != schedule.TeacherID {
		return nil, fmt.Errorf("%w: schedule does not belong to the studio teacher", apperr.ErrPermissionDenied)
	}

	schedule.StudentIDs = schedule.StudentIDs.Union(studentIDs...)
	if err := s.db.Model(&schedule).Updates(map[string]interface{}{
		"student_ids": schedule.StudentIDs,
	}).Error; err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (s *ScheduleStore) loadForTeacher(studioID, teacherID uint) (*model.Schedule, error) {
	var schedule model.Schedule
	if err := s.db.Where("studio_id = ? AND teacher_id = ?", studioID, teacherID).
		First(&schedule).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: schedule for studio %d", apperr.ErrNotFound, studioID)
		}
		return nil, err
	}
	return &schedule, nil
}
