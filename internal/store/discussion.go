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

// DiscussionStore owns studio-scoped discussion threads.
type DiscussionStore struct {
	db *gorm.DB
}

func NewDiscussionStore(db *gorm.DB) *DiscussionStore {
	return &DiscussionStore{db: db}
}

// slugTaken scopes uniqueness to one studio; the same discussion name may
// exist in different studios.
func (s *DiscussionStore) slugTaken(studioID uint) slugify.Taken {
	return func(candidate string) (bool, error) {
		var count int64
		if err := s.db.Model(&model.Discussion{}).
			Where("studio_id = ? AND slug = ?", studioID, candidate).
			Count(&count).Error; err != nil {
			return false, err
		}
		return count > 0, nil
	}
}

// Add creates a discussion inside the studio. The creator is always part of
// the member set, and every listed member must already belong to the studio.
func (s *DiscussionStore) Add(actorID, studioID uint, name string, memberIDs []uint, notificationType string) (*model.Discussion, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: discussion name is required", apperr.ErrValidation)
	}
	if notificationType == "" {
		notificationType = model.NotificationDefault
	}
	if !model.ValidNotificationType(notificationType) {
		return nil, fmt.Errorf("%w: unknown notification type %q", apperr.ErrValidation, notificationType)
	}

	if _, err := guard.CheckMembership(s.db, actorID, studioID, memberIDs); err != nil {
		return nil, err
	}

	discussionSlug, err := slugify.Generate(name, s.slugTaken(studioID))
	if err != nil {
		if errors.Is(err, slugify.ErrExhausted) {
			return nil, fmt.Errorf("%w: no free slug for %q", apperr.ErrConflict, name)
		}
		return nil, err
	}

	discussion := &model.Discussion{
		StudioID:         studioID,
		CreatedUserID:    actorID,
		Name:             name,
		Slug:             discussionSlug,
		MemberIDs:        model.IDList{actorID}.Union(memberIDs...),
		NotificationType: notificationType,
	}
	if err := s.db.Create(discussion).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: discussion slug %q", apperr.ErrConflict, discussionSlug)
		}
		return nil, err
	}
	return discussion, nil
}

// Edit updates name, member set and notification mode. Only the creator or
// the studio teacher may edit.
func (s *DiscussionStore) Edit(actorID, discussionID uint, name string, memberIDs []uint, notificationType string) (*model.Discussion, error) {
	discussion, err := s.load(discussionID)
	if err != nil {
		return nil, err
	}

	studio, err := guard.CheckMembership(s.db, actorID, discussion.StudioID, memberIDs)
	if err != nil {
		return nil, err
	}
	if actorID != discussion.CreatedUserID && actorID != studio.TeacherID {
		return nil, fmt.Errorf("%w: only the creator or teacher may edit a discussion", apperr.ErrPermissionDenied)
	}

	// Empty fields keep their current value; a discussion's name is never
	// cleared by an edit.
	if name != "" {
		discussion.Name = name
	}
	if notificationType != "" {
		if !model.ValidNotificationType(notificationType) {
			return nil, fmt.Errorf("%w: unknown notification type %q", apperr.ErrValidation, notificationType)
		}
		discussion.NotificationType = notificationType
	}
	// The member set is replaced wholesale, but the creator and the editing
	// actor always stay in it.
	discussion.MemberIDs = model.IDList{discussion.CreatedUserID}.Union(actorID).Union(memberIDs...)

	if err := s.db.Model(discussion).Updates(map[string]interface{}{
		"name":              discussion.Name,
		"member_ids":        discussion.MemberIDs,
		"notification_type": discussion.NotificationType,
	}).Error; err != nil {
		return nil, err
	}
	return discussion, nil
}

// Delete removes the discussion and all of its posts. Only the creator or
// the studio teacher may delete. Returns the deleted discussion so callers
// can fan the removal out.
func (s *DiscussionStore) Delete(actorID, discussionID uint) (*model.Discussion, error) {
	discussion, err := s.load(discussionID)
	if err != nil {
		return nil, err
	}

	studio, err := guard.CheckMembership(s.db, actorID, discussion.StudioID, nil)
	if err != nil {
		return nil, err
	}
	if actorID != discussion.CreatedUserID && actorID != studio.TeacherID {
		return nil, fmt.Errorf("%w: only the creator or teacher may delete a discussion", apperr.ErrPermissionDenied)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("discussion_id = ?", discussionID).Delete(&model.Post{}).Error; err != nil {
			return err
		}
		return tx.Delete(discussion).Error
	})
	if err != nil {
		return nil, err
	}
	return discussion, nil
}

// List returns the studio's discussions visible to the actor, oldest first.
func (s *DiscussionStore) List(actorID, studioID uint) ([]model.Discussion, error) {
	if _, err := guard.CheckMembership(s.db, actorID, studioID, nil); err != nil {
		return nil, err
	}

	var all []model.Discussion
	if err := s.db.Where("studio_id = ?", studioID).Order("created_at").Find(&all).Error; err != nil {
		return nil, err
	}

	visible := make([]model.Discussion, 0, len(all))
	for _, d := range all {
		if d.MemberIDs.Contains(actorID) {
			visible = append(visible, d)
		}
	}
	return visible, nil
}

func (s *DiscussionStore) load(discussionID uint) (*model.Discussion, error) {
	if discussionID == 0 {
		return nil, fmt.Errorf("%w: discussion is required", apperr.ErrValidation)
	}
	var discussion model.Discussion
	if err := s.db.First(&discussion, discussionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: discussion %d", apperr.ErrNotFound, discussionID)
		}
		return nil, err
	}
	return &discussion, nil
}
