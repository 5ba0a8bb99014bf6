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

// StudioStore owns studio lifecycle and membership mutations.
type StudioStore struct {
	db *gorm.DB
}

func NewStudioStore(db *gorm.DB) *StudioStore {
	return &StudioStore{db: db}
}

// slugTaken reports whether a studio slug is already in use.
func (s *StudioStore) slugTaken(candidate string) (bool, error) {
	var count int64
	if err := s.db.Model(&model.Studio{}).Where("slug = ?", candidate).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Add creates a studio owned by the acting user. The teacher is always the
// first member. The first studio a teacher creates becomes their default one
// and sets their default studio slug.
func (s *StudioStore) Add(actorID uint, name, avatarURL string) (*model.Studio, error) {
	if actorID == 0 || name == "" {
		return nil, fmt.Errorf("%w: user and name are required", apperr.ErrValidation)
	}

	studioSlug, err := slugify.Generate(name, s.slugTaken)
	if err != nil {
		if errors.Is(err, slugify.ErrExhausted) {
			return nil, fmt.Errorf("%w: no free slug for %q", apperr.ErrConflict, name)
		}
		return nil, err
	}

	var ownedCount int64
	if err := s.db.Model(&model.Studio{}).Where("teacher_id = ?", actorID).Count(&ownedCount).Error; err != nil {
		return nil, err
	}

	defaultStudio := false
	if ownedCount == 0 {
		if err := s.db.Model(&model.User{}).Where("id = ?", actorID).
			Update("default_studio_slug", studioSlug).Error; err != nil {
			return nil, err
		}
		defaultStudio = true
	}

	studio := &model.Studio{
		Name:          name,
		Slug:          studioSlug,
		AvatarURL:     avatarURL,
		TeacherID:     actorID,
		MemberIDs:     model.IDList{actorID},
		DefaultStudio: defaultStudio,
	}
	if err := s.db.Create(studio).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: studio slug %q", apperr.ErrConflict, studioSlug)
		}
		return nil, err
	}

	return studio, nil
}

// Update renames a studio or swaps its avatar. Teacher only.
func (s *StudioStore) Update(actorID, studioID uint, name, avatarURL string) (*model.Studio, error) {
	studio, err := guard.CheckOwner(s.db, actorID, studioID)
	if err != nil {
		return nil, err
	}

	if name != "" {
		studio.Name = name
	}
	studio.AvatarURL = avatarURL

	if err := s.db.Model(studio).Updates(map[string]interface{}{
		"name":       studio.Name,
		"avatar_url": studio.AvatarURL,
	}).Error; err != nil {
		return nil, err
	}

	return studio, nil
}

// Get loads a single studio; membership gated.
func (s *StudioStore) Get(actorID, studioID uint) (*model.Studio, error) {
	return guard.CheckMembership(s.db, actorID, studioID, nil)
}

// GetBySlug resolves a studio by its slug without a membership check; callers
// gate access themselves.
func (s *StudioStore) GetBySlug(studioSlug string) (*model.Studio, error) {
	var studio model.Studio
	if err := s.db.Where("slug = ?", studioSlug).First(&studio).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: studio %q", apperr.ErrNotFound, studioSlug)
		}
		return nil, err
	}
	return &studio, nil
}

// GetAllForUser returns every studio whose member set contains userID.
// Membership lives in a serialized id list, so rows are filtered here rather
// than in SQL.
func (s *StudioStore) GetAllForUser(userID uint) ([]model.Studio, error) {
	var all []model.Studio
	if err := s.db.Order("created_at").Find(&all).Error; err != nil {
		return nil, err
	}

	studios := make([]model.Studio, 0, len(all))
	for _, studio := range all {
		if studio.MemberIDs.Contains(userID) {
			studios = append(studios, studio)
		}
	}
	return studios, nil
}

// Members resolves the studio's member id list into user records.
func (s *StudioStore) Members(actorID, studioID uint) ([]model.User, error) {
	studio, err := guard.CheckMembership(s.db, actorID, studioID, nil)
	if err != nil {
		return nil, err
	}

	var users []model.User
	if err := s.db.Where("id IN ?", []uint(studio.MemberIDs)).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// RemoveMember pulls a member out of the studio. Teacher only, and the
// teacher can never remove themselves.
func (s *StudioStore) RemoveMember(actorID, studioID, userID uint) error {
	studio, err := guard.CheckOwner(s.db, actorID, studioID)
	if err != nil {
		return err
	}

	if userID == actorID {
		return fmt.Errorf("%w: the studio teacher cannot remove themselves", apperr.ErrPermissionDenied)
	}

	studio.MemberIDs = studio.MemberIDs.Remove(userID)
	// Map-form Updates so the serializer runs on the id list.
	return s.db.Model(studio).Updates(map[string]interface{}{
		"member_ids": studio.MemberIDs,
	}).Error
}

// MarkSubscribed records an active subscription created through the billing
// boundary.
func (s *StudioStore) MarkSubscribed(actorID, studioID uint, subscriptionID string) (*model.Studio, error) {
	studio, err := guard.CheckOwner(s.db, actorID, studioID)
	if err != nil {
		return nil, err
	}

	if studio.SubscriptionActive {
		return nil, fmt.Errorf("%w: studio is already subscribed", apperr.ErrConflict)
	}

	studio.SubscriptionID = subscriptionID
	studio.SubscriptionActive = true
	studio.PaymentFailed = false
	if err := s.db.Model(studio).Updates(map[string]interface{}{
		"subscription_id":     subscriptionID,
		"subscription_active": true,
		"payment_failed":      false,
	}).Error; err != nil {
		return nil, err
	}
	return studio, nil
}

// MarkSubscriptionCancelled flips the subscription off after the billing
// boundary confirmed cancellation.
func (s *StudioStore) MarkSubscriptionCancelled(actorID, studioID uint) (*model.Studio, error) {
	studio, err := guard.CheckOwner(s.db, actorID, studioID)
	if err != nil {
		return nil, err
	}

	if !studio.SubscriptionActive {
		return nil, fmt.Errorf("%w: studio is already unsubscribed", apperr.ErrConflict)
	}

	studio.SubscriptionActive = false
	if err := s.db.Model(studio).Update("subscription_active", false).Error; err != nil {
		return nil, err
	}
	return studio, nil
}
