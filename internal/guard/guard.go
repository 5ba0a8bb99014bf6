// Package guard is the single authorization check every mutation passes
// through before touching storage. It answers "may user U act within studio
// S, optionally on behalf of a target member set M?" and is read-only.
package guard

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"studio-service/internal/apperr"
	"studio-service/internal/model"
)

// CheckMembership loads the studio and verifies that the actor, and every id
// in extraMemberIDs, belongs to its member set. Returns the studio on success.
func CheckMembership(db *gorm.DB, actorID, studioID uint, extraMemberIDs []uint) (*model.Studio, error) {
	if actorID == 0 || studioID == 0 {
		return nil, fmt.Errorf("%w: user and studio are required", apperr.ErrValidation)
	}

	var studio model.Studio
	if err := db.First(&studio, studioID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: studio %d", apperr.ErrNotFound, studioID)
		}
		return nil, err
	}

	if !studio.MemberIDs.Contains(actorID) {
		return nil, fmt.Errorf("%w: user %d is not a member of studio %d", apperr.ErrPermissionDenied, actorID, studioID)
	}

	for _, id := range extraMemberIDs {
		if !studio.MemberIDs.Contains(id) {
			return nil, fmt.Errorf("%w: user %d is not a member of studio %d", apperr.ErrPermissionDenied, id, studioID)
		}
	}

	return &studio, nil
}

// CheckOwner is the owner-gated variant: membership plus actor == teacher.
// Used for invitation issuance, member removal, schedule availability
// mutation and subscription changes.
func CheckOwner(db *gorm.DB, actorID, studioID uint) (*model.Studio, error) {
	studio, err := CheckMembership(db, actorID, studioID, nil)
	if err != nil {
		return nil, err
	}

	if studio.TeacherID != actorID {
		return nil, fmt.Errorf("%w: user %d is not the studio teacher", apperr.ErrPermissionDenied, actorID)
	}

	return studio, nil
}
