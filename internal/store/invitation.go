package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"studio-service/internal/apperr"
	"studio-service/internal/guard"
	"studio-service/internal/model"
	"studio-service/pkg/mailer"
	"studio-service/pkg/slugify"
)

// InvitationStore manages pending membership offers. Invitations live in
// Redis under a TTL so expiry is handled by the backing store; only accepted
// invitations touch the relational data.
type InvitationStore struct {
	db      *gorm.DB
	rdb     *redis.Client
	mail    mailer.Mailer
	baseURL string
	log     *zap.Logger
}

func NewInvitationStore(db *gorm.DB, rdb *redis.Client, mail mailer.Mailer, baseURL string, log *zap.Logger) *InvitationStore {
	return &InvitationStore{db: db, rdb: rdb, mail: mail, baseURL: baseURL, log: log}
}

func tokenKey(token string) string {
	return "invitation:token:" + token
}

func studioEmailKey(studioID uint, email string) string {
	return fmt.Sprintf("invitation:studio:%d:email:%s", studioID, email)
}

func studioPattern(studioID uint) string {
	return fmt.Sprintf("invitation:studio:%d:email:*", studioID)
}

// Invite issues (or re-issues) an invitation for email to join the studio.
// Teacher only. Inviting the same address twice while the first offer is
// still live returns the existing invitation instead of minting a new token.
// Mail delivery failure is logged, never surfaced: the invitation is valid
// whether or not the message arrived.
func (s *InvitationStore) Invite(ctx context.Context, actorID, studioID uint, email string) (*model.Invitation, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", apperr.ErrValidation)
	}

	studio, err := guard.CheckOwner(s.db, actorID, studioID)
	if err != nil {
		return nil, err
	}

	var existing model.User
	err = s.db.Where("email = ?", email).First(&existing).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err == nil && studio.MemberIDs.Contains(existing.ID) {
		return nil, fmt.Errorf("%w: %s is already a member of this studio", apperr.ErrValidation, email)
	}

	if raw, err := s.rdb.Get(ctx, studioEmailKey(studioID, email)).Result(); err == nil {
		var inv model.Invitation
		if err := json.Unmarshal([]byte(raw), &inv); err == nil {
			s.sendMail(&inv, studio.Name)
			return &inv, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		return nil, err
	}

	token, err := slugify.GenerateToken(func(candidate string) (bool, error) {
		n, err := s.rdb.Exists(ctx, tokenKey(candidate)).Result()
		return n > 0, err
	})
	if err != nil {
		return nil, err
	}

	inv := &model.Invitation{
		StudioID:  studioID,
		Email:     email,
		Token:     token,
		CreatedAt: time.Now().UTC(),
	}
	raw, err := json.Marshal(inv)
	if err != nil {
		return nil, err
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, tokenKey(token), raw, model.InvitationTTL)
	pipe.Set(ctx, studioEmailKey(studioID, email), raw, model.InvitationTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	s.sendMail(inv, studio.Name)
	return inv, nil
}

func (s *InvitationStore) sendMail(inv *model.Invitation, studioName string) {
	inviteURL := fmt.Sprintf("%s/invitation/%s", s.baseURL, inv.Token)
	if err := s.mail.SendInvitation(inv.Email, studioName, inviteURL); err != nil {
		s.log.Error("failed to send invitation mail",
			zap.String("email", inv.Email),
			zap.Uint("studio_id", inv.StudioID),
			zap.Error(err))
	}
}

// List returns the studio's live invitations. Teacher only. Expired entries
// never appear because Redis has already dropped them.
func (s *InvitationStore) List(ctx context.Context, actorID, studioID uint) ([]model.Invitation, error) {
	if _, err := guard.CheckOwner(s.db, actorID, studioID); err != nil {
		return nil, err
	}

	var (
		invitations []model.Invitation
		cursor      uint64
	)
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, studioPattern(studioID), 100).Result()
		if err != nil {
			return nil, err
		}
		for _, key := range keys {
			raw, err := s.rdb.Get(ctx, key).Result()
			if errors.Is(err, redis.Nil) {
				continue
			}
			if err != nil {
				return nil, err
			}
			var inv model.Invitation
			if err := json.Unmarshal([]byte(raw), &inv); err != nil {
				continue
			}
			invitations = append(invitations, inv)
		}
		if next == 0 {
			break
		}
		cursor = next
	}
	return invitations, nil
}

// GetStudioByToken resolves the invitation token into the studio it opens,
// for the pre-acceptance preview page. Unknown and expired tokens are
// indistinguishable.
func (s *InvitationStore) GetStudioByToken(ctx context.Context, token string) (*model.Studio, error) {
	inv, err := s.getByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	var studio model.Studio
	if err := s.db.First(&studio, inv.StudioID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: studio %d", apperr.ErrNotFound, inv.StudioID)
		}
		return nil, err
	}
	return &studio, nil
}

// Accept redeems a token for the acting user. The user's email must match
// the invited address exactly, case included. On success the user joins the
// studio's member set, the invitation is consumed, and a user without a
// default studio adopts this one.
func (s *InvitationStore) Accept(ctx context.Context, actorID uint, token string) (*model.Studio, error) {
	inv, err := s.getByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	var user model.User
	if err := s.db.First(&user, actorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", apperr.ErrNotFound, actorID)
		}
		return nil, err
	}
	// A token held by an account with a different address is treated exactly
	// like a token that does not exist. The match is byte for byte.
	if user.Email != inv.Email {
		return nil, fmt.Errorf("%w: invitation not found or expired", apperr.ErrNotFound)
	}

	var studio model.Studio
	if err := s.db.First(&studio, inv.StudioID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: studio %d", apperr.ErrNotFound, inv.StudioID)
		}
		return nil, err
	}

	if !studio.MemberIDs.Contains(user.ID) {
		studio.MemberIDs = studio.MemberIDs.Union(user.ID)
		if err := s.db.Model(&studio).Updates(map[string]interface{}{
			"member_ids": studio.MemberIDs,
		}).Error; err != nil {
			return nil, err
		}

		// A freshly joined member lands in this studio on their next login,
		// whatever their default was before. Teachers keep their own.
		if user.ID != studio.TeacherID {
			if err := s.db.Model(&user).Update("default_studio_slug", studio.Slug).Error; err != nil {
				return nil, err
			}
		}
	}

	if err := s.rdb.Del(ctx, tokenKey(inv.Token), studioEmailKey(inv.StudioID, inv.Email)).Err(); err != nil {
		return nil, err
	}

	return &studio, nil
}

func (s *InvitationStore) getByToken(ctx context.Context, token string) (*model.Invitation, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: token is required", apperr.ErrValidation)
	}

	raw, err := s.rdb.Get(ctx, tokenKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: invitation not found or expired", apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	var inv model.Invitation
	if err := json.Unmarshal([]byte(raw), &inv); err != nil {
		return nil, fmt.Errorf("decode invitation: %w", err)
	}
	return &inv, nil
}
