package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"studio-service/internal/apperr"
	"studio-service/internal/guard"
	"studio-service/internal/model"
)

// PostStore owns the messages inside a discussion. Authorization mirrors the
// discussion store, scoped one level deeper: author-only for edits and
// deletes.
type PostStore struct {
	db          *gorm.DB
	discussions *DiscussionStore
}

func NewPostStore(db *gorm.DB) *PostStore {
	return &PostStore{db: db, discussions: NewDiscussionStore(db)}
}

// Add appends a message to the discussion.
func (s *PostStore) Add(actorID, discussionID uint, content string) (*model.Post, error) {
	if content == "" {
		return nil, fmt.Errorf("%w: post content is required", apperr.ErrValidation)
	}

	discussion, err := s.discussions.load(discussionID)
	if err != nil {
		return nil, err
	}
	if _, err := guard.CheckMembership(s.db, actorID, discussion.StudioID, nil); err != nil {
		return nil, err
	}

	post := &model.Post{
		DiscussionID: discussionID,
		UserID:       actorID,
		Content:      content,
	}
	if err := s.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// Edit replaces the post's content and marks it edited. Author only.
func (s *PostStore) Edit(actorID, postID uint, content string) (*model.Post, error) {
	if content == "" {
		return nil, fmt.Errorf("%w: post content is required", apperr.ErrValidation)
	}

	post, err := s.authorize(actorID, postID)
	if err != nil {
		return nil, err
	}

	post.Content = content
	post.IsEdited = true
	if err := s.db.Model(post).Updates(map[string]interface{}{
		"content":   content,
		"is_edited": true,
	}).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes the post. Author only. Returns the deleted post so callers
// can fan the removal out to the discussion room.
func (s *PostStore) Delete(actorID, postID uint) (*model.Post, error) {
	post, err := s.authorize(actorID, postID)
	if err != nil {
		return nil, err
	}
	if err := s.db.Delete(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// List returns the discussion's posts, oldest first.
func (s *PostStore) List(actorID, discussionID uint) ([]model.Post, error) {
	discussion, err := s.discussions.load(discussionID)
	if err != nil {
		return nil, err
	}
	if _, err := guard.CheckMembership(s.db, actorID, discussion.StudioID, nil); err != nil {
		return nil, err
	}

	var posts []model.Post
	if err := s.db.Where("discussion_id = ?", discussionID).Order("created_at").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// authorize loads the post, checks studio membership through its discussion
// and verifies the actor wrote it.
func (s *PostStore) authorize(actorID, postID uint) (*model.Post, error) {
	if postID == 0 {
		return nil, fmt.Errorf("%w: post is required", apperr.ErrValidation)
	}

	var post model.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: post %d", apperr.ErrNotFound, postID)
		}
		return nil, err
	}

	discussion, err := s.discussions.load(post.DiscussionID)
	if err != nil {
		return nil, err
	}
	if _, err := guard.CheckMembership(s.db, actorID, discussion.StudioID, nil); err != nil {
		return nil, err
	}
	if post.UserID != actorID {
		return nil, fmt.Errorf("%w: only the author may change a post", apperr.ErrPermissionDenied)
	}
	return &post, nil
}
