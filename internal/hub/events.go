package hub

import "studio-service/internal/model"

// Event names and action types delivered to subscribers.
const (
	EventDiscussion = "discussionEvent"
	EventPost       = "postEvent"

	ActionAdded   = "added"
	ActionEdited  = "edited"
	ActionDeleted = "deleted"
)

type discussionPayload struct {
	ActionType string            `json:"action_type"`
	Discussion *model.Discussion `json:"discussion"`
}

type postPayload struct {
	ActionType string      `json:"action_type"`
	Post       *model.Post `json:"post"`
}

// DiscussionChanged fans a discussion mutation out to the studio room.
func (h *Hub) DiscussionChanged(action string, discussion *model.Discussion, originConnID string) {
	h.Broadcast(StudioRoom(discussion.StudioID), EventDiscussion,
		discussionPayload{ActionType: action, Discussion: discussion}, originConnID)
}

// PostChanged fans a post mutation out to its discussion room.
func (h *Hub) PostChanged(action string, post *model.Post, originConnID string) {
	h.Broadcast(DiscussionRoom(post.DiscussionID), EventPost,
		postPayload{ActionType: action, Post: post}, originConnID)
}
