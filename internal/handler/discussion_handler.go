package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"studio-service/internal/hub"
	"studio-service/pkg/logger"
	"studio-service/prometheus"
)

func (h *Handler) ListDiscussions(c echo.Context) error {
	prometheus.RecordDiscussionOperation("list")

	defer prometheus.TrackDBOperation("query")(time.Now())
	discussions, err := h.Discussions.List(userID(c), paramID(c, "studio_id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"discussions": discussions})
}

func (h *Handler) AddDiscussion(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordDiscussionOperation("create")

	var req struct {
		StudioID         uint   `json:"studio_id"`
		Name             string `json:"name"`
		MemberIDs        []uint `json:"member_ids"`
		NotificationType string `json:"notification_type"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	discussion, err := h.Discussions.Add(userID(c), req.StudioID, req.Name, req.MemberIDs, req.NotificationType)
	if err != nil {
		return respondError(c, err)
	}

	h.Hub.DiscussionChanged(hub.ActionAdded, discussion, originConnID(c))
	prometheus.RecordBroadcast(hub.EventDiscussion)

	log.Info("Discussion created",
		zap.Uint("discussion_id", discussion.ID),
		zap.Uint("studio_id", discussion.StudioID))

	return c.JSON(http.StatusCreated, discussion)
}

func (h *Handler) EditDiscussion(c echo.Context) error {
	prometheus.RecordDiscussionOperation("edit")

	var req struct {
		Name             string `json:"name"`
		MemberIDs        []uint `json:"member_ids"`
		NotificationType string `json:"notification_type"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	discussion, err := h.Discussions.Edit(userID(c), paramID(c, "discussion_id"), req.Name, req.MemberIDs, req.NotificationType)
	if err != nil {
		return respondError(c, err)
	}

	h.Hub.DiscussionChanged(hub.ActionEdited, discussion, originConnID(c))
	prometheus.RecordBroadcast(hub.EventDiscussion)

	return c.JSON(http.StatusOK, discussion)
}

func (h *Handler) DeleteDiscussion(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordDiscussionOperation("delete")

	defer prometheus.TrackDBOperation("delete")(time.Now())
	discussion, err := h.Discussions.Delete(userID(c), paramID(c, "discussion_id"))
	if err != nil {
		return respondError(c, err)
	}

	h.Hub.DiscussionChanged(hub.ActionDeleted, discussion, originConnID(c))
	prometheus.RecordBroadcast(hub.EventDiscussion)

	log.Info("Discussion deleted",
		zap.Uint("discussion_id", discussion.ID),
		zap.Uint("studio_id", discussion.StudioID))

	return c.JSON(http.StatusOK, echo.Map{"deleted": discussion.ID})
}
