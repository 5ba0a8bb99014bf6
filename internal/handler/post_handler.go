package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"studio-service/internal/hub"
	"studio-service/prometheus"
)

func (h *Handler) ListPosts(c echo.Context) error {
	prometheus.RecordPostOperation("list")

	defer prometheus.TrackDBOperation("query")(time.Now())
	posts, err := h.Posts.List(userID(c), paramID(c, "discussion_id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"posts": posts})
}

func (h *Handler) AddPost(c echo.Context) error {
	prometheus.RecordPostOperation("create")

	var req struct {
		Content string `json:"content"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	post, err := h.Posts.Add(userID(c), paramID(c, "discussion_id"), req.Content)
	if err != nil {
		return respondError(c, err)
	}

	h.Hub.PostChanged(hub.ActionAdded, post, originConnID(c))
	prometheus.RecordBroadcast(hub.EventPost)

	return c.JSON(http.StatusCreated, post)
}

func (h *Handler) EditPost(c echo.Context) error {
	prometheus.RecordPostOperation("edit")

	var req struct {
		Content string `json:"content"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	post, err := h.Posts.Edit(userID(c), paramID(c, "post_id"), req.Content)
	if err != nil {
		return respondError(c, err)
	}

	h.Hub.PostChanged(hub.ActionEdited, post, originConnID(c))
	prometheus.RecordBroadcast(hub.EventPost)

	return c.JSON(http.StatusOK, post)
}

func (h *Handler) DeletePost(c echo.Context) error {
	prometheus.RecordPostOperation("delete")

	defer prometheus.TrackDBOperation("delete")(time.Now())
	post, err := h.Posts.Delete(userID(c), paramID(c, "post_id"))
	if err != nil {
		return respondError(c, err)
	}

	h.Hub.PostChanged(hub.ActionDeleted, post, originConnID(c))
	prometheus.RecordBroadcast(hub.EventPost)

	return c.JSON(http.StatusOK, echo.Map{"deleted": post.ID})
}
