package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"studio-service/internal/apperr"
	"studio-service/internal/model"
	"studio-service/prometheus"
)

// GetUserBySlug returns the public profile fields of a user.
func (h *Handler) GetUserBySlug(c echo.Context) error {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var user model.User
	if err := h.DB.Select("id", "display_name", "slug", "avatar_url").
		Where("slug = ?", c.Param("user_slug")).First(&user).Error; err != nil {
		return respondError(c, apperr.ErrNotFound)
	}

	return c.JSON(http.StatusOK, user)
}

// GetStudioByInvitationToken is the pre-acceptance preview: it resolves an
// invitation token to the studio's name and avatar without requiring auth.
func (h *Handler) GetStudioByInvitationToken(c echo.Context) error {
	prometheus.RecordInvitationOperation("preview")

	studio, err := h.Invitations.GetStudioByToken(c.Request().Context(), c.Param("token"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"id":         studio.ID,
		"name":       studio.Name,
		"slug":       studio.Slug,
		"avatar_url": studio.AvatarURL,
	})
}
