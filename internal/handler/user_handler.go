package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"studio-service/internal/model"
	"studio-service/pkg/logger"
	"studio-service/prometheus"
)

// GetCurrentUser returns the authenticated user's own record.
func (h *Handler) GetCurrentUser(c echo.Context) error {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var user model.User
	if err := h.DB.First(&user, userID(c)).Error; err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, user)
}

// UpdateProfile changes display name and avatar.
func (h *Handler) UpdateProfile(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		DisplayName string `json:"display_name"`
		AvatarURL   string `json:"avatar_url"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	var user model.User
	if err := h.DB.First(&user, userID(c)).Error; err != nil {
		return respondError(c, err)
	}

	if req.DisplayName != "" {
		user.DisplayName = req.DisplayName
	}
	user.AvatarURL = req.AvatarURL

	if err := h.DB.Model(&user).Updates(map[string]interface{}{
		"display_name": user.DisplayName,
		"avatar_url":   user.AvatarURL,
	}).Error; err != nil {
		return respondError(c, err)
	}

	log.Info("Profile updated", zap.Uint("user_id", user.ID))

	return c.JSON(http.StatusOK, user)
}

// ToggleTheme flips the user's dark theme preference.
func (h *Handler) ToggleTheme(c echo.Context) error {
	defer prometheus.TrackDBOperation("update")(time.Now())

	var user model.User
	if err := h.DB.First(&user, userID(c)).Error; err != nil {
		return respondError(c, err)
	}

	user.DarkTheme = !user.DarkTheme
	if err := h.DB.Model(&user).Update("dark_theme", user.DarkTheme).Error; err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"dark_theme": user.DarkTheme})
}

// SetDefaultStudio records which studio opens on login.
func (h *Handler) SetDefaultStudio(c echo.Context) error {
	var req struct {
		StudioSlug string `json:"studio_slug"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	studio, err := h.Studios.GetBySlug(req.StudioSlug)
	if err != nil {
		return respondError(c, err)
	}
	if _, err := h.Studios.Get(userID(c), studio.ID); err != nil {
		return respondError(c, err)
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.DB.Model(&model.User{}).Where("id = ?", userID(c)).
		Update("default_studio_slug", studio.Slug).Error; err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"default_studio_slug": studio.Slug})
}
