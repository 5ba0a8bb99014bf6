package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"studio-service/internal/apperr"
	"studio-service/internal/model"
	"studio-service/pkg/logger"
	"studio-service/prometheus"
)

// paramID parses a numeric path parameter.
func paramID(c echo.Context, name string) uint {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}

func (h *Handler) AddStudio(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordStudioOperation("create")

	var req struct {
		Name      string `json:"name"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	studio, err := h.Studios.Add(userID(c), req.Name, req.AvatarURL)
	if err != nil {
		return respondError(c, err)
	}

	log.Info("Studio created",
		zap.Uint("studio_id", studio.ID),
		zap.String("slug", studio.Slug))

	return c.JSON(http.StatusCreated, studio)
}

func (h *Handler) UpdateStudio(c echo.Context) error {
	prometheus.RecordStudioOperation("update")

	var req struct {
		Name      string `json:"name"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	studio, err := h.Studios.Update(userID(c), paramID(c, "studio_id"), req.Name, req.AvatarURL)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, studio)
}

func (h *Handler) GetStudios(c echo.Context) error {
	prometheus.RecordStudioOperation("list")

	defer prometheus.TrackDBOperation("query")(time.Now())
	studios, err := h.Studios.GetAllForUser(userID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"studios": studios})
}

func (h *Handler) GetStudioMembers(c echo.Context) error {
	prometheus.RecordStudioOperation("members")

	defer prometheus.TrackDBOperation("query")(time.Now())
	members, err := h.Studios.Members(userID(c), paramID(c, "studio_id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"members": members})
}

func (h *Handler) RemoveStudioMember(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordStudioOperation("remove_member")

	studioID := paramID(c, "studio_id")
	memberID := paramID(c, "user_id")

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.Studios.RemoveMember(userID(c), studioID, memberID); err != nil {
		return respondError(c, err)
	}

	log.Info("Member removed from studio",
		zap.Uint("studio_id", studioID),
		zap.Uint("member_id", memberID))

	return c.JSON(http.StatusOK, echo.Map{"removed": memberID})
}

// GetInitialData bundles everything the client needs to render a studio in
// one round trip: the acting user, their studio list, the resolved studio
// with its members, visible discussions, schedule, and, for the teacher, the
// pending invitations. Without a slug the user's default studio is used.
func (h *Handler) GetInitialData(c echo.Context) error {
	prometheus.RecordStudioOperation("initial_data")
	actorID := userID(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	var user model.User
	if err := h.DB.First(&user, actorID).Error; err != nil {
		return respondError(c, err)
	}

	studioSlug := c.QueryParam("studio")
	if studioSlug == "" {
		studioSlug = user.DefaultStudioSlug
	}

	studios, err := h.Studios.GetAllForUser(actorID)
	if err != nil {
		return respondError(c, err)
	}

	response := echo.Map{
		"user":    user,
		"studios": studios,
	}

	if studioSlug != "" {
		studio, err := h.Studios.GetBySlug(studioSlug)
		if err != nil {
			return respondError(c, err)
		}
		discussions, err := h.Discussions.List(actorID, studio.ID)
		if err != nil {
			return respondError(c, err)
		}
		members, err := h.Studios.Members(actorID, studio.ID)
		if err != nil {
			return respondError(c, err)
		}
		response["studio"] = studio
		response["discussions"] = discussions
		response["members"] = members

		schedule, err := h.Schedules.Get(actorID, studio.ID)
		switch {
		case err == nil:
			response["schedule"] = schedule
		case !errors.Is(err, apperr.ErrNotFound):
			return respondError(c, err)
		}

		if studio.TeacherID == actorID {
			invitations, err := h.Invitations.List(c.Request().Context(), actorID, studio.ID)
			if err != nil {
				return respondError(c, err)
			}
			response["invitations"] = invitations
		}
	}

	return c.JSON(http.StatusOK, response)
}
