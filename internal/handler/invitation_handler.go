package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"studio-service/pkg/logger"
	"studio-service/prometheus"
)

func (h *Handler) ListInvitations(c echo.Context) error {
	prometheus.RecordInvitationOperation("list")

	invitations, err := h.Invitations.List(c.Request().Context(), userID(c), paramID(c, "studio_id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"invitations": invitations})
}

func (h *Handler) InviteMember(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordInvitationOperation("invite")

	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	studioID := paramID(c, "studio_id")

	defer prometheus.TrackDBOperation("query")(time.Now())
	invitation, err := h.Invitations.Invite(c.Request().Context(), userID(c), studioID, req.Email)
	if err != nil {
		return respondError(c, err)
	}

	log.Info("Invitation issued",
		zap.Uint("studio_id", studioID),
		zap.String("email", invitation.Email))

	return c.JSON(http.StatusCreated, invitation)
}

func (h *Handler) AcceptInvitation(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordInvitationOperation("accept")

	var req struct {
		Token string `json:"token"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	studio, err := h.Invitations.Accept(c.Request().Context(), userID(c), req.Token)
	if err != nil {
		return respondError(c, err)
	}

	log.Info("Invitation accepted",
		zap.Uint("studio_id", studio.ID),
		zap.Uint("user_id", userID(c)))

	return c.JSON(http.StatusOK, studio)
}
