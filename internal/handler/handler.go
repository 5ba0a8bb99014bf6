package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"studio-service/internal/apperr"
	"studio-service/internal/hub"
	"studio-service/internal/store"
	"studio-service/pkg/billing"
	"studio-service/pkg/config"
	"studio-service/pkg/logger"
	"studio-service/pkg/uploads"
	"studio-service/prometheus"
)

// Handler carries every dependency the HTTP surface needs. All of them are
// injected at startup; there are no package-level singletons.
type Handler struct {
	DB          *gorm.DB
	Config      *config.Config
	Hub         *hub.Hub
	Studios     *store.StudioStore
	Schedules   *store.ScheduleStore
	Discussions *store.DiscussionStore
	Posts       *store.PostStore
	Invitations *store.InvitationStore
	Billing     billing.Provider
	Uploads     *uploads.Signer
}

// userID reads the authenticated user id set by the auth middleware.
func userID(c echo.Context) uint {
	if id, ok := c.Get("user_id").(uint); ok {
		return id
	}
	return 0
}

// originConnID is the caller's websocket connection id, passed so the hub
// can skip echoing a mutation back to the client that made it.
func originConnID(c echo.Context) string {
	return c.Request().Header.Get("X-Socket-ID")
}

// respondError maps a domain error onto the HTTP status taxonomy.
func respondError(c echo.Context, err error) error {
	log := logger.FromContext(c)

	switch {
	case errors.Is(err, apperr.ErrValidation):
		prometheus.RecordDomainError("validation")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, apperr.ErrPermissionDenied):
		prometheus.RecordDomainError("permission_denied")
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		prometheus.RecordDomainError("not_found")
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, apperr.ErrConflict):
		prometheus.RecordDomainError("conflict")
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	default:
		log.Error("Unexpected error", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
}
