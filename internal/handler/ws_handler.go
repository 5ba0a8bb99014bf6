package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"studio-service/internal/guard"
	"studio-service/internal/hub"
	"studio-service/internal/model"
	"studio-service/pkg/jwtutil"
	"studio-service/pkg/logger"
	"studio-service/prometheus"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browsers cannot set custom headers on websocket dials; origin policy
	// is enforced by the auth token instead.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// subscription messages sent by the client over the socket.
type wsRequest struct {
	Action string `json:"action"` // joinStudioRoom, leaveStudioRoom, joinDiscussionRoom, leaveDiscussionRoom
	ID     uint   `json:"id"`
}

// ServeWS upgrades the connection, authenticates it from the token query
// parameter and then serves room subscription requests until the client
// disconnects. The first message the client receives is its connection id,
// which it echoes back on mutating HTTP requests so the hub can skip it.
func (h *Handler) ServeWS(c echo.Context) error {
	log := logger.FromContext(c)

	claims, err := jwtutil.ValidateToken(c.QueryParam("token"))
	if err != nil {
		log.Error("Websocket auth failed", zap.Error(err))
		prometheus.RecordAuthError("invalid_token")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Error("Websocket upgrade failed", zap.Error(err))
		return err
	}

	connID := uuid.New().String()
	// The hub broadcasts from handler goroutines while this loop replies to
	// subscription requests; all writes must share one lock.
	safe := hub.NewSafeConn(conn)
	prometheus.IncreaseActiveConnections()
	defer func() {
		h.Hub.LeaveAll(connID)
		safe.Close()
		prometheus.DecreaseActiveConnections()
	}()

	if err := safe.WriteJSON(hub.Message{Event: "connected", Data: echo.Map{"conn_id": connID}}); err != nil {
		return nil
	}

	log.Info("Websocket connected",
		zap.String("conn_id", connID),
		zap.Uint("user_id", claims.UserID))

	for {
		var req wsRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("Websocket closed unexpectedly", zap.Error(err))
			}
			return nil
		}

		switch req.Action {
		case "joinStudioRoom":
			if _, err := guard.CheckMembership(h.DB, claims.UserID, req.ID, nil); err != nil {
				safe.WriteJSON(hub.Message{Event: "error", Data: echo.Map{"error": "not a member of this studio"}})
				continue
			}
			h.Hub.Join(hub.StudioRoom(req.ID), connID, safe)
		case "leaveStudioRoom":
			h.Hub.Leave(hub.StudioRoom(req.ID), connID)
		case "joinDiscussionRoom":
			if !h.canJoinDiscussion(claims.UserID, req.ID) {
				safe.WriteJSON(hub.Message{Event: "error", Data: echo.Map{"error": "not a member of this discussion"}})
				continue
			}
			h.Hub.Join(hub.DiscussionRoom(req.ID), connID, safe)
		case "leaveDiscussionRoom":
			h.Hub.Leave(hub.DiscussionRoom(req.ID), connID)
		default:
			safe.WriteJSON(hub.Message{Event: "error", Data: echo.Map{"error": "unknown action"}})
		}
	}
}

func (h *Handler) canJoinDiscussion(actorID, discussionID uint) bool {
	var discussion model.Discussion
	if err := h.DB.First(&discussion, discussionID).Error; err != nil {
		return false
	}
	if _, err := guard.CheckMembership(h.DB, actorID, discussion.StudioID, nil); err != nil {
		return false
	}
	return discussion.MemberIDs.Contains(actorID)
}
