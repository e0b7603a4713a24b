package handlers

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"autix_backend/internal/apperr"
	"autix_backend/internal/ws"
	"autix_backend/utils"
)

const wsUserKey = "ws_user_id"

type NotificationHandler struct {
	Hub    *ws.Hub
	Tokens *utils.TokenManager
}

func NewNotificationHandler(hub *ws.Hub, tokens *utils.TokenManager) *NotificationHandler {
	return &NotificationHandler{Hub: hub, Tokens: tokens}
}

// Upgrade authenticates the websocket handshake. Browsers cannot set headers
// on an upgrade request, so the token travels in ?token=.
func (h *NotificationHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	token := c.Query("token")
	if token == "" {
		return apperr.Unauthorized("Access token required")
	}
	claims, err := h.Tokens.Parse(token)
	if err != nil {
		return apperr.Forbidden("Invalid or expired token")
	}
	c.Locals(wsUserKey, claims.UserID)
	return c.Next()
}

// Handler - GET /api/notifications/ws
func (h *NotificationHandler) Handler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, ok := conn.Locals(wsUserKey).(uint)
		if !ok || userID == 0 {
			_ = conn.Close()
			return
		}
		ws.NewClient(h.Hub, conn, userID).Serve()
	})
}
