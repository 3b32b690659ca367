package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/yourusername/storyquiz-api/internal/ws"
)

// WSHandler upgrades staff dashboard connections onto the event hub.
// Runs behind the staff auth middleware.
type WSHandler struct {
	hub *ws.Hub
}

// NewWSHandler creates a new websocket handler.
func NewWSHandler(hub *ws.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

// HandleConnection upgrades the request to a websocket.
// GET /api/admin/ws
func (h *WSHandler) HandleConnection(c *gin.Context) {
	ws.ServeWS(h.hub, c.Writer, c.Request)
}
