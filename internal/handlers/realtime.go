// internal/handlers/realtime.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/aetflow/aet-backend/internal/realtime"
)

type RealtimeHandler struct {
	hub *realtime.Hub
}

func NewRealtimeHandler(hub *realtime.Hub) *RealtimeHandler {
	return &RealtimeHandler{hub: hub}
}

// GET /ws
func (h *RealtimeHandler) Connect(c *gin.Context) {
	h.hub.ServeWS(c.Writer, c.Request)
}
