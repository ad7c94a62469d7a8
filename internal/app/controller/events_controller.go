package controller

import (
	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/meshur/storefront-backend/internal/middleware"
	ws "github.com/meshur/storefront-backend/internal/websocket"
)

type EventsController struct {
	hub      *ws.Hub
	upgrader gorillaws.Upgrader
}

func NewEventsController(hub *ws.Hub, allowedOrigins []string) *EventsController {
	return &EventsController{
		hub:      hub,
		upgrader: ws.NewUpgrader(allowedOrigins),
	}
}

// Subscribe GET /api/v1/events
// Pushes cart and favorites changes of the caller's session. The token
// arrives as ?token= and is never logged.
func (ctrl *EventsController) Subscribe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sessionID, ok := requireSessionID(c)
	if !ok {
		return
	}

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err)
		return
	}

	client := ws.NewClient(ctrl.hub, &ws.Conn{Conn: conn}, sessionID)
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Info("WebSocket connection established", map[string]interface{}{
		"session_id": sessionID,
	})
}
