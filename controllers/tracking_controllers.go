package controllers

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/foodhub/middlewares"
	"github.com/yeremiapane/foodhub/tracking"
)

type TrackingController struct {
	Hub      *tracking.Hub
	upgrader websocket.Upgrader
}

// NewTrackingController accepts handshakes from allowedOrigins, or from
// any origin when the list contains "*".
func NewTrackingController(hub *tracking.Hub, allowedOrigins []string) *TrackingController {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &TrackingController{
		Hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || allowed["*"] || allowed[origin] {
					return true
				}
				u, err := url.Parse(origin)
				return err == nil && u.Host == r.Host
			},
		},
	}
}

// OrdersFeed -> GET /ws/orders, streams order events for the principal
func (tc *TrackingController) OrdersFeed(c *gin.Context) {
	userID, role, ok := middlewares.CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	ws, err := tc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	tc.Hub.RegisterClient(ws, userID, role)

	// Incoming frames are ignored; reading detects the disconnect.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	tc.Hub.UnregisterClient(ws)
}
