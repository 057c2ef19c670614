package routes

import (
	"civicpulse-be/realtime"

	"github.com/gin-gonic/gin"
)

// WSRoutes exposes the live channel endpoint
func WSRoutes(r *gin.Engine, hub *realtime.Hub, auth gin.HandlerFunc) {
	r.GET("/ws", auth, realtime.ServeWS(hub))
}
