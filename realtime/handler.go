package realtime

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin dashboards connect here; CORS policy is enforced at
	// the HTTP layer.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades an authenticated request to a websocket session and
// registers it with the hub. The auth middleware has already resolved
// the user.
func ServeWS(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logrus.WithError(err).Error("websocket upgrade failed")
			return
		}

		client := &wsClient{
			id:     uuid.NewString(),
			userID: userID.(string),
			hub:    hub,
			conn:   conn,
			send:   make(chan []byte, sendBufferSize),
			rooms:  make(map[string]bool),
		}

		hub.Register(client)

		go client.writePump()
		go client.readPump()
	}
}
