package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 512
	sendBufferSize = 64
)

// clientCommand is what a connected session may send upstream: joining
// or leaving a named room. Everything else on the wire is server-push.
type clientCommand struct {
	Action string `json:"action"`
	Room   string `json:"room"`
}

// wsClient is the gorilla/websocket implementation of Client. One
// instance per dashboard session; the hub only ever touches it through
// the Client interface.
type wsClient struct {
	id     string
	userID string
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte

	mu    sync.RWMutex
	rooms map[string]bool
}

func (c *wsClient) ID() string { return c.id }

func (c *wsClient) Send(data []byte) bool {
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *wsClient) InRoom(room string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rooms[room]
}

func (c *wsClient) Close() {
	c.conn.Close()
}

// readPump consumes join-room/leave-room commands until the socket
// drops, then unregisters the client.
func (c *wsClient) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithError(err).WithField("client", c.id).Warn("websocket read error")
			}
			return
		}

		var cmd clientCommand
		if err := json.Unmarshal(message, &cmd); err != nil {
			logrus.WithField("client", c.id).Warn("malformed client command, ignored")
			continue
		}

		switch cmd.Action {
		case "join-room":
			if cmd.Room != "" {
				c.mu.Lock()
				c.rooms[cmd.Room] = true
				c.mu.Unlock()
				logrus.WithFields(logrus.Fields{"client": c.id, "room": cmd.Room}).Info("client joined room")
			}
		case "leave-room":
			c.mu.Lock()
			delete(c.rooms, cmd.Room)
			c.mu.Unlock()
		default:
			logrus.WithFields(logrus.Fields{"client": c.id, "action": cmd.Action}).Warn("unknown client action")
		}
	}
}

// writePump drains the send channel onto the socket, one writer per
// connection so delivery stays FIFO per session.
func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
