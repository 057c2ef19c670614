// Package realtime is the live channel between the server and open
// dashboard sessions. The Hub owns the process-wide connection registry;
// controllers publish events through the Publisher interface and never
// touch connections directly.
package realtime

import (
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
)

// Live-channel event names.
const (
	EventNewIssue          = "new-issue"
	EventIssueUpdated      = "issue-updated"
	EventSOSAlert          = "sos-alert"
	EventAuthorityAccepted = "authority-accepted"
	EventSOSResolved       = "sos-resolved"
)

// Event is the wire envelope pushed to every connected session.
type Event struct {
	Event     string      `json:"event"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"`
}

// Publisher is what lifecycle controllers need from the live channel.
type Publisher interface {
	Publish(event string, data interface{})
}

// Client is one connected dashboard session. The websocket
// implementation lives in client.go; tests use fakes.
type Client interface {
	ID() string
	// Send queues data for FIFO delivery to this session. It must not
	// block; it reports false when the message was dropped.
	Send(data []byte) bool
	InRoom(room string) bool
	Close()
}

// Hub maintains the set of connected clients and fans events out to
// them. All registry mutation happens on the run loop, so handlers never
// race on the client map. Delivery is best effort and not persisted.
type Hub struct {
	clients    map[string]Client
	register   chan Client
	unregister chan Client
	broadcast  chan []byte
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]Client),
		register:   make(chan Client),
		unregister: make(chan Client),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
	}
}

// Run drives the registry until Stop is called. Call it on its own
// goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client.ID()] = client
			logrus.WithFields(logrus.Fields{
				"client":      client.ID(),
				"connections": len(h.clients),
			}).Info("live client connected")
		case client := <-h.unregister:
			if _, ok := h.clients[client.ID()]; ok {
				delete(h.clients, client.ID())
				client.Close()
				logrus.WithFields(logrus.Fields{
					"client":      client.ID(),
					"connections": len(h.clients),
				}).Info("live client disconnected")
			}
		case data := <-h.broadcast:
			for _, client := range h.clients {
				if !client.Send(data) {
					logrus.WithField("client", client.ID()).Warn("send buffer full, event dropped")
				}
			}
		case <-h.done:
			for _, client := range h.clients {
				client.Close()
			}
			return
		}
	}
}

// Stop shuts the hub down and closes every connection.
func (h *Hub) Stop() {
	close(h.done)
}

// Register adds a session to the registry.
func (h *Hub) Register(c Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

// Unregister removes a session from the registry.
func (h *Hub) Unregister(c Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Publish broadcasts an event to all connected sessions. It never
// blocks the caller: when the broadcast queue is full the event is
// dropped and logged, matching the best-effort delivery contract.
func (h *Hub) Publish(event string, data interface{}) {
	payload, err := json.Marshal(Event{
		Event:     event,
		Data:      data,
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		logrus.WithError(err).WithField("event", event).Error("failed to encode live event")
		return
	}

	select {
	case h.broadcast <- payload:
	default:
		logrus.WithField("event", event).Warn("broadcast queue full, event dropped")
	}
}
