package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/rasoomlabs/rasoom/domain/entities"
	"github.com/rasoomlabs/rasoom/usecase"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Rasoom frames are capped at
	// 8KB, control messages are smaller still.
	maxMessageSize = 16 * 1024
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// TODO: Implement proper origin checking
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Hub maintains the set of connected agents and routes encoded frames to
// the agents subscribed to each tier. It implements usecase.Dispatcher.
type Hub struct {
	// Registered clients by agent ID.
	clients map[string]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Mutex for thread-safe access to clients map
	mu sync.RWMutex

	service *usecase.MessageService

	logger *zap.Logger
}

// NewHub creates a new WebSocket hub
func NewHub(service *usecase.MessageService, logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		service:    service,
		logger:     logger,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.agentID] = client
			h.mu.Unlock()
			h.logger.Info("Agent registered",
				zap.String("agentID", client.agentID),
				zap.String("tier", string(client.tier)))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.agentID]; ok {
				delete(h.clients, client.agentID)
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Info("Agent unregistered", zap.String("agentID", client.agentID))
		}
	}
}

// Dispatch pushes an encoded message to every agent subscribed to its tier.
func (h *Hub) Dispatch(message *entities.RasoomMessage) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, client := range h.clients {
		if client.tier != message.Tier {
			continue
		}
		select {
		case client.send <- WriteData{Type: websocket.BinaryMessage, Payload: message.Frame}:
			delivered++
		default:
			h.logger.Warn("Agent send buffer full, skipping",
				zap.String("agentID", client.agentID),
				zap.String("messageID", message.ID))
		}
	}
	if delivered == 0 {
		return fmt.Errorf("no agents subscribed to tier %s", message.Tier)
	}
	return nil
}

// SubscriberCount returns the number of connected agents on a tier.
func (h *Hub) SubscriberCount(tier entities.Tier) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	count := 0
	for _, client := range h.clients {
		if client.tier == tier {
			count++
		}
	}
	return count
}

type WriteData struct {
	// Type is the type of the websocket message.
	// Expect websocket.TextMessage or websocket.BinaryMessage
	Type    int
	Payload []byte
}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	hub *Hub

	// The websocket connection.
	conn *websocket.Conn

	// Buffered channel of outbound messages.
	send chan WriteData

	// Agent identity and the tier it subscribes to.
	agentID string
	tier    entities.Tier

	// Logger
	logger *zap.Logger
}

// HandleWebSocketWithAuth handles websocket requests with a pre-authenticated
// agent identity.
func HandleWebSocketWithAuth(hub *Hub, c echo.Context, agentID string, tier entities.Tier, logger *zap.Logger) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", zap.Error(err))
		return err
	}

	client := &Client{
		hub:     hub,
		conn:    conn,
		send:    make(chan WriteData, 256),
		agentID: agentID,
		tier:    tier,
		logger:  logger,
	}

	client.hub.register <- client

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.writePump()
	go client.readPump()

	return nil
}

// readPump pumps messages from the websocket connection to the hub.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", zap.Error(err))
			}
			break
		}

		switch messageType {
		case websocket.TextMessage:
			// Control messages (status requests, metadata)
			c.processControlMessage(message)
		case websocket.BinaryMessage:
			// An encoded Rasoom frame coming back from an agent
			c.processFrame(message)
		default:
			c.logger.Warn("Received unknown message type", zap.Int("type", messageType))
		}
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
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

			if err := c.conn.WriteMessage(message.Type, message.Payload); err != nil {
				c.logger.Error("Failed to write message", zap.Error(err))
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

// processControlMessage processes incoming JSON control messages
func (c *Client) processControlMessage(message []byte) {
	msgType, err := ParseControlType(message)
	if err != nil {
		c.logger.Error("Failed to parse control message", zap.Error(err))
		return
	}

	switch msgType {
	case ControlTypeStatus:
		c.sendStatus()
	default:
		c.logger.Warn("Unknown control message type", zap.String("type", msgType))
	}
}

// processFrame decodes a binary frame received from an agent. Frames that
// fail recovery are logged and dropped here; the agent gets a drop notice
// so it can stop waiting.
func (c *Client) processFrame(frame []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	intent, err := c.hub.service.Receive(ctx, c.agentID, frame)
	if err != nil {
		c.enqueueJSON(DropNotice{
			Type:   ControlTypeDropped,
			Reason: err.Error(),
		})
		return
	}

	c.enqueueJSON(IntentNotice{
		Type:    ControlTypeIntent,
		AgentID: c.agentID,
		Intent:  intent,
	})
}

// sendStatus reports the agent's subscription and the hub's current stats.
func (c *Client) sendStatus() {
	c.enqueueJSON(StatusNotice{
		Type:        ControlTypeStatus,
		AgentID:     c.agentID,
		Tier:        c.tier,
		Subscribers: c.hub.SubscriberCount(c.tier),
		Stats:       c.hub.service.Stats(),
	})
}

func (c *Client) enqueueJSON(v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		c.logger.Error("Failed to marshal notice", zap.Error(err))
		return
	}
	select {
	case c.send <- WriteData{Type: websocket.TextMessage, Payload: payload}:
	default:
		c.logger.Warn("Agent send buffer full, dropping notice",
			zap.String("agentID", c.agentID))
	}
}
