package infrastructure

import (
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"salleYaFloor/internal/modules/realtime/domain"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

// Command is the only inbound message shape clients may send: keepalive
// pings and topic subscription changes. Everything else the floor does goes
// through the REST API.
type Command struct {
	Action string   `json:"action"`
	Topics []string `json:"topics,omitempty"`
}

type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	staff      string
	sessionID  string
	subscribed map[string]struct{}
	mu         sync.Mutex
	closeOnce  sync.Once
}

func NewClient(hub *Hub, conn *websocket.Conn, staff, sessionID string, buf int) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, buf),
		staff:      strings.TrimSpace(staff),
		sessionID:  sessionID,
		subscribed: make(map[string]struct{}),
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.send)
		_ = c.conn.Close()
	})
}

func (c *Client) SendDomainMessage(msg *domain.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("websocket marshal error", slog.Any("error", err))
		return
	}
	select {
	case c.send <- data:
	default:
		slog.Warn("websocket send buffer full", slog.String("staff", c.staff), slog.String("sessionId", c.sessionID))
		go c.hub.detachClient(c)
	}
}

func (c *Client) WritePump() {
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				slog.Warn("websocket write error", slog.Any("error", err))
				return
			}
		case <-ping.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				slog.Warn("websocket ping error", slog.Any("error", err))
				return
			}
		}
	}
}

func (c *Client) ReadPump() {
	c.conn.SetReadLimit(1 << 16)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	defer c.hub.detachClient(c)
	for {
		var cmd Command
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		if err := c.conn.ReadJSON(&cmd); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Warn("websocket read error", slog.String("staff", c.staff), slog.String("sessionId", c.sessionID), slog.Any("error", err))
			}
			return
		}
		c.processCommand(cmd)
	}
}

func (c *Client) processCommand(cmd Command) {
	switch strings.ToLower(strings.TrimSpace(cmd.Action)) {
	case "ping":
		c.SendDomainMessage(&domain.Message{
			Topic:     domain.TopicSystemPong,
			Entity:    domain.SystemEntity,
			Action:    domain.ActionPong,
			Metadata:  map[string]string{"sessionId": c.sessionID},
			Timestamp: time.Now().UTC(),
		})
	case "subscribe":
		for _, topic := range cmd.Topics {
			if trimmed := strings.TrimSpace(topic); trimmed != "" {
				c.hub.subscribe(c, trimmed)
			}
		}
	case "unsubscribe":
		for _, topic := range cmd.Topics {
			if trimmed := strings.TrimSpace(topic); trimmed != "" {
				c.hub.unsubscribe(c, trimmed)
			}
		}
	default:
		c.SendDomainMessage(&domain.Message{
			Topic:     domain.TopicSystemError,
			Entity:    domain.SystemEntity,
			Action:    domain.ActionError,
			Metadata:  map[string]string{"sessionId": c.sessionID, "action": cmd.Action},
			Data:      map[string]string{"error": "unsupported action"},
			Timestamp: time.Now().UTC(),
		})
	}
}
