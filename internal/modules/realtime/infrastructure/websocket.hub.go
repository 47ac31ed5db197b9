package infrastructure

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"

	"salleYaFloor/internal/modules/realtime/domain"
)

// Hub keeps the set of connected staff clients and fans messages out to
// them by topic. A client whose send buffer is full is detached rather than
// allowed to slow every other client down.
type Hub struct {
	topics  map[string]map[*Client]struct{}
	clients map[string]*Client
	mu      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		topics:  make(map[string]map[*Client]struct{}),
		clients: make(map[string]*Client),
	}
}

func (h *Hub) registerClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if existing, ok := h.clients[c.sessionID]; ok && existing != c {
		h.detachLocked(existing)
	}
	h.clients[c.sessionID] = c
	slog.Info("ws client registered", slog.String("staff", c.staff), slog.String("sessionId", c.sessionID))
}

func (h *Hub) subscribe(c *Client, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.topics[topic] == nil {
		h.topics[topic] = make(map[*Client]struct{})
	}
	h.topics[topic][c] = struct{}{}
	c.mu.Lock()
	c.subscribed[topic] = struct{}{}
	c.mu.Unlock()
}

func (h *Hub) unsubscribe(c *Client, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs, ok := h.topics[topic]; ok {
		delete(subs, c)
		if len(subs) == 0 {
			delete(h.topics, topic)
		}
	}
	c.mu.Lock()
	delete(c.subscribed, topic)
	c.mu.Unlock()
	slog.Debug("ws client unsubscribed", slog.String("staff", c.staff), slog.String("sessionId", c.sessionID), slog.String("topic", topic))
}

func (h *Hub) detachClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.detachLocked(c)
}

func (h *Hub) detachLocked(c *Client) {
	if c == nil {
		return
	}
	c.mu.Lock()
	for topic := range c.subscribed {
		if subs, ok := h.topics[topic]; ok {
			delete(subs, c)
			if len(subs) == 0 {
				delete(h.topics, topic)
			}
		}
	}
	c.mu.Unlock()
	if h.clients[c.sessionID] == c {
		delete(h.clients, c.sessionID)
	}
	c.close()
	slog.Info("ws client detached", slog.String("staff", c.staff), slog.String("sessionId", c.sessionID))
}

// ClientCount reports the number of attached clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) Broadcast(_ context.Context, msg *domain.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("broadcast marshal error", slog.Any("error", err))
		return
	}

	h.mu.RLock()
	subs := h.topics[msg.Topic]
	clients := make([]*Client, 0, len(subs))
	for c := range subs {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	targetSession := ""
	if msg.Metadata != nil {
		targetSession = strings.TrimSpace(msg.Metadata["sessionId"])
	}

	for _, c := range clients {
		if targetSession != "" && c.sessionID != targetSession {
			continue
		}
		select {
		case c.send <- data:
		default:
			go h.detachClient(c)
		}
	}
}

func (h *Hub) AttachClient(c *Client, topics []string) {
	h.registerClient(c)
	for _, topic := range topics {
		if trimmed := strings.TrimSpace(topic); trimmed != "" {
			h.subscribe(c, trimmed)
		}
	}
	slog.Info("ws client attached", slog.String("staff", c.staff), slog.String("sessionId", c.sessionID), slog.Any("topics", topics))
}
