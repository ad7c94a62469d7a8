package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/meshur/storefront-backend/pkg/logger"
)

const (
	// Rate limiting: messages accepted from one client per second
	maxMessagesPerSecond = 10

	EventCartUpdated      = "cart.updated"
	EventFavoritesUpdated = "favorites.updated"
	EventPong             = "pong"
)

// Event is pushed to every connection of a session.
type Event struct {
	Type      string      `json:"type"`
	SessionID string      `json:"-"`
	Data      interface{} `json:"data,omitempty"`
	At        time.Time   `json:"at"`
}

// ClientMessage is what a browser may send; only "ping" is understood.
type ClientMessage struct {
	Type string `json:"type"`
}

type Client struct {
	Hub           *Hub
	Conn          *Conn
	SessionID     string
	Send          chan []byte
	MessageCount  int       // messages seen in the current second
	LastResetTime time.Time // start of the current second
	RateMu        sync.Mutex
}

func NewClient(hub *Hub, conn *Conn, sessionID string) *Client {
	return &Client{
		Hub:       hub,
		Conn:      conn,
		SessionID: sessionID,
		Send:      make(chan []byte, 64),
	}
}

// Hub tracks open connections per session. Several tabs of one visitor
// share a session and all receive its events.
type Hub struct {
	clients map[string][]*Client

	// registrations and removals share one channel so a client that
	// disconnects right away is never re-added after its removal
	membership chan membershipOp
	broadcast  chan *sessionMessage

	mu sync.RWMutex
}

type membershipOp struct {
	client *Client
	join   bool
}

type sessionMessage struct {
	sessionID string
	payload   []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string][]*Client),
		membership: make(chan membershipOp, 512),
		broadcast:  make(chan *sessionMessage, 1024),
	}
}

// Run owns registration and delivery until ctx is done, then closes every
// client's send channel.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for sid, list := range h.clients {
				for _, c := range list {
					close(c.Send)
				}
				delete(h.clients, sid)
			}
			h.mu.Unlock()
			return

		case op := <-h.membership:
			if op.join {
				h.addClient(op.client)
			} else {
				h.removeClient(op.client)
			}

		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
	total := len(h.clients[client.SessionID])
	h.mu.Unlock()

	logger.Info("WebSocket client registered", map[string]interface{}{
		"session_id":  client.SessionID,
		"connections": total,
	})
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	list, ok := h.clients[client.SessionID]
	if !ok {
		h.mu.Unlock()
		return
	}

	remaining := make([]*Client, 0, len(list))
	found := false
	for _, c := range list {
		if c == client {
			found = true
			continue
		}
		remaining = append(remaining, c)
	}
	if !found {
		h.mu.Unlock()
		return
	}
	if len(remaining) == 0 {
		delete(h.clients, client.SessionID)
	} else {
		h.clients[client.SessionID] = remaining
	}
	close(client.Send)
	h.mu.Unlock()

	logger.Info("WebSocket client unregistered", map[string]interface{}{
		"session_id":  client.SessionID,
		"connections": len(remaining),
	})
}

func (h *Hub) deliver(msg *sessionMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients[msg.sessionID] {
		select {
		case client.Send <- msg.payload:
		default:
			// slow reader; drop the connection rather than block the hub
			go h.Unregister(client)
			logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
				"session_id": msg.sessionID,
			})
		}
	}
}

// Publish queues event for every connection of its session. Events are
// dropped when the hub is saturated or nobody is listening.
func (h *Hub) Publish(event Event) {
	if !h.HasClients(event.SessionID) {
		return
	}
	if event.At.IsZero() {
		event.At = time.Now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal event", err, map[string]interface{}{
			"type": event.Type,
		})
		return
	}

	select {
	case h.broadcast <- &sessionMessage{sessionID: event.SessionID, payload: data}:
	default:
		logger.Warn("Broadcast channel full, event dropped", map[string]interface{}{
			"session_id": event.SessionID,
			"type":       event.Type,
		})
	}
}

func (h *Hub) Register(client *Client) {
	h.membership <- membershipOp{client: client, join: true}
}

func (h *Hub) Unregister(client *Client) {
	h.membership <- membershipOp{client: client}
}

func (h *Hub) HasClients(sessionID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID]) > 0
}

// ConnectionCount reports open connections across all sessions.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, list := range h.clients {
		n += len(list)
	}
	return n
}

// HandleClientMessage answers pings and ignores everything else.
func (h *Hub) HandleClientMessage(client *Client, message []byte) {
	client.RateMu.Lock()
	now := time.Now()
	if now.Sub(client.LastResetTime) >= time.Second {
		client.MessageCount = 0
		client.LastResetTime = now
	}
	client.MessageCount++
	count := client.MessageCount
	client.RateMu.Unlock()

	if count > maxMessagesPerSecond {
		logger.Warn("Rate limit exceeded", map[string]interface{}{
			"session_id": client.SessionID,
			"count":      count,
		})
		return
	}

	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		logger.Warn("Failed to parse client message", map[string]interface{}{
			"session_id": client.SessionID,
			"error":      err.Error(),
		})
		return
	}

	if msg.Type == "ping" {
		h.Publish(Event{Type: EventPong, SessionID: client.SessionID})
	}
}
