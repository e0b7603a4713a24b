package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	EventInquiryCreated       = "inquiry.created"
	EventInquiryStatusChanged = "inquiry.status_changed"
)

// Event is the JSON frame pushed to connected users.
type Event struct {
	Type   string    `json:"type"`
	Data   any       `json:"data,omitempty"`
	SentAt time.Time `json:"sent_at"`
}

// Notifier delivers events to whoever of a user is online. A user without a
// live connection simply misses the event.
type Notifier interface {
	NotifyUser(userID uint, event Event)
}

// Hub tracks live connections per user.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu          sync.RWMutex
	userClients map[uint]map[*Client]struct{}

	now func() time.Time
}

func NewHub() *Hub {
	return &Hub{
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		done:        make(chan struct{}),
		userClients: make(map[uint]map[*Client]struct{}),
		now:         time.Now,
	}
}

// Run serves registrations until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case c := <-h.register:
			h.add(c)
		case c := <-h.unregister:
			h.remove(c)
		}
	}
}

func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
		close(c.Send)
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	conns, ok := h.userClients[c.UserID]
	if !ok {
		conns = make(map[*Client]struct{})
		h.userClients[c.UserID] = conns
	}
	conns[c] = struct{}{}
	count := len(conns)
	h.mu.Unlock()

	log.Debug().Uint("user_id", c.UserID).Int("connections", count).Msg("notification client connected")
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(c)
}

// dropLocked closes c.Send at most once; callers hold h.mu.
func (h *Hub) dropLocked(c *Client) {
	conns, ok := h.userClients[c.UserID]
	if !ok {
		return
	}
	if _, ok := conns[c]; !ok {
		return
	}
	delete(conns, c)
	close(c.Send)
	if len(conns) == 0 {
		delete(h.userClients, c.UserID)
	}
	log.Debug().Uint("user_id", c.UserID).Int("connections", len(conns)).Msg("notification client disconnected")
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, conns := range h.userClients {
		for c := range conns {
			h.dropLocked(c)
		}
	}
}

// NotifyUser sends event to every connection of userID. Clients whose send
// buffer is full are disconnected.
func (h *Hub) NotifyUser(userID uint, event Event) {
	if event.SentAt.IsZero() {
		event.SentAt = h.now().UTC()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("type", event.Type).Msg("failed to encode notification")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.userClients[userID] {
		select {
		case c.Send <- payload:
		default:
			log.Warn().Uint("user_id", userID).Msg("dropping slow notification client")
			h.dropLocked(c)
		}
	}
}

// IsUserOnline reports whether userID has at least one live connection.
func (h *Hub) IsUserOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.userClients[userID]) > 0
}

// Connections counts live connections across all users.
func (h *Hub) Connections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, conns := range h.userClients {
		n += len(conns)
	}
	return n
}
