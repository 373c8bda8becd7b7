package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/edsotopublicidad-gif/Sotos-App/events"
	"github.com/edsotopublicidad-gif/Sotos-App/middleware"
	"github.com/edsotopublicidad-gif/Sotos-App/models"
	"github.com/edsotopublicidad-gif/Sotos-App/store"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub forwards change events from the bus to every connected client. It is
// the service-side replacement for the browser storage-event channel: a
// client that sees an event re-reads the named collection. Every resync
// interval the hub also emits a bare sync tick, so a client that missed an
// event catches up the same way a polling fallback would.
type Hub struct {
	bus    *events.Bus
	auth   *store.AuthStore
	log    *zap.Logger
	resync time.Duration

	started sync.Once
	mu      sync.RWMutex
	clients map[*client]struct{}
}

type client struct {
	conn     *websocket.Conn
	writeMu  sync.Mutex
	role     models.UserRole
	clientID string
}

func (c *client) writeJSON(value any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(value)
}

func NewHub(bus *events.Bus, auth *store.AuthStore, log *zap.Logger, resync time.Duration) *Hub {
	if resync <= 0 {
		resync = 5 * time.Second
	}
	return &Hub{
		bus:     bus,
		auth:    auth,
		log:     log,
		resync:  resync,
		clients: make(map[*client]struct{}),
	}
}

// Run starts the forwarding loop once.
func (h *Hub) Run() {
	h.started.Do(func() {
		go h.loop()
	})
}

func (h *Hub) loop() {
	ch, cancel := h.bus.Subscribe()
	defer cancel()

	ticker := time.NewTicker(h.resync)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast(event)
		case <-ticker.C:
			h.broadcast(events.Event{Key: events.KeySync})
		}
	}
}

// broadcast delivers an event to every client it is addressed to. The
// originating client is skipped: its own write already updated it, and a
// device must never ring for its own action.
func (h *Hub) broadcast(event events.Event) {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if event.Origin != "" && event.Origin == c.clientID {
			continue
		}
		if !event.ForRole(c.role) {
			continue
		}
		if err := c.writeJSON(event); err != nil {
			h.drop(c)
		}
	}
}

// Handle upgrades an authenticated connection and keeps it registered
// until the peer goes away. Expects the JWT in a "token" query parameter,
// since browsers cannot set headers on websocket dials.
func (h *Hub) Handle(c *gin.Context) {
	claims, err := middleware.ParseToken(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}
	if middleware.SessionExpired(claims, h.auth) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Password was changed, please log in again"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	cl := &client{conn: conn, role: claims.Role, clientID: claims.ClientID}
	h.mu.Lock()
	h.clients[cl] = struct{}{}
	h.mu.Unlock()
	h.log.Info("client connected", zap.String("role", string(claims.Role)))

	// Clients only listen; the read loop just notices the close.
	go func() {
		defer h.drop(cl)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		_ = c.conn.Close()
	}
	h.mu.Unlock()
}

// ClientCount reports how many clients are connected.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
