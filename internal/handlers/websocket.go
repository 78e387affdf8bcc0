package handlers

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/arnold/selfcare-api/internal/middleware"
	"github.com/arnold/selfcare-api/internal/models"
	"github.com/arnold/selfcare-api/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event types sent over WebSocket
const (
	EventActivityCreated   = "activity_created"
	EventActivityUpdated   = "activity_updated"
	EventActivityCompleted = "activity_completed"
	EventActivityDeleted   = "activity_deleted"
)

// WSEvent is the JSON message sent to connected clients
type WSEvent struct {
	Type   string      `json:"type"`
	UserID string      `json:"userId"`
	Data   interface{} `json:"data,omitempty"`
}

// ActivityEvent pairs the changed activity with the owner's recomputed totals.
type ActivityEvent struct {
	Activity models.Activity        `json:"activity"`
	Summary  models.SummaryResponse `json:"summary"`
}

// MessageWriter is the part of *websocket.Conn the hub writes to.
type MessageWriter interface {
	WriteMessage(messageType int, data []byte) error
}

// connection wraps a websocket connection; writes are serialized per conn.
// loc is the calendar the client asked for when it connected.
type connection struct {
	mu   sync.Mutex
	conn MessageWriter
	loc  *time.Location
}

func (c *connection) write(msg []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, msg)
}

// Hub fans events out to every open connection of a user. One user may have
// several tabs or devices connected, each on its own timezone.
type Hub struct {
	mu    sync.RWMutex
	rooms map[uuid.UUID]map[*connection]bool // userID -> set of connections
	loc   *time.Location                     // for connections that gave none
	log   *zap.Logger
}

func NewHub(loc *time.Location, log *zap.Logger) *Hub {
	if loc == nil {
		loc = time.UTC
	}
	return &Hub{
		rooms: make(map[uuid.UUID]map[*connection]bool),
		loc:   loc,
		log:   log,
	}
}

// Subscribe attaches w to userID's events, summarized on loc. The returned
// func detaches it.
func (h *Hub) Subscribe(userID uuid.UUID, w MessageWriter, loc *time.Location) func() {
	if loc == nil {
		loc = h.loc
	}
	conn := &connection{conn: w, loc: loc}
	h.register(userID, conn)
	return func() { h.unregister(userID, conn) }
}

func (h *Hub) register(userID uuid.UUID, conn *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[userID] == nil {
		h.rooms[userID] = make(map[*connection]bool)
	}
	h.rooms[userID][conn] = true
	h.log.Debug("ws register", zap.Stringer("userId", userID), zap.Int("total", len(h.rooms[userID])))
}

func (h *Hub) unregister(userID uuid.UUID, conn *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.rooms[userID]; ok {
		delete(conns, conn)
		h.log.Debug("ws unregister", zap.Stringer("userId", userID), zap.Int("remaining", len(conns)))
		if len(conns) == 0 {
			delete(h.rooms, userID)
		}
	}
}

// Connections returns how many sockets userID has open.
func (h *Hub) Connections(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[userID])
}

// Broadcast sends an event to all of userID's connections. build is called
// once per distinct connection timezone.
func (h *Hub) Broadcast(userID uuid.UUID, build func(loc *time.Location) WSEvent) {
	h.mu.RLock()
	conns := make([]*connection, 0, len(h.rooms[userID]))
	for c := range h.rooms[userID] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	if len(conns) == 0 {
		return
	}

	byZone := make(map[string][]byte)
	for _, c := range conns {
		loc := c.loc
		if loc == nil {
			loc = h.loc
		}
		msg, ok := byZone[loc.String()]
		if !ok {
			var err error
			msg, err = json.Marshal(build(loc))
			if err != nil {
				h.log.Error("ws broadcast marshal", zap.Error(err))
				return
			}
			byZone[loc.String()] = msg
		}
		if err := c.write(msg); err != nil {
			h.log.Warn("ws write", zap.Stringer("userId", userID), zap.Error(err))
		}
	}
}

// WebSocketUpgrade checks the upgrade request and authenticates it. Browsers
// cannot set headers on websocket requests, so ?token= is accepted too.
// ?tz= picks the calendar for the summaries this socket receives.
func (h *Handler) WebSocketUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		tokenString := c.Query("token")
		if tokenString == "" {
			tokenString = middleware.BearerToken(c)
		}
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "No token, authorization denied",
			})
		}

		claims, err := middleware.ParseToken(h.jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Token is not valid",
			})
		}

		// same rule as the REST routes: the account must still exist
		if _, err := h.users.FindByID(c.UserContext(), claims.UserID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Token is not valid",
				})
			}
			return h.storeFailure(c, "Failed to load user", err)
		}

		loc, err := h.location(c)
		if err != nil {
			return badRequest(c, "Invalid timezone")
		}

		c.Locals("userId", claims.UserID)
		c.Locals("loc", loc)
		return c.Next()
	}
}

// HandleWebSocket keeps a user's connection registered until it closes.
func (h *Handler) HandleWebSocket(c *websocket.Conn) {
	userID, ok := c.Locals("userId").(uuid.UUID)
	if !ok {
		c.Close()
		return
	}
	loc, _ := c.Locals("loc").(*time.Location)

	unsubscribe := h.hub.Subscribe(userID, c, loc)
	defer unsubscribe()

	// Clients only send keepalives; read until the socket closes.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
}
