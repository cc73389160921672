// Package tracking pushes order events to connected websocket clients.
// Staff and admin clients receive every event; a customer only receives
// events about their own orders.
package tracking

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/foodhub/models"
	"github.com/yeremiapane/foodhub/utils"
)

// Event types
const (
	EventOrderCreated = "order_created"
	EventOrderUpdate  = "order_update"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// OrderEvent is the payload sent for order events.
type OrderEvent struct {
	OrderID      uint               `json:"order_id"`
	UserID       uint               `json:"user_id"`
	RestaurantID uint               `json:"restaurant_id"`
	Status       models.OrderStatus `json:"status"`
	Progress     int                `json:"progress"`
	Total        float64            `json:"total"`
}

const (
	// writeWait bounds a single frame write to a client.
	writeWait = 10 * time.Second
	// sendBufferSize is how many events may queue for a slow client
	// before it is dropped.
	sendBufferSize = 64
)

// client is one tracking connection. Only its write pump writes to conn.
type client struct {
	conn   *websocket.Conn
	userID uint
	role   models.Role
	send   chan []byte
}

func (c *client) wants(order models.Order) bool {
	return c.role != models.RoleCustomer || c.userID == order.UserID
}

// Hub holds every connected tracking client. Publishing never blocks on a
// socket: events are queued per client and written by that client's pump.
type Hub struct {
	clients map[*websocket.Conn]*client
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]*client)}
}

// RegisterClient adds conn for the given principal and starts its write pump.
func (h *Hub) RegisterClient(conn *websocket.Conn, userID uint, role models.Role) {
	c := &client{conn: conn, userID: userID, role: role, send: make(chan []byte, sendBufferSize)}
	h.mutex.Lock()
	h.clients[conn] = c
	h.mutex.Unlock()
	go h.writePump(c)
}

// UnregisterClient removes and closes conn.
func (h *Hub) UnregisterClient(conn *websocket.Conn) {
	h.mutex.Lock()
	h.removeLocked(conn)
	h.mutex.Unlock()
	conn.Close()
}

// removeLocked forgets conn and stops its pump. Callers hold h.mutex.
func (h *Hub) removeLocked(conn *websocket.Conn) {
	if c, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		close(c.send)
	}
}

// Shutdown closes every client connection.
func (h *Hub) Shutdown() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for conn := range h.clients {
		h.removeLocked(conn)
	}
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

func (h *Hub) writePump(c *client) {
	defer c.conn.Close()

	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Warnf("dropping tracking client of user %d: %v", c.userID, err)
			h.mutex.Lock()
			h.removeLocked(c.conn)
			h.mutex.Unlock()
			// drain so removeLocked's close ends the range
			for range c.send {
			}
			return
		}
	}

	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
}

func (h *Hub) PublishOrderCreated(order models.Order) {
	h.publish(EventOrderCreated, order)
}

func (h *Hub) PublishOrderUpdate(order models.Order) {
	h.publish(EventOrderUpdate, order)
}

func (h *Hub) publish(event string, order models.Order) {
	data, err := json.Marshal(Message{
		Event: event,
		Data: OrderEvent{
			OrderID:      order.ID,
			UserID:       order.UserID,
			RestaurantID: order.RestaurantID,
			Status:       order.Status,
			Progress:     order.Status.Progress(),
			Total:        order.Total,
		},
	})
	if err != nil {
		utils.ErrorLogger.Errorf("error marshaling %s event: %v", event, err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for conn, c := range h.clients {
		if !c.wants(order) {
			continue
		}
		select {
		case c.send <- data:
		default:
			utils.ErrorLogger.Warnf("tracking client of user %d is not reading, dropping it", c.userID)
			h.removeLocked(conn)
			conn.Close()
		}
	}
	utils.InfoLogger.Debugf("published %s for order %d", event, order.ID)
}
