// Package hub fans domain events out to websocket subscribers. Rooms are
// named after the entity they mirror; a connection may sit in any number of
// rooms at once. The hub is handed to handlers explicitly, there is no
// package-level instance.
package hub

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Conn is the write side of a subscriber connection.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// SafeConn serializes writes to an underlying connection. Broadcasts run on
// whatever goroutine handled the HTTP mutation, and the websocket transport
// allows only one writer at a time, so every connection handed to the hub
// must go through one of these.
type SafeConn struct {
	mu   sync.Mutex
	conn Conn
}

func NewSafeConn(conn Conn) *SafeConn {
	return &SafeConn{conn: conn}
}

func (c *SafeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *SafeConn) Close() error {
	return c.conn.Close()
}

// Message is the envelope every subscriber receives.
type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub tracks which connection sits in which room and broadcasts messages.
type Hub struct {
	mu    sync.Mutex
	rooms map[string]map[string]Conn
	log   *zap.Logger
}

func New(log *zap.Logger) *Hub {
	return &Hub{
		rooms: make(map[string]map[string]Conn),
		log:   log,
	}
}

// StudioRoom names the room carrying studio-level events.
func StudioRoom(studioID uint) string {
	return fmt.Sprintf("studio:%d", studioID)
}

// DiscussionRoom names the room carrying a single discussion's post events.
func DiscussionRoom(discussionID uint) string {
	return fmt.Sprintf("discussion:%d", discussionID)
}

// Join adds the connection to a room, creating the room on first use.
func (h *Hub) Join(room, connID string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[room]
	if !ok {
		members = make(map[string]Conn)
		h.rooms[room] = members
	}
	members[connID] = conn
}

// Leave removes the connection from one room. Empty rooms are dropped.
func (h *Hub) Leave(room, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.rooms[room]; ok {
		delete(members, connID)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// LeaveAll removes the connection from every room it joined. Called when the
// connection closes.
func (h *Hub) LeaveAll(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for room, members := range h.rooms {
		delete(members, connID)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// Broadcast delivers an event to every subscriber of the room except the
// originating connection, so the client that caused the mutation does not
// receive its own echo. The member set is snapshotted under the lock and
// writes happen outside it; connections joining or leaving mid-broadcast may
// or may not see the message.
func (h *Hub) Broadcast(room, event string, data interface{}, originConnID string) {
	h.mu.Lock()
	targets := make(map[string]Conn, len(h.rooms[room]))
	for id, conn := range h.rooms[room] {
		if id != originConnID {
			targets[id] = conn
		}
	}
	h.mu.Unlock()

	msg := Message{Event: event, Data: data}
	for id, conn := range targets {
		if err := conn.WriteJSON(msg); err != nil {
			h.log.Warn("dropping unwritable subscriber",
				zap.String("room", room),
				zap.String("conn_id", id),
				zap.Error(err))
			h.LeaveAll(id)
			conn.Close()
		}
	}
}

// RoomSize reports the current number of subscribers in a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[room])
}
