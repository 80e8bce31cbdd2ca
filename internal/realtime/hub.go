// Package realtime implements the room-based notification layer: one room
// per office, websocket connections as members, and in-memory presence
// tracking. Delivery is best-effort fan-out with no guarantees regarding
// acknowledgement, ordering, durability or retries; it is not a message
// broker.
package realtime

import (
	"encoding/json"
	"log"
	"sync"
)

// Frame is the wire envelope for every event in both directions.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

func encodeFrame(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Frame{Event: event, Data: data})
}

// Hub tracks connections and their room memberships and fans events out to
// them. It implements ports.EventPublisher.
//
// Publishing never blocks: a member whose send buffer is full simply misses
// the frame. The hub is created at process start and injected, never held as
// package state.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client            // connection id -> client
	rooms   map[string]map[string]*Client // office id -> connection id -> client
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		rooms:   make(map[string]map[string]*Client),
	}
}

// Register adds a connection to the hub. Rooms are joined separately.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.ID] = c
}

// Unregister removes a connection from the hub and from every room it
// joined.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.ID]; !ok {
		return
	}
	delete(h.clients, c.ID)
	for officeID, members := range h.rooms {
		delete(members, c.ID)
		if len(members) == 0 {
			delete(h.rooms, officeID)
		}
	}
}

// Join adds a connection to an office's room. Joining the same room twice
// is idempotent: the connection holds exactly one membership and receives
// each published event once.
func (h *Hub) Join(c *Client, officeID string) {
	if officeID == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.ID]; !ok {
		h.clients[c.ID] = c
	}
	members, ok := h.rooms[officeID]
	if !ok {
		members = make(map[string]*Client)
		h.rooms[officeID] = members
	}
	members[c.ID] = c
}

// PublishToOffice delivers one event to every member of the office's room.
func (h *Hub) PublishToOffice(officeID, event string, payload any) {
	msg, err := encodeFrame(event, payload)
	if err != nil {
		log.Printf("publish encode failed: office_id=%s event=%s err=%v", officeID, event, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.rooms[officeID] {
		if !c.enqueue(msg) {
			log.Printf("dropped frame: conn_id=%s event=%s send buffer full", c.ID, event)
		}
	}
}

// Broadcast delivers one event to every connection regardless of room.
func (h *Hub) Broadcast(event string, payload any) {
	msg, err := encodeFrame(event, payload)
	if err != nil {
		log.Printf("broadcast encode failed: event=%s err=%v", event, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		if !c.enqueue(msg) {
			log.Printf("dropped frame: conn_id=%s event=%s send buffer full", c.ID, event)
		}
	}
}

// RoomSize reports the number of connections joined to an office's room.
func (h *Hub) RoomSize(officeID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[officeID])
}
