// Package gateway delivers realtime events to connected clients: to a
// single connection or to every connection in a room except the sender.
// Room groups here are derived, recomputable state; the stored user list
// is always the authoritative membership.
package gateway

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/chatterbox-online/signaling/internal/models"
)

type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	rooms   map[string]map[string]*Client
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		rooms:   make(map[string]map[string]*Client),
	}
}

// Register adds a connected client to the hub, keyed by connection ID.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
}

// Unregister removes the connection from the hub and every room group it
// joined, and stops its write pump. Safe to call for unknown connections.
func (h *Hub) Unregister(connectionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[connectionID]
	if !ok {
		return
	}
	delete(h.clients, connectionID)
	for roomID, group := range h.rooms {
		delete(group, connectionID)
		if len(group) == 0 {
			delete(h.rooms, roomID)
		}
	}
	close(client.send)
}

// JoinGroup associates a connection with a room's broadcast group.
func (h *Hub) JoinGroup(roomID, connectionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[connectionID]
	if !ok {
		return
	}
	group, ok := h.rooms[roomID]
	if !ok {
		group = make(map[string]*Client)
		h.rooms[roomID] = group
	}
	group[connectionID] = client
}

// SendTo delivers one event to one connection. Unknown connections are a
// no-op; a full send buffer drops the event with a log line.
func (h *Hub) SendTo(connectionID string, env models.Envelope) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	client, ok := h.clients[connectionID]
	if !ok {
		log.Printf("Connection %s not found, dropping %s", connectionID, env.Event)
		return
	}
	data, ok := marshalEnvelope(env)
	if !ok {
		return
	}
	client.push(data, env.Event)
}

// Broadcast delivers an event to every connection in the room's group
// except excludeID.
func (h *Hub) Broadcast(roomID, excludeID string, env models.Envelope) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	data, ok := marshalEnvelope(env)
	if !ok {
		return
	}
	for connectionID, client := range h.rooms[roomID] {
		if connectionID != excludeID {
			client.push(data, env.Event)
		}
	}
}

func marshalEnvelope(env models.Envelope) ([]byte, bool) {
	data, err := json.Marshal(env)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", env.Event, err)
		return nil, false
	}
	return data, true
}
