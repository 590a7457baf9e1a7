package store

import (
	"context"
	"sync"

	"github.com/chatterbox-online/signaling/internal/models"
)

// MemoryStore is an in-process RoomStore used by tests and local runs
// without Redis. Rooms are deep-copied on the way in and out so callers
// never alias stored state.
type MemoryStore struct {
	mu    sync.RWMutex
	rooms map[string]models.Room
	conns map[string]string
}

func NewMemory() *MemoryStore {
	return &MemoryStore{
		rooms: make(map[string]models.Room),
		conns: make(map[string]string),
	}
}

func cloneRoom(room models.Room) models.Room {
	room.Users = append([]models.User(nil), room.Users...)
	return room
}

func (s *MemoryStore) FindByID(_ context.Context, roomID string) (*models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return nil, ErrNotFound
	}
	room = cloneRoom(room)
	return &room, nil
}

func (s *MemoryStore) FindAll(_ context.Context) ([]models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rooms := make([]models.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		rooms = append(rooms, cloneRoom(room))
	}
	return rooms, nil
}

func (s *MemoryStore) Insert(_ context.Context, room *models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[room.RoomID]; ok {
		return ErrRoomExists
	}
	s.rooms[room.RoomID] = cloneRoom(*room)
	return nil
}

func (s *MemoryStore) Save(_ context.Context, room *models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rooms[room.RoomID] = cloneRoom(*room)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.rooms, roomID)
	return nil
}

func (s *MemoryStore) IndexConnection(_ context.Context, connectionID, roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conns[connectionID] = roomID
	return nil
}

func (s *MemoryStore) UnindexConnection(_ context.Context, connectionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.conns, connectionID)
	return nil
}

func (s *MemoryStore) RoomForConnection(_ context.Context, connectionID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	roomID, ok := s.conns[connectionID]
	if !ok {
		return "", ErrNotFound
	}
	return roomID, nil
}
