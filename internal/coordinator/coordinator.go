// Package coordinator implements the room/session state machine: room
// creation, join and reconnect, chat relay, mute, and disconnect cleanup.
// Every read-modify-write on a room happens under that room's mutex, so
// concurrent events on the same room serialize while distinct rooms stay
// concurrent.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/chatterbox-online/signaling/internal/ids"
	"github.com/chatterbox-online/signaling/internal/models"
	"github.com/chatterbox-online/signaling/internal/store"
)

var (
	ErrRoomExists    = errors.New("room already exists")
	ErrRoomNotFound  = errors.New("room does not exist")
	ErrInvalidUserID = errors.New("invalid userId")
)

// Gateway delivers events to live connections. Implemented by gateway.Hub.
type Gateway interface {
	JoinGroup(roomID, connectionID string)
	SendTo(connectionID string, env models.Envelope)
	Broadcast(roomID, excludeID string, env models.Envelope)
}

type Coordinator struct {
	store   store.RoomStore
	gateway Gateway
	newID   func() string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

type Option func(*Coordinator)

// WithIDGenerator replaces the identifier source. Tests use this to force
// colliding room IDs.
func WithIDGenerator(newID func() string) Option {
	return func(c *Coordinator) { c.newID = newID }
}

func New(st store.RoomStore, gw Gateway, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:   st,
		gateway: gw,
		newID:   ids.NewID,
		locks:   make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// roomLock returns the mutex serializing mutations for one room, creating
// it on first use.
func (c *Coordinator) roomLock(roomID string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()

	lock, ok := c.locks[roomID]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[roomID] = lock
	}
	return lock
}

func (c *Coordinator) dropRoomLock(roomID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.locks, roomID)
}

// CreateRoom mints a room holding a single not-yet-connected host user and
// returns the host credentials. A generated roomID that is already taken
// fails with ErrRoomExists; retrying is the caller's business.
func (c *Coordinator) CreateRoom(ctx context.Context) (*models.CreateRoomResponse, error) {
	roomID := c.newID()

	_, err := c.store.FindByID(ctx, roomID)
	if err == nil {
		return nil, ErrRoomExists
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hostUserID := c.newID()
	room := &models.Room{
		RoomID: roomID,
		Users: []models.User{
			{UserID: hostUserID, Role: models.RoleHost},
		},
	}

	if err := c.store.Insert(ctx, room); err != nil {
		if errors.Is(err, store.ErrRoomExists) {
			return nil, ErrRoomExists
		}
		return nil, err
	}

	log.Printf("Room created: %s", roomID)
	return &models.CreateRoomResponse{
		RoomID: roomID,
		Role:   models.RoleHost,
		UserID: hostUserID,
	}, nil
}

// JoinRoom admits a connection into a room. An empty req.UserID mints a new
// guest identity; a non-empty one must match an existing user and refreshes
// its connection while keeping its role (reconnect). On success the caller's
// connection is added to the room's broadcast group, the other participants
// receive user-joined, and the returned user list excludes the caller.
func (c *Coordinator) JoinRoom(ctx context.Context, connectionID string, req models.JoinRoomRequest) (models.Role, []models.User, error) {
	lock := c.roomLock(req.RoomID)
	lock.Lock()
	defer lock.Unlock()

	room, err := c.store.FindByID(ctx, req.RoomID)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil, ErrRoomNotFound
	}
	if err != nil {
		return "", nil, err
	}

	name := req.Name
	role := models.RoleGuest
	userID := req.UserID

	if userID == "" {
		if name == "" {
			name = fmt.Sprintf("Guest %d", len(room.Users))
		}
		userID = c.newID()
		room.Users = append(room.Users, models.User{
			UserID:       userID,
			ConnectionID: connectionID,
			PeerID:       req.PeerID,
			Role:         models.RoleGuest,
			Name:         name,
		})
		log.Printf("New guest %s joined room %s", userID, req.RoomID)
	} else {
		user := room.FindUser(userID)
		if user == nil {
			return "", nil, ErrInvalidUserID
		}
		user.ConnectionID = connectionID
		user.PeerID = req.PeerID
		user.Name = name
		role = user.Role
		log.Printf("User %s reconnected to room %s as %s", userID, req.RoomID, role)
	}

	if err := c.store.Save(ctx, room); err != nil {
		return "", nil, err
	}
	if err := c.store.IndexConnection(ctx, connectionID, req.RoomID); err != nil {
		return "", nil, err
	}

	c.gateway.JoinGroup(req.RoomID, connectionID)

	existing := make([]models.User, 0, len(room.Users))
	for _, u := range room.Users {
		if u.ConnectionID != connectionID {
			existing = append(existing, u)
		}
	}

	c.gateway.Broadcast(req.RoomID, connectionID, models.NewEnvelope(models.EventUserJoined, models.UserJoined{
		PeerID: req.PeerID,
		UserID: userID,
		Name:   name,
	}))

	return role, existing, nil
}

// ChatMessage relays a chat line to everyone in the room except the sender.
// Relay is best effort: a missing room drops the message without error.
func (c *Coordinator) ChatMessage(ctx context.Context, connectionID string, req models.ChatMessageRequest) error {
	_, err := c.store.FindByID(ctx, req.RoomID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	c.gateway.Broadcast(req.RoomID, connectionID, models.NewEnvelope(models.EventNewMessage, models.NewMessage{
		Sender:  req.Sender,
		Message: req.Message,
		Name:    req.Name,
	}))
	return nil
}

// MuteUser delivers a muted event to the target's live connection. Missing
// room, unknown user, or a target without a connection are silent no-ops.
func (c *Coordinator) MuteUser(ctx context.Context, req models.MuteUserRequest) error {
	room, err := c.store.FindByID(ctx, req.RoomID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	target := room.FindUser(req.TargetUserID)
	if target == nil || target.ConnectionID == "" {
		return nil
	}

	c.gateway.SendTo(target.ConnectionID, models.NewEnvelope(models.EventMuted, models.Muted{}))
	log.Printf("User %s muted by the host", req.TargetUserID)
	return nil
}

// Disconnect removes the user holding this connection from its room,
// notifies the remaining participants, and deletes the room if it is now
// empty. A connection that never joined a room is a no-op. The connection
// index is consulted first; the full scan remains as fallback for state
// that outlived the index (e.g. a process restart).
func (c *Coordinator) Disconnect(ctx context.Context, connectionID string) error {
	log.Printf("User disconnected: %s", connectionID)

	roomID, err := c.store.RoomForConnection(ctx, connectionID)
	switch {
	case err == nil:
		if _, err := c.removeFromRoom(ctx, roomID, connectionID); err != nil {
			return err
		}
	case errors.Is(err, store.ErrNotFound):
		rooms, err := c.store.FindAll(ctx)
		if err != nil {
			return err
		}
		for _, room := range rooms {
			if room.FindByConnection(connectionID) == nil {
				continue
			}
			removed, err := c.removeFromRoom(ctx, room.RoomID, connectionID)
			if err != nil {
				return err
			}
			if removed {
				// a connection belongs to at most one room
				break
			}
		}
	default:
		return err
	}

	return c.store.UnindexConnection(ctx, connectionID)
}

// removeFromRoom re-reads the room under its lock, drops the user holding
// the connection, and persists or deletes the room. Reports whether a user
// was actually removed.
func (c *Coordinator) removeFromRoom(ctx context.Context, roomID, connectionID string) (bool, error) {
	lock := c.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()

	room, err := c.store.FindByID(ctx, roomID)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	user := room.FindByConnection(connectionID)
	if user == nil {
		return false, nil
	}

	log.Printf("Removing user %s from room %s", user.UserID, roomID)
	peerID := user.PeerID
	room.RemoveUser(user.UserID)

	c.gateway.Broadcast(roomID, connectionID, models.NewEnvelope(models.EventUserDisconnected, models.UserDisconnected{
		PeerID: peerID,
	}))

	if len(room.Users) == 0 {
		if err := c.store.Delete(ctx, roomID); err != nil {
			return false, err
		}
		c.dropRoomLock(roomID)
		log.Printf("Room %s deleted as it is empty", roomID)
		return true, nil
	}

	if err := c.store.Save(ctx, room); err != nil {
		return false, err
	}
	return true, nil
}
