package store

import (
	"context"
	"errors"

	"github.com/chatterbox-online/signaling/internal/models"
)

var (
	// ErrNotFound means the room (or index entry) does not exist.
	ErrNotFound = errors.New("room not found")
	// ErrRoomExists means Insert hit an already-taken roomID.
	ErrRoomExists = errors.New("room already exists")
)

// RoomStore is the durable keyed collection of room documents, plus the
// connection index that maps a live connection to the room holding it.
// Any other returned error means the storage engine is unavailable; callers
// propagate it, never swallow it.
type RoomStore interface {
	FindByID(ctx context.Context, roomID string) (*models.Room, error)
	FindAll(ctx context.Context) ([]models.Room, error)
	// Insert stores a new room and fails with ErrRoomExists if the roomID
	// is already taken; the check-and-set is atomic at the storage layer.
	Insert(ctx context.Context, room *models.Room) error
	// Save upserts the full room document, replacing its user list.
	Save(ctx context.Context, room *models.Room) error
	Delete(ctx context.Context, roomID string) error

	IndexConnection(ctx context.Context, connectionID, roomID string) error
	UnindexConnection(ctx context.Context, connectionID string) error
	// RoomForConnection returns the indexed roomID or ErrNotFound.
	RoomForConnection(ctx context.Context, connectionID string) (string, error)
}
