package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatterbox-online/signaling/internal/models"
	"github.com/chatterbox-online/signaling/internal/store"
)

func TestMemoryStoreRooms(t *testing.T) {
	ctx := context.Background()

	t.Run("find unknown room", func(t *testing.T) {
		s := store.NewMemory()
		_, err := s.FindByID(ctx, "missing")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("insert enforces roomID uniqueness", func(t *testing.T) {
		s := store.NewMemory()
		room := &models.Room{RoomID: "r1", Users: []models.User{{UserID: "host1", Role: models.RoleHost}}}

		require.NoError(t, s.Insert(ctx, room))
		assert.ErrorIs(t, s.Insert(ctx, &models.Room{RoomID: "r1"}), store.ErrRoomExists)

		// the losing insert must not clobber the stored document
		got, err := s.FindByID(ctx, "r1")
		require.NoError(t, err)
		assert.Len(t, got.Users, 1)
	})

	t.Run("save upserts the full document", func(t *testing.T) {
		s := store.NewMemory()
		require.NoError(t, s.Insert(ctx, &models.Room{RoomID: "r1", Users: []models.User{{UserID: "host1"}}}))

		updated := &models.Room{RoomID: "r1", Users: []models.User{{UserID: "host1"}, {UserID: "g1"}}}
		require.NoError(t, s.Save(ctx, updated))

		got, err := s.FindByID(ctx, "r1")
		require.NoError(t, err)
		assert.Len(t, got.Users, 2)
	})

	t.Run("reads do not alias stored state", func(t *testing.T) {
		s := store.NewMemory()
		require.NoError(t, s.Insert(ctx, &models.Room{RoomID: "r1", Users: []models.User{{UserID: "host1"}}}))

		got, err := s.FindByID(ctx, "r1")
		require.NoError(t, err)
		got.Users[0].UserID = "mutated"

		again, err := s.FindByID(ctx, "r1")
		require.NoError(t, err)
		assert.Equal(t, "host1", again.Users[0].UserID)
	})

	t.Run("delete removes the room", func(t *testing.T) {
		s := store.NewMemory()
		require.NoError(t, s.Insert(ctx, &models.Room{RoomID: "r1"}))
		require.NoError(t, s.Delete(ctx, "r1"))

		_, err := s.FindByID(ctx, "r1")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("find all scans every room", func(t *testing.T) {
		s := store.NewMemory()
		require.NoError(t, s.Insert(ctx, &models.Room{RoomID: "r1"}))
		require.NoError(t, s.Insert(ctx, &models.Room{RoomID: "r2"}))

		rooms, err := s.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, rooms, 2)
	})
}

func TestMemoryStoreConnectionIndex(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	_, err := s.RoomForConnection(ctx, "c1")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.IndexConnection(ctx, "c1", "r1"))

	roomID, err := s.RoomForConnection(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "r1", roomID)

	require.NoError(t, s.UnindexConnection(ctx, "c1"))
	_, err = s.RoomForConnection(ctx, "c1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
