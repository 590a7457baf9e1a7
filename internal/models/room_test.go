package models_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatterbox-online/signaling/internal/models"
)

func TestRoomFindUser(t *testing.T) {
	room := &models.Room{
		RoomID: "room1",
		Users: []models.User{
			{UserID: "u1", Role: models.RoleHost},
			{UserID: "u2", Role: models.RoleGuest, ConnectionID: "c2"},
		},
	}

	t.Run("returns a pointer into the room", func(t *testing.T) {
		user := room.FindUser("u2")
		require.NotNil(t, user)

		user.PeerID = "p2"
		assert.Equal(t, "p2", room.Users[1].PeerID)
	})

	t.Run("nil for unknown userId", func(t *testing.T) {
		assert.Nil(t, room.FindUser("nope"))
	})
}

func TestRoomFindByConnection(t *testing.T) {
	room := &models.Room{
		Users: []models.User{
			{UserID: "u1", ConnectionID: "c1"},
			{UserID: "u2", ConnectionID: "c2"},
		},
	}

	user := room.FindByConnection("c2")
	require.NotNil(t, user)
	assert.Equal(t, "u2", user.UserID)

	assert.Nil(t, room.FindByConnection("c3"))
}

func TestRoomRemoveUser(t *testing.T) {
	room := &models.Room{
		Users: []models.User{
			{UserID: "u1"},
			{UserID: "u2"},
			{UserID: "u3"},
		},
	}

	room.RemoveUser("u2")

	require.Len(t, room.Users, 2)
	assert.Equal(t, "u1", room.Users[0].UserID)
	assert.Equal(t, "u3", room.Users[1].UserID)

	// removing an absent user changes nothing
	room.RemoveUser("u2")
	assert.Len(t, room.Users, 2)
}

func TestUserDocumentLayout(t *testing.T) {
	user := models.User{
		UserID:       "u1",
		ConnectionID: "c1",
		PeerID:       "p1",
		Role:         models.RoleHost,
		Name:         "Alice",
	}

	data, err := json.Marshal(user)
	require.NoError(t, err)
	assert.JSONEq(t, `{"userId":"u1","socketID":"c1","peerID":"p1","type":"host","name":"Alice"}`, string(data))
}
