package models_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatterbox-online/signaling/internal/models"
)

func TestJoinRoomRequestValidate(t *testing.T) {
	t.Run("accepts fresh guest and reconnect shapes", func(t *testing.T) {
		fresh := models.JoinRoomRequest{RoomID: "r1", PeerID: "p1"}
		assert.NoError(t, fresh.Validate())

		reconnect := models.JoinRoomRequest{RoomID: "r1", PeerID: "p1", UserID: "u1", Name: "Alice"}
		assert.NoError(t, reconnect.Validate())
	})

	t.Run("rejects missing roomID", func(t *testing.T) {
		req := models.JoinRoomRequest{PeerID: "p1"}
		assert.Error(t, req.Validate())
	})

	t.Run("rejects missing peerID", func(t *testing.T) {
		req := models.JoinRoomRequest{RoomID: "r1"}
		assert.Error(t, req.Validate())
	})
}

func TestChatMessageRequestValidate(t *testing.T) {
	ok := models.ChatMessageRequest{RoomID: "r1", Sender: "u1", Message: "hi"}
	assert.NoError(t, ok.Validate())

	assert.Error(t, (&models.ChatMessageRequest{Message: "hi"}).Validate())
	assert.Error(t, (&models.ChatMessageRequest{RoomID: "r1"}).Validate())
}

func TestMuteUserRequestValidate(t *testing.T) {
	ok := models.MuteUserRequest{RoomID: "r1", TargetUserID: "u1"}
	assert.NoError(t, ok.Validate())

	assert.Error(t, (&models.MuteUserRequest{RoomID: "r1"}).Validate())
	assert.Error(t, (&models.MuteUserRequest{TargetUserID: "u1"}).Validate())
}

func TestEnvelopeRoundTrip(t *testing.T) {
	env := models.NewEnvelope(models.EventUserJoined, models.UserJoined{
		PeerID: "p1",
		UserID: "u1",
		Name:   "Alice",
	})

	data, err := json.Marshal(env)
	require.NoError(t, err)

	var decoded models.Envelope
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, models.EventUserJoined, decoded.Event)

	var payload models.UserJoined
	require.NoError(t, json.Unmarshal(decoded.Data, &payload))
	assert.Equal(t, "p1", payload.PeerID)
	assert.Equal(t, "u1", payload.UserID)
}
