package models

import (
	"encoding/json"
	"errors"
)

// EventType names a realtime channel event.
type EventType string

const (
	// Client -> server
	EventJoinRoom    EventType = "join-room"
	EventChatMessage EventType = "chat-message"
	EventMuteUser    EventType = "mute-user"

	// Server -> client
	EventJoinAck          EventType = "join-ack"
	EventUserJoined       EventType = "user-joined"
	EventNewMessage       EventType = "new-message"
	EventMuted            EventType = "muted"
	EventUserDisconnected EventType = "user-disconnected"
)

// Envelope is the frame exchanged on the realtime channel in both
// directions: an event name plus its event-specific payload.
type Envelope struct {
	Event EventType       `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// NewEnvelope wraps a payload. Marshal failures cannot happen for the
// payload types in this package, so the result is always well-formed.
func NewEnvelope(event EventType, data any) Envelope {
	raw, _ := json.Marshal(data)
	return Envelope{Event: event, Data: raw}
}

// JoinRoomRequest is the join-room payload. UserID empty means a brand-new
// guest; non-empty means a reconnect with a previously issued identity.
type JoinRoomRequest struct {
	RoomID string `json:"roomID"`
	PeerID string `json:"peerID"`
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

func (r *JoinRoomRequest) Validate() error {
	if r.RoomID == "" {
		return errors.New("roomID is required")
	}
	if r.PeerID == "" {
		return errors.New("peerID is required")
	}
	return nil
}

// JoinAck answers a join-room. Either Role/Users or Error is set.
type JoinAck struct {
	Role  Role   `json:"role,omitempty"`
	Users []User `json:"users"`
	Error string `json:"error,omitempty"`
}

// ChatMessageRequest is the chat-message payload. Relay only, never acked.
type ChatMessageRequest struct {
	RoomID  string `json:"roomID"`
	Sender  string `json:"sender"`
	Message string `json:"message"`
	Name    string `json:"name"`
}

func (r *ChatMessageRequest) Validate() error {
	if r.RoomID == "" {
		return errors.New("roomID is required")
	}
	if r.Message == "" {
		return errors.New("message is required")
	}
	return nil
}

// MuteUserRequest is the mute-user payload.
type MuteUserRequest struct {
	RoomID       string `json:"roomID"`
	TargetUserID string `json:"targetUserId"`
}

func (r *MuteUserRequest) Validate() error {
	if r.RoomID == "" {
		return errors.New("roomID is required")
	}
	if r.TargetUserID == "" {
		return errors.New("targetUserId is required")
	}
	return nil
}

// UserJoined notifies existing peers that a newcomer is ready to be dialed.
type UserJoined struct {
	PeerID string `json:"peerID"`
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

// NewMessage carries a relayed chat message.
type NewMessage struct {
	Sender  string `json:"sender"`
	Message string `json:"message"`
	Name    string `json:"name"`
}

// UserDisconnected notifies remaining peers that a peer connection is gone.
type UserDisconnected struct {
	PeerID string `json:"peerID"`
}

// Muted tells one connection it has been muted. No fields.
type Muted struct{}
