package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/chatterbox-online/signaling/internal/coordinator"
	"github.com/chatterbox-online/signaling/internal/gateway"
	"github.com/chatterbox-online/signaling/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin checking is handled by middleware
		return true
	},
}

// HandleSocket upgrades the connection, mints its connection ID, and runs
// the event loop feeding the coordinator until the connection drops.
func HandleSocket(coord *coordinator.Coordinator, hub *gateway.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("Failed to upgrade connection: %v", err)
			return
		}

		connectionID := uuid.New().String()
		client := gateway.NewClient(connectionID, conn)
		hub.Register(client)

		log.Printf("User connected: %s", connectionID)

		go client.WritePump()
		go readLoop(coord, hub, client)
	}
}

func readLoop(coord *coordinator.Coordinator, hub *gateway.Hub, client *gateway.Client) {
	defer func() {
		hub.Unregister(client.ID)
		client.Close()

		if err := coord.Disconnect(context.Background(), client.ID); err != nil {
			log.Printf("Disconnect cleanup for %s failed: %v", client.ID, err)
		}
	}()

	client.StartReadDeadlines()

	for {
		message, err := client.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error on %s: %v", client.ID, err)
			}
			break
		}
		dispatch(coord, hub, client, message)
	}
}

func dispatch(coord *coordinator.Coordinator, hub *gateway.Hub, client *gateway.Client, message []byte) {
	ctx := context.Background()

	var env models.Envelope
	if err := json.Unmarshal(message, &env); err != nil {
		log.Printf("Failed to parse frame from %s: %v", client.ID, err)
		return
	}

	switch env.Event {
	case models.EventJoinRoom:
		var req models.JoinRoomRequest
		if err := json.Unmarshal(env.Data, &req); err != nil {
			ackJoinError(hub, client.ID, "Malformed join-room payload")
			return
		}
		if err := req.Validate(); err != nil {
			ackJoinError(hub, client.ID, err.Error())
			return
		}

		role, users, err := coord.JoinRoom(ctx, client.ID, req)
		switch {
		case errors.Is(err, coordinator.ErrRoomNotFound):
			ackJoinError(hub, client.ID, "Room does not exist")
		case errors.Is(err, coordinator.ErrInvalidUserID):
			ackJoinError(hub, client.ID, "Invalid userId")
		case err != nil:
			log.Printf("Join failed for %s: %v", client.ID, err)
			ackJoinError(hub, client.ID, "Join failed")
		default:
			hub.SendTo(client.ID, models.NewEnvelope(models.EventJoinAck, models.JoinAck{
				Role:  role,
				Users: users,
			}))
		}

	case models.EventChatMessage:
		var req models.ChatMessageRequest
		if err := json.Unmarshal(env.Data, &req); err != nil {
			log.Printf("Malformed chat-message from %s: %v", client.ID, err)
			return
		}
		if err := req.Validate(); err != nil {
			log.Printf("Invalid chat-message from %s: %v", client.ID, err)
			return
		}
		if err := coord.ChatMessage(ctx, client.ID, req); err != nil {
			log.Printf("Chat relay failed for %s: %v", client.ID, err)
		}

	case models.EventMuteUser:
		var req models.MuteUserRequest
		if err := json.Unmarshal(env.Data, &req); err != nil {
			log.Printf("Malformed mute-user from %s: %v", client.ID, err)
			return
		}
		if err := req.Validate(); err != nil {
			log.Printf("Invalid mute-user from %s: %v", client.ID, err)
			return
		}
		// The caller's own role is not re-verified here; any participant
		// may mute, matching the observed protocol.
		if err := coord.MuteUser(ctx, req); err != nil {
			log.Printf("Mute failed for %s: %v", client.ID, err)
		}

	default:
		log.Printf("Unknown event type from %s: %s", client.ID, env.Event)
	}
}

func ackJoinError(hub *gateway.Hub, connectionID, msg string) {
	hub.SendTo(connectionID, models.NewEnvelope(models.EventJoinAck, models.JoinAck{Error: msg}))
}
