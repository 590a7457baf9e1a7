package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chatterbox-online/signaling/internal/coordinator"
)

// CreateRoom mints a room and hands the caller its host credentials. A
// generated room ID collision is a 400; the client retries the request.
func CreateRoom(coord *coordinator.Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp, err := coord.CreateRoom(c.Request.Context())
		if errors.Is(err, coordinator.ErrRoomExists) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Room already exists"})
			return
		}
		if err != nil {
			log.Printf("Failed to create room: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create room"})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// Liveness answers the plain-text health probe.
func Liveness(c *gin.Context) {
	c.String(http.StatusOK, "app running")
}
