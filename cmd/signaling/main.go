package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/chatterbox-online/signaling/config"
	"github.com/chatterbox-online/signaling/internal/coordinator"
	"github.com/chatterbox-online/signaling/internal/gateway"
	"github.com/chatterbox-online/signaling/internal/handlers"
	"github.com/chatterbox-online/signaling/internal/store"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Connect to Redis
	roomStore, err := store.NewRedis(context.Background(), cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer roomStore.Close()

	log.Println("Redis connection established")

	hub := gateway.NewHub()
	coord := coordinator.New(roomStore, hub)

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Global CORS middleware (runs before routing)
	router.Use(handlers.OriginFilter(cfg.AllowedOrigins))

	// Liveness probe
	router.GET("/", handlers.Liveness)

	// Room creation entry point
	router.POST("/create-room", handlers.CreateRoom(coord))

	// Realtime signaling channel
	router.GET("/ws", handlers.HandleSocket(coord, hub))

	// Start server
	log.Printf("Starting signaling server on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
