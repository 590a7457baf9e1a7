package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/chatterbox-online/signaling/config"
	"github.com/chatterbox-online/signaling/internal/models"
)

const roomIndexKey = "rooms"

// RedisStore keeps each room as a JSON document under room:<roomID>, the set
// of known room IDs under "rooms", and one conn:<connectionID> key per live
// connection pointing at its room.
type RedisStore struct {
	client *redis.Client
}

// NewRedis connects to Redis and verifies the connection with a ping.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func roomKey(roomID string) string { return "room:" + roomID }
func connKey(connID string) string { return "conn:" + connID }

func (s *RedisStore) FindByID(ctx context.Context, roomID string) (*models.Room, error) {
	data, err := s.client.Get(ctx, roomKey(roomID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find room %s: %w", roomID, err)
	}

	var room models.Room
	if err := json.Unmarshal([]byte(data), &room); err != nil {
		return nil, fmt.Errorf("parse room %s: %w", roomID, err)
	}
	return &room, nil
}

func (s *RedisStore) FindAll(ctx context.Context) ([]models.Room, error) {
	roomIDs, err := s.client.SMembers(ctx, roomIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}

	rooms := make([]models.Room, 0, len(roomIDs))
	for _, roomID := range roomIDs {
		room, err := s.FindByID(ctx, roomID)
		if errors.Is(err, ErrNotFound) {
			// index entry outlived its document
			continue
		}
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, *room)
	}
	return rooms, nil
}

func (s *RedisStore) Insert(ctx context.Context, room *models.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("marshal room %s: %w", room.RoomID, err)
	}

	// SETNX makes the uniqueness check atomic at the storage layer.
	ok, err := s.client.SetNX(ctx, roomKey(room.RoomID), data, 0).Result()
	if err != nil {
		return fmt.Errorf("insert room %s: %w", room.RoomID, err)
	}
	if !ok {
		return ErrRoomExists
	}

	if err := s.client.SAdd(ctx, roomIndexKey, room.RoomID).Err(); err != nil {
		return fmt.Errorf("index room %s: %w", room.RoomID, err)
	}
	return nil
}

func (s *RedisStore) Save(ctx context.Context, room *models.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("marshal room %s: %w", room.RoomID, err)
	}
	if err := s.client.Set(ctx, roomKey(room.RoomID), data, 0).Err(); err != nil {
		return fmt.Errorf("save room %s: %w", room.RoomID, err)
	}
	if err := s.client.SAdd(ctx, roomIndexKey, room.RoomID).Err(); err != nil {
		return fmt.Errorf("index room %s: %w", room.RoomID, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, roomID string) error {
	if err := s.client.Del(ctx, roomKey(roomID)).Err(); err != nil {
		return fmt.Errorf("delete room %s: %w", roomID, err)
	}
	if err := s.client.SRem(ctx, roomIndexKey, roomID).Err(); err != nil {
		return fmt.Errorf("unindex room %s: %w", roomID, err)
	}
	return nil
}

func (s *RedisStore) IndexConnection(ctx context.Context, connectionID, roomID string) error {
	if err := s.client.Set(ctx, connKey(connectionID), roomID, 0).Err(); err != nil {
		return fmt.Errorf("index connection %s: %w", connectionID, err)
	}
	return nil
}

func (s *RedisStore) UnindexConnection(ctx context.Context, connectionID string) error {
	if err := s.client.Del(ctx, connKey(connectionID)).Err(); err != nil {
		return fmt.Errorf("unindex connection %s: %w", connectionID, err)
	}
	return nil
}

func (s *RedisStore) RoomForConnection(ctx context.Context, connectionID string) (string, error) {
	roomID, err := s.client.Get(ctx, connKey(connectionID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("look up connection %s: %w", connectionID, err)
	}
	return roomID, nil
}
