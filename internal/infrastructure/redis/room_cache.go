package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JeanPieerT/Hotel-Herramientas/internal/domain/room"
)

var (
	ErrCacheMiss = errors.New("キャッシュが見つかりません")
)

const roomListKey = "rooms:list"

// RoomCache は客室一覧のキャッシュを管理する
// 客室状態は予約ライフサイクルで頻繁に変わるため、各操作後に無効化される
type RoomCache struct {
	client *redis.Client
}

// NewRoomCache は新しいRoomCacheインスタンスを作成する
func NewRoomCache(client *redis.Client) *RoomCache {
	return &RoomCache{client: client}
}

// GetRoomList は客室一覧をキャッシュから取得する
func (c *RoomCache) GetRoomList(ctx context.Context) ([]*room.Room, error) {
	data, err := c.client.Get(ctx, roomListKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	var rooms []*room.Room
	if err := json.Unmarshal(data, &rooms); err != nil {
		return nil, fmt.Errorf("キャッシュのデコードに失敗: %w", err)
	}
	return rooms, nil
}

// SetRoomList は客室一覧をキャッシュに保存する
func (c *RoomCache) SetRoomList(ctx context.Context, rooms []*room.Room, ttl time.Duration) error {
	data, err := json.Marshal(rooms)
	if err != nil {
		return fmt.Errorf("キャッシュのエンコードに失敗: %w", err)
	}
	if err := c.client.Set(ctx, roomListKey, data, ttl).Err(); err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// Invalidate は客室一覧キャッシュを無効化する
func (c *RoomCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, roomListKey).Err(); err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}
