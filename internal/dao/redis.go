// Package dao publishes the live room directory to redis so other services
// can list joinable rooms.
package dao

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// 键名定义
const (
	KeyRoomList   = "rooms:available" // Set: room codes
	KeyRoomPrefix = "room:"           // Hash: room:{code} -> { details }
	roomTTL       = 24 * time.Hour
)

type Directory struct {
	RDB *redis.Client
}

func InitRedis(addr, password string, db int) (*Directory, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis connect %s: %w", addr, err)
	}
	return &Directory{RDB: rdb}, nil
}

// SaveRoom 创建房间
func (d *Directory) SaveRoom(ctx context.Context, code string, data map[string]interface{}) error {
	pipe := d.RDB.Pipeline()
	key := KeyRoomPrefix + code
	pipe.HSet(ctx, key, data)
	pipe.Expire(ctx, key, roomTTL)
	pipe.SAdd(ctx, KeyRoomList, code)
	_, err := pipe.Exec(ctx)
	return err
}

func (d *Directory) UpdateRoom(ctx context.Context, code string, data map[string]interface{}) error {
	return d.RDB.HSet(ctx, KeyRoomPrefix+code, data).Err()
}

// RemoveRoom 销毁房间
func (d *Directory) RemoveRoom(ctx context.Context, code string) error {
	pipe := d.RDB.Pipeline()
	pipe.Del(ctx, KeyRoomPrefix+code)
	pipe.SRem(ctx, KeyRoomList, code)
	_, err := pipe.Exec(ctx)
	return err
}

func (d *Directory) GetRoom(ctx context.Context, code string) (map[string]string, error) {
	return d.RDB.HGetAll(ctx, KeyRoomPrefix+code).Result()
}

// GetAllRooms lists every advertised room. Entries whose hash expired are
// pruned from the set.
func (d *Directory) GetAllRooms(ctx context.Context) ([]map[string]string, error) {
	codes, err := d.RDB.SMembers(ctx, KeyRoomList).Result()
	if err != nil {
		return nil, err
	}

	pipe := d.RDB.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(codes))
	for i, code := range codes {
		cmds[i] = pipe.HGetAll(ctx, KeyRoomPrefix+code)
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, err
	}

	var rooms []map[string]string
	for i, cmd := range cmds {
		data := cmd.Val()
		if len(data) == 0 {
			d.RDB.SRem(ctx, KeyRoomList, codes[i])
			continue
		}
		data["code"] = codes[i]
		rooms = append(rooms, data)
	}
	return rooms, nil
}

func (d *Directory) Close() error { return d.RDB.Close() }
