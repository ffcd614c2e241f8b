package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"event-svr/internal/model"
)

const positionTTL = 24 * time.Hour

// Redis keeps the latest position per device in Redis so multiple ingest
// processes share one view. Device and group objects are config entities
// and stay in process memory, seeded at startup and refreshed by whoever
// owns device CRUD.
type Redis struct {
	rdb    *redis.Client
	logger *slog.Logger

	mu      sync.RWMutex
	devices map[int64]*model.Device
	groups  map[int64]*model.Group
}

func NewRedis(addr string, db int, logger *slog.Logger) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &Redis{
		rdb:     rdb,
		logger:  logger.With("component", "cache"),
		devices: make(map[int64]*model.Device),
		groups:  make(map[int64]*model.Group),
	}, nil
}

func (c *Redis) Close() error {
	return c.rdb.Close()
}

func (c *Redis) PutDevice(d *model.Device) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.devices[d.ID] = d
}

func (c *Redis) PutGroup(g *model.Group) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.groups[g.ID] = g
}

func (c *Redis) Device(id int64) *model.Device {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.devices[id]
}

func (c *Redis) Group(id int64) *model.Group {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.groups[id]
}

func lastPositionKey(deviceID int64) string {
	return "device:last:" + strconv.FormatInt(deviceID, 10)
}

func (c *Redis) LastPosition(deviceID int64) *model.Position {
	val, err := c.rdb.Get(context.Background(), lastPositionKey(deviceID)).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("redis GET failed", "device", deviceID, "err", err)
		}
		return nil
	}
	var p model.Position
	if err := json.Unmarshal([]byte(val), &p); err != nil {
		c.logger.Warn("bad cached position, dropping", "device", deviceID, "err", err)
		return nil
	}
	return &p
}

func (c *Redis) IsLatest(p *model.Position) bool {
	return isNewer(p, c.LastPosition(p.DeviceID))
}

func (c *Redis) UpdatePosition(p *model.Position) {
	b, err := json.Marshal(p)
	if err != nil {
		c.logger.Error("marshal position failed", "device", p.DeviceID, "err", err)
		return
	}
	if err := c.rdb.Set(context.Background(), lastPositionKey(p.DeviceID), b, positionTTL).Err(); err != nil {
		c.logger.Warn("redis SET failed", "device", p.DeviceID, "err", err)
	}
}
